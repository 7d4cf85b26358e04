package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/pkg/logger"
	"github.com/haierkeys/fast-note-pad/pkg/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const imagePrefix = "note_"

// ImageService copies picked images into the private image directory
// ImageService 将选取的图片复制到私有图片目录
type ImageService interface {
	// Ingest copies r verbatim to note_<epoch-millis>.jpg and returns the absolute path
	// Ingest 原样复制图片，返回绝对路径；失败时返回包装了 domain.ErrImageCopy 的错误
	Ingest(ctx context.Context, r io.Reader) (string, error)

	// IngestFile 复制本地文件
	IngestFile(ctx context.Context, path string) (string, error)

	// Cleanup removes image files that no path in referenced points to and
	// that are older than minAge, returns how many files were removed
	// Cleanup 删除未被引用且超过 minAge 的图片
	Cleanup(ctx context.Context, referenced []string, minAge time.Duration) (int, error)
}

type imageService struct {
	store  storage.Storager
	logger *zap.Logger
	now    func() time.Time
}

// NewImageService 创建 ImageService 实例
func NewImageService(store storage.Storager, lg *zap.Logger) ImageService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &imageService{store: store, logger: lg, now: time.Now}
}

func (s *imageService) Ingest(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrImageCopy, err)
	}

	name := fmt.Sprintf("%s%d.jpg", imagePrefix, s.now().UnixMilli())
	path, err := s.store.SendFile(name, r, "image/jpeg", time.Time{})
	if errors.Is(err, fs.ErrExist) {
		// two images in the same millisecond
		name = fmt.Sprintf("%s%d_%s.jpg", imagePrefix, s.now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		path, err = s.store.SendFile(name, r, "image/jpeg", time.Time{})
	}
	if err != nil {
		s.logger.Error("image copy failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrImageCopy, err)
	}

	s.logger.Info("image copied", zap.String(logger.FieldImagePath, path))
	return path, nil
}

func (s *imageService) IngestFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrImageCopy, err)
	}
	defer f.Close()
	return s.Ingest(ctx, f)
}

func (s *imageService) Cleanup(ctx context.Context, referenced []string, minAge time.Duration) (int, error) {
	files, err := s.store.List()
	if err != nil {
		return 0, err
	}

	keep := make(map[string]struct{}, len(referenced))
	for _, p := range referenced {
		keep[filepath.Clean(p)] = struct{}{}
	}

	removed := 0
	cutoff := s.now().Add(-minAge)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !strings.HasPrefix(filepath.Base(file), imagePrefix) {
			continue
		}
		if _, ok := keep[filepath.Clean(file)]; ok {
			continue
		}
		// an image is copied before its note is saved
		if info, err := os.Stat(file); err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := s.store.Delete(file); err != nil {
			s.logger.Warn("remove orphan image failed", zap.String(logger.FieldImagePath, file), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}
