package local_fs

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/fileurl"
)

// SendFile copies file into the save path under fileKey and returns the absolute path.
// An existing key is never overwritten, the call fails with an error matching fs.ErrExist.
// SendFile 将文件写入保存目录，已存在的文件不会被覆盖
func (p *LocalFS) SendFile(fileKey string, file io.Reader, cType string, modTime time.Time) (string, error) {
	dstFileKey := p.getSavePath() + fileKey

	if err := fileurl.CreatePath(dstFileKey, 0754); err != nil {
		return "", err
	}

	out, err := os.OpenFile(dstFileKey, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		_ = os.Remove(dstFileKey)
		return "", err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dstFileKey)
		return "", err
	}

	if !modTime.IsZero() {
		_ = os.Chtimes(dstFileKey, modTime, modTime)
	}

	return dstFileKey, nil
}

// SendContent writes content under fileKey, replacing any existing file
// SendContent 写入内容，覆盖已存在的文件
func (p *LocalFS) SendContent(fileKey string, content []byte, modTime time.Time) (string, error) {
	dstFileKey := p.getSavePath() + fileKey

	if err := fileurl.CreatePath(dstFileKey, 0754); err != nil {
		return "", err
	}
	if err := os.WriteFile(dstFileKey, content, 0644); err != nil {
		return "", err
	}
	if !modTime.IsZero() {
		_ = os.Chtimes(dstFileKey, modTime, modTime)
	}
	return dstFileKey, nil
}

// Exists 判断文件是否存在
func (p *LocalFS) Exists(fileKey string) bool {
	return fileurl.IsExist(p.getSavePath() + fileKey)
}

// List returns the absolute paths of the regular files directly under the save path
// List 列出保存目录下的文件（不递归）
func (p *LocalFS) List() ([]string, error) {
	root := p.getSavePath()
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(root, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
