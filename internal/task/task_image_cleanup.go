package task

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/service"
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"go.uber.org/zap"
)

// init 自动注册图片清理任务
func init() {
	Register(imageCleanupName, NewImageCleanupTask)
}

// ImageCleanupTask removes copied images that no saved note and no open editor references
// ImageCleanupTask 清理未被任何笔记引用的图片
type ImageCleanupTask struct {
	spec   string
	minAge time.Duration
	notes  service.NoteStore
	images service.ImageService
	ctrl   *viewmodel.Controller
	logger *zap.Logger
}

const (
	imageCleanupName = "ImageCleanupTask"

	// imageCleanupOff 关闭图片清理的 cron 取值
	imageCleanupOff = "off"
)

// NewImageCleanupTask 创建图片清理任务，cron 为空或 off 时关闭
func NewImageCleanupTask(a *app.App) (Task, error) {
	cfg := a.Config()
	spec := cfg.Task.ImageCleanupCron
	if spec == "" || spec == imageCleanupOff {
		return nil, nil
	}
	return &ImageCleanupTask{
		spec:   cfg.Task.ImageCleanupCron,
		minAge: cfg.GetImageCleanupMinAge(),
		notes:  a.NoteStore,
		images: a.ImageService,
		ctrl:   a.Controller,
		logger: a.Logger(),
	}, nil
}

// Name 返回任务名称
func (t *ImageCleanupTask) Name() string {
	return imageCleanupName
}

// Spec 返回 cron 表达式
func (t *ImageCleanupTask) Spec() string {
	return t.spec
}

// IsStartupRun 启动时不执行，刚复制的图片可能还未保存
func (t *ImageCleanupTask) IsStartupRun() bool {
	return false
}

// Run 执行清理任务
func (t *ImageCleanupTask) Run(ctx context.Context) error {
	referenced, err := t.notes.ImagePaths(ctx)
	if err != nil {
		return err
	}
	if t.ctrl != nil {
		if p := t.ctrl.State().ImagePath; p != nil {
			referenced = append(referenced, *p)
		}
	}

	removed, err := t.images.Cleanup(ctx, referenced, t.minAge)
	if err != nil {
		return err
	}
	if removed > 0 {
		t.logger.Info("orphan images removed", zap.String(logger.FieldTask, t.Name()), zap.Int(logger.FieldCount, removed))
	}
	return nil
}
