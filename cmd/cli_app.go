package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	internalApp "github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// withApp builds the app container for a one-shot command and shuts it
// down afterwards, which drains queued note writes
// withApp 为单次命令创建 App Container，结束后关闭并等待写入完成
func withApp(configPath string, fn func(a *internalApp.App) error) error {
	configPath, err := resolveConfig(configPath)
	if err != nil {
		return err
	}
	cfg, _, err := internalApp.LoadConfig(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	lg, err := prepareRuntime(cfg)
	if err != nil {
		return err
	}
	defer lg.Sync()

	a, err := openApp(cfg, lg)
	if err != nil {
		return err
	}

	runErr := fn(a)
	a.Controller.Wait()
	if err := a.Shutdown(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// prepareRuntime creates the log, image and database directories, then the logger
// prepareRuntime 创建运行所需目录并初始化日志器
func prepareRuntime(cfg *internalApp.AppConfig) (*zap.Logger, error) {
	dirs := []string{filepath.Dir(cfg.Log.File), cfg.Image.SavePath}
	if cfg.Database.Type == "sqlite" {
		dirs = append(dirs, filepath.Dir(cfg.Database.Path))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o754); err != nil {
			return nil, errors.Wrapf(err, "create directory %s", dir)
		}
	}
	return newLogger(cfg)
}

func newLogger(cfg *internalApp.AppConfig) (*zap.Logger, error) {
	lg, err := logger.NewLogger(logger.Config{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Production: cfg.Log.Production,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to init logger")
	}
	return lg, nil
}

// openApp opens the database, applies schema upgrades and builds the container
// openApp 打开数据库并创建 App Container
func openApp(cfg *internalApp.AppConfig, lg *zap.Logger, opts ...internalApp.Option) (*internalApp.App, error) {
	db, err := internalApp.OpenDatabase(context.Background(), cfg, lg)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	a, err := internalApp.NewApp(cfg, lg, db, opts...)
	if err != nil {
		if sqlDB, e := db.DB(); e == nil {
			_ = sqlDB.Close()
		}
		return nil, errors.Wrap(err, "create app container")
	}
	return a, nil
}

// pendingEvent 读取一条已产生的通知，没有则返回 false
func pendingEvent(c *viewmodel.Controller) (viewmodel.Notification, bool) {
	select {
	case n, ok := <-c.Events():
		return n, ok
	default:
		return viewmodel.Notification{}, false
	}
}

// loadForEdit opens the editor for id and fails when the note is missing
// loadForEdit 加载笔记到编辑状态，不存在时返回错误
func loadForEdit(c *viewmodel.Controller, id int64) error {
	if err := c.Dispatch(viewmodel.Load{ID: &id}); err != nil {
		return err
	}
	c.Wait()
	if n, ok := pendingEvent(c); ok && n.Kind == viewmodel.NotificationLoadFailed {
		return n.Err
	}
	if s := c.State(); s.EditingID == nil || *s.EditingID != id {
		return fmt.Errorf("note %d not loaded", id)
	}
	return nil
}
