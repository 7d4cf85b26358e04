package task

import (
	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/pkg/logger"
	"github.com/haierkeys/fast-note-pad/pkg/safe_close"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	app       *app.App
	scheduler *Scheduler
	logger    *zap.Logger
}

// NewManager 创建任务管理器
func NewManager(a *app.App, sc *safe_close.SafeClose) *Manager {
	return &Manager{
		app:       a,
		scheduler: NewScheduler(a.Logger(), sc),
		logger:    a.Logger(),
	}
}

// RegisterTasks 通过注册表创建并添加所有任务
func (m *Manager) RegisterTasks() error {
	for _, r := range registrations() {
		t, err := r.factory(m.app)
		if err != nil {
			return errors.Wrapf(err, "build %s", r.name)
		}
		if t == nil {
			m.logger.Info("task disabled", zap.String(logger.FieldTask, r.name))
			continue
		}
		if err := m.scheduler.AddTask(t); err != nil {
			return errors.Wrapf(err, "schedule %s", t.Name())
		}
		m.logger.Info("task registered", zap.String(logger.FieldTask, t.Name()), zap.String("spec", t.Spec()))
	}
	return nil
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}
