// Package task 定时维护任务
package task

import (
	"context"

	"github.com/haierkeys/fast-note-pad/pkg/logger"
	"github.com/haierkeys/fast-note-pad/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	Spec() string                  // cron 表达式，支持 @every 1h
	IsStartupRun() bool            // 是否立即执行一次
}

// Scheduler runs tasks on their cron specs until the SafeClose fires.
// Runs of the same task never overlap.
// Scheduler 任务调度器，同一任务不会并发执行
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
	cron   *cron.Cron
}

// NewScheduler 创建任务调度器
func NewScheduler(lg *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: lg,
		tasks:  make([]Task, 0),
		sc:     sc,
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{lg}),
			cron.SkipIfStillRunning(cronLogger{lg}),
		)),
	}
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) error {
	_, err := s.cron.AddFunc(task.Spec(), func() { s.run(task, false) })
	if err != nil {
		return err
	}
	s.tasks = append(s.tasks, task)
	return nil
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting", zap.Int(logger.FieldCount, len(s.tasks)))

	for _, task := range s.tasks {
		if task.IsStartupRun() {
			go s.run(task, true)
		}
	}

	s.cron.Start()
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		// 等待正在执行的任务结束
		<-s.cron.Stop().Done()
		s.logger.Info("tasks stopped", zap.Int(logger.FieldCount, len(s.tasks)))
	})
}

func (s *Scheduler) run(task Task, startup bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panic",
				zap.String(logger.FieldTask, task.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	s.logger.Info("task running", zap.String(logger.FieldTask, task.Name()), zap.Bool("startupRun", startup))
	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task running error",
			zap.String(logger.FieldTask, task.Name()),
			zap.Bool("startupRun", startup),
			zap.Error(err))
	}
}

// cronLogger 将 cron 日志转发到 zap
type cronLogger struct {
	lg *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.lg.Debug(msg, zap.Any("cron", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.lg.Error(msg, zap.Error(err), zap.Any("cron", keysAndValues))
}
