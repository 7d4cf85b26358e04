package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/dao"
	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/metrics"
	"github.com/haierkeys/fast-note-pad/internal/service"
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"
	"github.com/haierkeys/fast-note-pad/pkg/storage"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"
	"github.com/haierkeys/fast-note-pad/pkg/writequeue"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config  *AppConfig
	logger  *zap.Logger
	DB      *gorm.DB
	Dao     *dao.Dao
	Metrics *metrics.Collector

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	NoteRepo domain.NoteRepository

	// Service 层
	NoteStore    service.NoteStore
	NotesGateway *service.NotesGateway
	QuoteService service.QuoteService
	ImageService service.ImageService

	// Controller 编辑状态
	Controller *viewmodel.Controller

	StartTime time.Time

	// 关闭控制
	shutdownOnce sync.Once
	shutdownErr  error
}

// Option App 构造选项
type Option func(*App)

// WithMetrics 注入指标收集器，默认新建
func WithMetrics(m *metrics.Collector) Option {
	return func(a *App) {
		a.Metrics = m
	}
}

// WithQuoteService 替换名言服务，测试使用
func WithQuoteService(q service.QuoteService) Option {
	return func(a *App) {
		a.QuoteService = q
	}
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:    cfg,
		logger:    logger,
		DB:        db,
		StartTime: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.Metrics == nil {
		a.Metrics = metrics.NewCollector()
	}

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	// 初始化 DAO（使用依赖注入）
	a.Dao = dao.New(db, context.Background(),
		dao.WithLogger(logger),
		dao.WithWriteQueueManager(a.writeQueueMgr),
	)

	// 初始化 Repository 层
	a.NoteRepo = dao.NewNoteRepository(a.Dao)

	// 图片存储
	imageStore, err := storage.NewClient(&cfg.Image)
	if err != nil {
		a.closeWorkers()
		return nil, fmt.Errorf("image storage: %w", err)
	}

	// 初始化 Service 层（依赖注入）
	a.NoteStore = service.NewNoteStore(a.NoteRepo, logger, a.Metrics)
	a.NotesGateway = service.NewNotesGateway(a.NoteStore, a.workerPool, logger)
	a.ImageService = service.NewImageService(imageStore, logger)
	if a.QuoteService == nil {
		a.QuoteService = service.NewQuoteService(service.QuoteServiceConfig{
			BaseURL:       cfg.Quote.BaseURL,
			Timeout:       cfg.GetQuoteTimeout(),
			RatePerSecond: cfg.Quote.RatePerSecond,
			RateBurst:     cfg.Quote.RateBurst,
		}, logger, a.Metrics)
	}

	a.Controller = viewmodel.NewController(a.NotesGateway, a.QuoteService, logger, a.Metrics, viewmodel.Config{
		DefaultText: cfg.App.DefaultText,
		SaveMessage: cfg.App.SaveMessage,
		EventBuffer: cfg.App.EventBuffer,
		LoadTimeout: cfg.GetLoadTimeout(),
	})

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity))

	return a, nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取构建信息
func (a *App) Version() BuildInfo {
	return CurrentBuild()
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager（用于高级操作）
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：Controller -> Worker Pool -> Write Queue Manager -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownOnce.Do(func() {
		a.shutdownErr = a.shutdown(ctx)
	})
	return a.shutdownErr
}

func (a *App) shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	var errs []error

	// 1. 关闭 Controller（取消进行中的加载与名言请求，关闭通知通道）
	a.Controller.Close()

	// 2. 关闭 Worker Pool（停止接受新任务，等待现有任务完成）
	a.logger.Info("Shutting down worker pool...")
	if err := a.workerPool.Shutdown(ctx); err != nil {
		a.logger.Warn("Worker pool shutdown error", zap.Error(err))
		errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
	}

	// 3. 关闭 Write Queue Manager（排空所有队列）
	a.logger.Info("Shutting down write queue manager...")
	if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
		a.logger.Warn("write queue manager shutdown error", zap.Error(err))
		errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
	}

	// 4. 关闭数据库
	if sqlDB, err := a.DB.DB(); err != nil {
		errs = append(errs, fmt.Errorf("failed to get sql.DB: %w", err))
	} else if err := sqlDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	} else {
		a.logger.Info("Database connection closed")
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	a.logger.Info("App container shutdown completed")
	return nil
}

func (a *App) closeWorkers() {
	_ = a.workerPool.Shutdown(context.Background())
	_ = a.writeQueueMgr.Shutdown(context.Background())
}
