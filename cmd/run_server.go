package cmd

import (
	"context"
	"net/http"
	"sync"
	"time"

	internalApp "github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/routers"
	"github.com/haierkeys/fast-note-pad/internal/task"
	"github.com/haierkeys/fast-note-pad/pkg/safe_close"
	"github.com/haierkeys/fast-note-pad/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultShutdownTimeout App Container 关闭超时
	DefaultShutdownTimeout = 30 * time.Second

	httpShutdownTimeout = 5 * time.Second
	maxHeaderBytes      = 1 << 20
)

const banner = `
    ______           __     _   __      __          ____            __
   / ____/___ ______/ /_   / | / /___  / /____     / __ \____ _____/ /
  / /_  / __ ` + "`" + `/ ___/ __/  /  |/ / __ \/ __/ _ \   / /_/ / __ ` + "`" + `/ __  /
 / __/ / /_/ (__  ) /_   / /|  / /_/ / /_/  __/  / ____/ /_/ / /_/ /
/_/    \__,_/____/\__/  /_/ |_/\____/\__/\___/  /_/    \__,_/\__,_/  `

// Server hosts the app container behind the public and private HTTP listeners
// Server 在公开与私有 HTTP 监听上承载 App Container
type Server struct {
	logger *zap.Logger
	config *internalApp.AppConfig
	sc     *safe_close.SafeClose
	app    *internalApp.App

	// servers 在 HTTP 服务全部停止后归零，App Container 在此之后关闭
	servers sync.WaitGroup
}

func NewServer(flags *runFlags) (*Server, error) {
	cfg, configRealpath, err := internalApp.LoadConfig(flags.config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if flags.port != "" {
		cfg.Server.HttpPort = flags.port
	}
	runMode := flags.runMode
	if runMode == "" {
		runMode = cfg.Server.RunMode
	}
	if runMode == "" {
		runMode = gin.ReleaseMode
	}
	gin.SetMode(runMode)

	lg, err := prepareRuntime(cfg)
	if err != nil {
		return nil, err
	}

	a, err := openApp(cfg, lg)
	if err != nil {
		return nil, err
	}

	uni, err := validator.Init()
	if err != nil {
		_ = a.Shutdown(context.Background())
		return nil, errors.Wrap(err, "init validator")
	}

	s := &Server{
		logger: lg,
		config: cfg,
		sc:     safe_close.NewSafeClose(),
		app:    a,
	}
	s.startTasks()

	lg.Warn(banner + "\n\n" + a.Version().String())
	lg.Warn("config loaded", zap.String("path", configRealpath))

	if addr := cfg.Server.HttpPort; addr != "" {
		handler, wss := routers.NewRouter(a, uni)
		lg.Warn("api service", zap.String("listen", addr))
		s.serve("api service", s.newHTTPServer(addr, handler), wss.CloseAll)
	}
	if addr := cfg.Server.PrivateHttpListen; addr != "" {
		lg.Info("private api service", zap.String("listen", addr))
		s.serve("private api service", s.newHTTPServer(addr, routers.NewPrivateRouter(runMode, a)), nil)
	}

	// App Container 在 HTTP 服务停止后关闭
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		s.servers.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()

		if err := s.app.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown app container", zap.Error(err))
		} else {
			s.logger.Info("App container shutdown gracefully")
		}
		_ = s.logger.Sync()
	})

	return s, nil
}

func (s *Server) newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(s.config.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: maxHeaderBytes,
	}
}

// serve runs srv until the close signal. beforeShutdown runs ahead of
// http.Server.Shutdown, which does not wait for hijacked connections.
// serve 启动 HTTP 服务，收到关闭信号后优雅停止
func (s *Server) serve(name string, srv *http.Server, beforeShutdown func()) {
	s.servers.Add(1)
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		defer s.servers.Done()

		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.ListenAndServe()
		}()
		select {
		case err := <-errChan:
			s.logger.Error(name+" err", zap.Error(err))
			s.sc.SendCloseSignal(err)
		case <-closeSignal:
			if beforeShutdown != nil {
				beforeShutdown()
			}
			ctx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error(name+" shutdown error", zap.Error(err))
			}
		}
	})
}

// startTasks 注册并启动定时任务，注册失败只记录日志
func (s *Server) startTasks() {
	manager := task.NewManager(s.app, s.sc)
	if err := manager.RegisterTasks(); err != nil {
		s.logger.Error("failed to register tasks", zap.Error(err))
		return
	}
	manager.Start()
}
