package routers

import (
	"time"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/middleware"
	"github.com/haierkeys/fast-note-pad/internal/routers/api_router"
	"github.com/haierkeys/fast-note-pad/internal/routers/websocket_router"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/lxzan/gws"
)

// imageUploadRate /api/image 每秒上传次数
const imageUploadRate = 5

func methodLimiters(cfg *app.AppConfig) limiter.Face {
	return limiter.NewMethodLimiter().AddBuckets(
		limiter.BucketRule{
			Key:          "/api/intent",
			FillInterval: time.Second,
			Capacity:     cfg.App.IntentRateLimit,
			Quantum:      cfg.App.IntentRateLimit,
		},
		limiter.BucketRule{
			Key:          "/api/image",
			FillInterval: time.Second,
			Capacity:     imageUploadRate,
			Quantum:      imageUploadRate,
		},
	)
}

// NewRouter builds the public API router. The returned WebsocketServer is
// closed by the caller on shutdown; the notification pump stops when the
// controller closes.
// NewRouter 创建公开 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) (*gin.Engine, *pkgapp.WebsocketServer) {

	// 获取配置
	cfg := appContainer.Config()

	wss := pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{
		GWSOption: gws.ServerOption{
			// 意图按到达顺序处理，不开启并行
			CheckUtf8Enabled:   true,
			Recovery:           gws.Recovery,
			PermessageDeflate:  gws.PermessageDeflate{Enabled: true},
			ReadMaxPayloadSize: 1024 * 1024,
		},
	}, appContainer.Logger())

	noteWSHandler := websocket_router.NewNoteWSHandler(appContainer)
	wss.UseConnect(noteWSHandler.OnConnect)
	wss.Use(websocket_router.ActionIntent, noteWSHandler.Intent)
	go noteWSHandler.PumpEvents(wss)

	r := gin.New()

	api := r.Group("/api")
	{
		build := appContainer.Version()
		api.Use(middleware.AppInfo(build.Name, build.Version))
		api.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header)) // Trace ID 中间件
		api.Use(middleware.RateLimiter(methodLimiters(cfg)))
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		noteHandler := api_router.NewNoteHandler(appContainer)
		imageHandler := api_router.NewImageHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer, wss)

		api.GET("/notes", noteHandler.List)
		api.GET("/state", noteHandler.State)
		api.POST("/intent", noteHandler.Intent)
		api.POST("/image", imageHandler.Upload)

		api.GET("/version", versionHandler.ServerVersion)
		api.GET("/health", versionHandler.Health)

		api.GET("/ws", wss.Run())
	}

	r.NoRoute(middleware.NoFound())

	return r, wss
}
