package routers

import (
	"net/http/pprof"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/middleware"
	"github.com/haierkeys/fast-note-pad/internal/routers/api_router"

	"github.com/gin-gonic/gin"
)

// NewPrivateRouter serves /metrics and /debug/vars for the app container.
// pprof is mounted only in debug mode.
// NewPrivateRouter 创建私有路由，debug 模式下开启 pprof
func NewPrivateRouter(runMode string, a *app.App) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RecoveryWithLogger(a.Logger()))

	r.GET("/metrics", gin.WrapH(a.Metrics.Handler()))
	r.GET("/debug/vars", api_router.Expvar(map[string]func() any{
		"workerPool": func() any { return a.WorkerPool().GetMetrics() },
		"writeQueue": func() any { return a.WriteQueueManager().Stats() },
		"editor":     func() any { return a.Controller.State() },
	}))

	if runMode == gin.DebugMode {
		mountPprof(r.Group("/debug/pprof"))
	}
	return r
}

func mountPprof(g *gin.RouterGroup) {
	g.GET("/", gin.WrapF(pprof.Index))
	g.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	g.GET("/profile", gin.WrapF(pprof.Profile))
	g.Any("/symbol", gin.WrapF(pprof.Symbol))
	g.GET("/trace", gin.WrapF(pprof.Trace))
	g.GET("/:name", func(c *gin.Context) {
		pprof.Handler(c.Param("name")).ServeHTTP(c.Writer, c.Request)
	})
}
