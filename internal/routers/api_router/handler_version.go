package api_router

import (
	"time"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionHandler 版本与健康检查处理器
type VersionHandler struct {
	*Handler
}

// NewVersionHandler creates VersionHandler instance
// NewVersionHandler 创建 VersionHandler 实例
func NewVersionHandler(a *app.App, wss *pkgapp.WebsocketServer) *VersionHandler {
	return &VersionHandler{Handler: NewHandlerWithWSS(a, wss)}
}

// ServerVersion retrieves server version information
// @Router /api/version [get]
func (h *VersionHandler) ServerVersion(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponseData(code.Success, dto.VersionFromBuild(h.App.Version()))
}

// Health 检查服务健康状态，包括数据库连接
// @Router /api/health [get]
func (h *VersionHandler) Health(c *gin.Context) {
	res := dto.HealthDTO{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",

		PendingWrites: h.App.WriteQueueManager().Stats().Pending,
	}
	if h.WSS != nil {
		res.Clients = h.WSS.ClientCount()
	}

	if err := h.App.DB.WithContext(c.Request.Context()).Exec("SELECT 1").Error; err != nil {
		h.logError(c.Request.Context(), "VersionHandler.Health", err)
		res.Status = "unhealthy"
		res.Database = "error"
		pkgapp.NewResponse(c).ToResponseData(code.ErrorServerInternal, res)
		return
	}
	pkgapp.NewResponse(c).ToResponseData(code.Success, res)
}
