// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"
	"net/http"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/middleware"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	apperrors "github.com/haierkeys/fast-note-pad/pkg/errors"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Handler is embedded by every API handler; WSS is nil unless the handler reports on websocket clients
// Handler API 处理器基类，持有 App Container
type Handler struct {
	App *app.App
	WSS *pkgapp.WebsocketServer
}

// NewHandler 创建基础 Handler
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// NewHandlerWithWSS 创建带 WebSocket 服务的 Handler
func NewHandlerWithWSS(a *app.App, wss *pkgapp.WebsocketServer) *Handler {
	return &Handler{App: a, WSS: wss}
}

// logError logs at ERROR for server side failures and WARN for the rest
// logError 按错误码记录日志，5xx 为 ERROR，其余为 WARN
func (h *Handler) logError(ctx context.Context, op string, err error) {
	level := zapcore.WarnLevel
	if apperrors.ToCode(err).StatusCode() >= http.StatusInternalServerError {
		level = zapcore.ErrorLevel
	}
	if ce := h.App.Logger().Check(level, op); ce != nil {
		ce.Write(zap.Error(err), zap.String(logger.FieldTraceID, middleware.GetTraceID(ctx)))
	}
}

// fail 记录错误并按错误码响应
func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.logError(c.Request.Context(), op, err)
	apperrors.ErrorResponse(c, err)
}
