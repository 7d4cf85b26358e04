// Package websocket_router 提供 WebSocket 路由处理器
package websocket_router

import (
	"net/http"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/middleware"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	apperrors "github.com/haierkeys/fast-note-pad/pkg/errors"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Frame types pushed by the server, plus the one clients send
// 服务端推送的消息类型，以及客户端发送的意图消息
const (
	ActionNotes = "Notes"
	ActionState = "State"
	ActionEvent = "Event"
	ActionError = "Error"

	ActionIntent = "Intent"
)

// WSHandler WebSocket Handler 基类，持有 App Container
type WSHandler struct {
	App *app.App
}

// NewWSHandler 创建 WebSocket Handler 基类
func NewWSHandler(a *app.App) *WSHandler {
	return &WSHandler{App: a}
}

// reject answers with an Error frame without logging
// reject 直接回复 Error 消息
func (h *WSHandler) reject(c *pkgapp.WebsocketClient, codeObj *code.Code) {
	c.ToResponse(codeObj, ActionError)
}

// fail logs err with the upgrade request's trace id and answers with the
// mapped code as an Error frame
// fail 记录错误并回复对应错误码
func (h *WSHandler) fail(c *pkgapp.WebsocketClient, op string, err error) {
	codeObj := apperrors.ToCode(err)
	level := zapcore.WarnLevel
	if codeObj.StatusCode() >= http.StatusInternalServerError {
		level = zapcore.ErrorLevel
	}
	if ce := h.App.Logger().Check(level, op); ce != nil {
		ce.Write(zap.Error(err), zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c.Ctx)))
	}
	h.reject(c, codeObj.Clone().WithDetails(err.Error()))
}
