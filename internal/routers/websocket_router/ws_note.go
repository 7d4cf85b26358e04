package websocket_router

import (
	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"go.uber.org/zap"
)

// NoteWSHandler streams the note list and the editing state to every
// connection and accepts intents from them
// NoteWSHandler 向连接推送笔记列表与编辑状态，并接收意图
type NoteWSHandler struct {
	*WSHandler
}

// NewNoteWSHandler 创建 NoteWSHandler 实例
func NewNoteWSHandler(a *app.App) *NoteWSHandler {
	return &NoteWSHandler{WSHandler: NewWSHandler(a)}
}

// OnConnect sends the current list and state, then keeps the connection subscribed until it closes
// OnConnect 连接建立后推送当前列表和状态，并保持订阅直到连接关闭
func (h *NoteWSHandler) OnConnect(c *pkgapp.WebsocketClient) {
	ctrl := h.App.Controller

	c.Send(ActionState, dto.StateFromViewModel(ctrl.State()))
	c.OnClose(ctrl.SubscribeState(func(s viewmodel.State) {
		c.Send(ActionState, dto.StateFromViewModel(s))
	}))
	c.OnClose(ctrl.SubscribeNotes(func(notes []*domain.Note) {
		c.Send(ActionNotes, dto.NotesFromDomain(notes))
	}))
}

// Intent 处理 "Intent|{...}" 消息
func (h *NoteWSHandler) Intent(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.IntentRequest{}
	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.App.Logger().Debug("NoteWSHandler.Intent.BindAndValid err", zap.Error(errs))
		h.reject(c, code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	intent, err := params.ToIntent()
	if err != nil {
		h.reject(c, code.ErrorUnknownIntent.Clone().WithDetails(params.Type))
		return
	}

	if err := h.App.Controller.Dispatch(intent); err != nil {
		h.fail(c, "NoteWSHandler.Intent."+params.Type, err)
	}
}

// PumpEvents is the single reader of the controller's notification channel.
// Each notification is broadcast to every connection. Returns when the controller closes.
// PumpEvents 读取一次性通知并广播，控制器关闭后返回
func (h *NoteWSHandler) PumpEvents(wss *pkgapp.WebsocketServer) {
	for n := range h.App.Controller.Events() {
		h.App.Logger().Debug("broadcast notification",
			zap.String(logger.FieldNotification, string(n.Kind)),
			zap.Int(logger.FieldCount, wss.ClientCount()))
		wss.Broadcast(ActionEvent, dto.NotificationFromViewModel(n))
	}
}
