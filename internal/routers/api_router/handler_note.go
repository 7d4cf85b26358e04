package api_router

import (
	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/internal/middleware"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 笔记与编辑状态 API 路由处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{Handler: NewHandler(a)}
}

// List 获取全部笔记，按 ID 升序
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	notes, err := h.App.NoteStore.Snapshot(c.Request.Context())
	if err != nil {
		h.fail(c, "NoteHandler.List", err)
		return
	}
	response.ToResponse(code.Success.Clone().WithData(dto.NotesFromDomain(notes)))
}

// State 获取当前编辑状态
// @Router /api/state [get]
func (h *NoteHandler) State(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.Clone().WithData(dto.StateFromViewModel(h.App.Controller.State())))
}

// Intent dispatches one intent to the controller and answers with the resulting state.
// Background work (a Load by id, a quote fetch) may still be running when this returns.
// Intent 向控制器分发意图，返回分发后的编辑状态
// @Router /api/intent [post]
func (h *NoteHandler) Intent(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.IntentRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Warn("NoteHandler.Intent.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.Clone().WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	c.Set(middleware.IntentKey, params.Type)

	intent, err := params.ToIntent()
	if err != nil {
		response.ToResponse(code.ErrorUnknownIntent.Clone().WithDetails(params.Type))
		return
	}

	if err := h.App.Controller.Dispatch(intent); err != nil {
		h.fail(c, "NoteHandler.Intent."+params.Type, err)
		return
	}

	response.ToResponse(code.SuccessAccepted.Clone().WithData(dto.StateFromViewModel(h.App.Controller.State())))
}
