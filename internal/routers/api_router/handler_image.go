package api_router

import (
	"net/http"

	"github.com/haierkeys/fast-note-pad/internal/app"
	"github.com/haierkeys/fast-note-pad/internal/dto"
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"
	pkgapp "github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// imageFormField 上传表单字段名
const imageFormField = "image"

// ImageHandler 图片上传处理器
type ImageHandler struct {
	*Handler
}

// NewImageHandler 创建 ImageHandler 实例
func NewImageHandler(a *app.App) *ImageHandler {
	return &ImageHandler{Handler: NewHandler(a)}
}

// Upload copies the uploaded picture into the image directory and attaches it
// to the note being edited
// Upload 保存上传的图片，并设置为当前编辑笔记的图片
// @Router /api/image [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()

	maxSize := h.App.Config().App.ImageMaxSize
	if maxSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
	}

	fh, err := c.FormFile(imageFormField)
	if err != nil {
		h.App.Logger().Warn("ImageHandler.Upload.FormFile err", zap.Error(err))
		response.ToResponse(code.ErrorImageUploadFailed.Clone().WithDetails(err.Error()))
		return
	}

	file, err := fh.Open()
	if err != nil {
		h.logError(ctx, "ImageHandler.Upload.Open", err)
		response.ToResponse(code.ErrorImageUploadFailed.Clone().WithDetails(err.Error()))
		return
	}
	defer file.Close()

	path, err := h.App.ImageService.Ingest(ctx, file)
	if err != nil {
		h.fail(c, "ImageHandler.Upload.Ingest", err)
		return
	}

	if err := h.App.Controller.Dispatch(viewmodel.SetImagePath{Path: &path}); err != nil {
		h.fail(c, "ImageHandler.Upload.Dispatch", err)
		return
	}

	h.App.Logger().Info("image uploaded", zap.String(logger.FieldImagePath, path))
	response.ToResponse(code.SuccessSaved.Clone().WithData(dto.ImageDTO{Path: path}))
}
