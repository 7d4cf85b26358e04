package dto

import (
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"

	"github.com/pkg/errors"
)

// IntentRequest 意图请求参数，HTTP 与 WebSocket 共用
type IntentRequest struct {
	Type      string  `json:"type" form:"type" binding:"required,oneof=set_text set_image_path load open_dialog close_dialog save delete fire_quote"`
	Text      *string `json:"text" form:"text"`
	ID        *int64  `json:"id" form:"id" binding:"omitempty,gt=0"`
	ImagePath *string `json:"imagePath" form:"imagePath" binding:"omitempty,abs_path"`
}

// ToIntent 转换为控制器意图
func (r *IntentRequest) ToIntent() (viewmodel.Intent, error) {
	switch r.Type {
	case "set_text":
		if r.Text == nil {
			return viewmodel.SetText{}, nil
		}
		return viewmodel.SetText{Text: *r.Text}, nil
	case "set_image_path":
		return viewmodel.SetImagePath{Path: r.ImagePath}, nil
	case "load":
		return viewmodel.Load{ID: r.ID}, nil
	case "open_dialog":
		return viewmodel.OpenDialog{}, nil
	case "close_dialog":
		return viewmodel.CloseDialog{}, nil
	case "save":
		return viewmodel.Save{}, nil
	case "delete":
		return viewmodel.Delete{ID: r.ID}, nil
	case "fire_quote":
		return viewmodel.FireQuote{}, nil
	}
	return nil, errors.Errorf("unknown intent type %q", r.Type)
}
