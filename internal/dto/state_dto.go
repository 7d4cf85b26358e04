package dto

import (
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"
)

// StateDTO 编辑状态
type StateDTO struct {
	DialogOpen bool    `json:"dialogOpen"`
	Text       string  `json:"text"`
	ImagePath  *string `json:"imagePath"`
	EditingID  *int64  `json:"editingId"`
}

// StateFromViewModel 转换编辑状态
func StateFromViewModel(s viewmodel.State) *StateDTO {
	return &StateDTO{
		DialogOpen: s.DialogOpen,
		Text:       s.Text,
		ImagePath:  s.ImagePath,
		EditingID:  s.EditingID,
	}
}

// NotificationDTO 一次性通知
type NotificationDTO struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	NoteID  *int64 `json:"noteId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NotificationFromViewModel 转换一次性通知
func NotificationFromViewModel(n viewmodel.Notification) *NotificationDTO {
	out := &NotificationDTO{
		Kind:    string(n.Kind),
		Message: n.Message,
		NoteID:  n.NoteID,
	}
	if n.Err != nil {
		out.Error = n.Err.Error()
	}
	return out
}

// ImageDTO 上传图片结果
type ImageDTO struct {
	Path string `json:"path"`
}
