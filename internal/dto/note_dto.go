// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/pkg/timex"
)

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	UpdatedAt timex.Time `json:"updatedAt"`
	// Update epoch millis, null when the note has no timestamp // 毫秒时间戳
	Update    *int64  `json:"update"`
	ImagePath *string `json:"imagePath"`
}

// NoteFromDomain 转换领域笔记
func NoteFromDomain(n *domain.Note) *NoteDTO {
	out := &NoteDTO{
		Text:      n.Text,
		UpdatedAt: timex.Time(n.UpdatedAt),
		Update:    timex.Millis(n.UpdatedAt),
		ImagePath: n.ImagePath,
	}
	if n.ID != nil {
		out.ID = *n.ID
	}
	return out
}

// NotesFromDomain 转换笔记列表，空列表输出 []
func NotesFromDomain(notes []*domain.Note) []*NoteDTO {
	out := make([]*NoteDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteFromDomain(n))
	}
	return out
}
