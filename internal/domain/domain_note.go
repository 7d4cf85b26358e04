// Package domain 定义领域模型和接口
package domain

import "time"

// Note 笔记领域模型
type Note struct {
	// ID nil 表示尚未持久化，首次插入时由存储分配，之后不可变
	ID *int64
	// Text 笔记正文，无长度限制
	Text string
	// UpdatedAt 由调用方在保存时设置，零值持久化为 NULL
	UpdatedAt time.Time
	// ImagePath 已复制图片的绝对路径，存储层不做校验
	ImagePath *string
}

// IsPersisted 判断笔记是否已持久化
func (n *Note) IsPersisted() bool {
	return n != nil && n.ID != nil
}

// Clone returns a deep copy, pointer fields are not shared with n
// Clone 深拷贝笔记，指针字段不与原对象共享
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	out := &Note{Text: n.Text, UpdatedAt: n.UpdatedAt}
	if n.ID != nil {
		out.ID = Int64Ptr(*n.ID)
	}
	if n.ImagePath != nil {
		out.ImagePath = StringPtr(*n.ImagePath)
	}
	return out
}

// CloneNotes 深拷贝笔记列表
func CloneNotes(notes []*Note) []*Note {
	out := make([]*Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out
}

// Int64Ptr 返回 v 的指针
func Int64Ptr(v int64) *int64 {
	return &v
}

// StringPtr 返回 s 的指针
func StringPtr(s string) *string {
	return &s
}
