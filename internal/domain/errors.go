package domain

import "errors"

var (
	// ErrNoteNotFound 笔记不存在
	ErrNoteNotFound = errors.New("note not found")
	// ErrImageCopy 图片复制失败
	ErrImageCopy = errors.New("image copy failed")
	// ErrQuoteUnavailable 名言服务不可用（网络错误或非 2xx 响应）
	ErrQuoteUnavailable = errors.New("quote unavailable")
	// ErrNoteHasID 插入的笔记已经带有 ID
	ErrNoteHasID = errors.New("note to insert already has an id")
	// ErrNoteMissingID 更新的笔记缺少 ID
	ErrNoteMissingID = errors.New("note to update has no id")
)
