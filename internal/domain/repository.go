// Package domain 定义领域模型和接口
package domain

import "context"

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// Create 插入笔记并返回新分配的 ID
	Create(ctx context.Context, note *Note) (int64, error)

	// Update replaces the row by id, reports whether a row matched
	// Update 按 ID 整行替换，返回是否命中
	Update(ctx context.Context, note *Note) (bool, error)

	// Delete 按 ID 物理删除，返回是否命中
	Delete(ctx context.Context, id int64) (bool, error)

	// GetByID 根据ID获取笔记，不存在时返回 ErrNoteNotFound
	GetByID(ctx context.Context, id int64) (*Note, error)

	// List 按 ID 升序返回全部笔记
	List(ctx context.Context) ([]*Note, error)

	// ListImagePaths 返回所有被引用的图片路径
	ListImagePaths(ctx context.Context) ([]string, error)
}
