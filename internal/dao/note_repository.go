// Package dao 实现数据访问层
package dao

import (
	"context"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/model"
	"github.com/haierkeys/fast-note-pad/pkg/timex"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将 DAO Note 转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	note := &domain.Note{}
	_ = copier.CopyWithOption(note, m, copier.Option{DeepCopy: true})
	note.ID = domain.Int64Ptr(m.ID)
	note.UpdatedAt = timex.FromMillis(m.Update)
	return note
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	m := &model.Note{}
	_ = copier.CopyWithOption(m, note, copier.Option{DeepCopy: true})
	m.ID = 0
	if note.ID != nil {
		m.ID = *note.ID
	}
	m.Update = timex.Millis(note.UpdatedAt)
	return m
}

// Create 插入笔记并返回新 ID
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (int64, error) {
	if note.IsPersisted() {
		return 0, domain.ErrNoteHasID
	}
	m := r.toModel(note)

	err := r.dao.ExecuteWrite(ctx, func() error {
		return r.dao.DB(ctx).Create(m).Error
	})
	if err != nil {
		return 0, errors.Wrap(err, "insert note")
	}
	return m.ID, nil
}

// Update 按 ID 整行替换
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) (bool, error) {
	if !note.IsPersisted() {
		return false, domain.ErrNoteMissingID
	}
	m := r.toModel(note)

	var affected int64
	err := r.dao.ExecuteWrite(ctx, func() error {
		// map form so NULL and empty values are written too
		result := r.dao.DB(ctx).Model(&model.Note{}).
			Where("id = ?", m.ID).
			Updates(map[string]interface{}{
				"text":       m.Text,
				"update":     m.Update,
				"image_path": m.ImagePath,
			})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, errors.Wrapf(err, "update note %d", m.ID)
	}
	return affected > 0, nil
}

// Delete 按 ID 物理删除
func (r *noteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var affected int64
	err := r.dao.ExecuteWrite(ctx, func() error {
		result := r.dao.DB(ctx).Where("id = ?", id).Delete(&model.Note{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, errors.Wrapf(err, "delete note %d", id)
	}
	return affected > 0, nil
}

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	var m model.Note
	err := r.dao.DB(ctx).Where("id = ?", id).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(domain.ErrNoteNotFound, "note %d", id)
		}
		return nil, errors.Wrapf(err, "find note %d", id)
	}
	return r.toDomain(&m), nil
}

// List 按 ID 升序返回全部笔记
func (r *noteRepository) List(ctx context.Context) ([]*domain.Note, error) {
	var rows []*model.Note
	if err := r.dao.DB(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list notes")
	}
	notes := make([]*domain.Note, 0, len(rows))
	for _, m := range rows {
		notes = append(notes, r.toDomain(m))
	}
	return notes, nil
}

// ListImagePaths 返回所有被引用的图片路径
func (r *noteRepository) ListImagePaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := r.dao.DB(ctx).Model(&model.Note{}).
		Where("image_path IS NOT NULL AND image_path <> ''").
		Distinct().
		Pluck("image_path", &paths).Error
	if err != nil {
		return nil, errors.Wrap(err, "list image paths")
	}
	return paths, nil
}
