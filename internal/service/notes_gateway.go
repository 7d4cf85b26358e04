package service

import (
	"context"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/pkg/logger"
	"github.com/haierkeys/fast-note-pad/pkg/workerpool"

	"go.uber.org/zap"
)

// NotesGateway forwards controller calls to the note store.
// Mutations are queued on one worker pool lane and return once accepted,
// so they reach the store in the order they were made.
// NotesGateway 笔记网关，写操作按调用顺序在 worker pool 中异步执行
type NotesGateway struct {
	store  NoteStore
	pool   *workerpool.Pool
	logger *zap.Logger
}

// NewNotesGateway 创建 NotesGateway
func NewNotesGateway(store NoteStore, pool *workerpool.Pool, lg *zap.Logger) *NotesGateway {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &NotesGateway{store: store, pool: pool, logger: lg}
}

// Insert 异步插入笔记
func (g *NotesGateway) Insert(note *domain.Note) error {
	n := note.Clone()
	return g.submit("notes.insert", func(ctx context.Context) error {
		id, err := g.store.Insert(ctx, n)
		if err == nil {
			g.logger.Info("note saved", zap.Int64(logger.FieldNoteID, id))
		}
		return err
	})
}

// Update 异步更新笔记
func (g *NotesGateway) Update(note *domain.Note) error {
	n := note.Clone()
	return g.submit("notes.update", func(ctx context.Context) error {
		return g.store.Update(ctx, n)
	})
}

// Delete 异步删除笔记
func (g *NotesGateway) Delete(id int64) error {
	return g.submit("notes.delete", func(ctx context.Context) error {
		return g.store.DeleteByID(ctx, id)
	})
}

// FindByID 同步读取，调用方需自行放到后台执行
func (g *NotesGateway) FindByID(ctx context.Context, id int64) (*domain.Note, error) {
	return g.store.FindByID(ctx, id)
}

// Subscribe 转发到 NoteStore.Subscribe
func (g *NotesGateway) Subscribe(fn func([]*domain.Note)) func() {
	return g.store.Subscribe(fn)
}

// writeKey 所有笔记写操作共用的 worker pool 队列
const writeKey = "notes"

func (g *NotesGateway) submit(name string, task workerpool.Task) error {
	err := g.pool.SubmitKeyed(context.Background(), writeKey, name, task)
	if err != nil {
		g.logger.Warn("gateway submit failed", zap.String(logger.FieldTask, name), zap.Error(err))
	}
	return err
}
