// Package service 实现业务逻辑层
package service

import (
	"context"
	"sync"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/metrics"
	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"go.uber.org/zap"
)

// NoteStore persists notes and pushes the complete row set to subscribers
// NoteStore 持久化笔记，并在每次变更后向订阅者推送全量列表
type NoteStore interface {
	// Insert 插入新笔记，note.ID 必须为 nil，返回新 ID
	Insert(ctx context.Context, note *domain.Note) (int64, error)

	// Update replaces the row by id, an absent id is a silent no-op
	// Update 按 ID 替换整行，ID 不存在时静默忽略
	Update(ctx context.Context, note *domain.Note) error

	// DeleteByID 删除笔记，不存在时静默忽略
	DeleteByID(ctx context.Context, id int64) error

	// FindByID 获取单条笔记，不存在时返回 domain.ErrNoteNotFound
	FindByID(ctx context.Context, id int64) (*domain.Note, error)

	// Subscribe delivers the current snapshot right away and again after
	// every committed mutation, in id order. Callbacks run synchronously on
	// the mutating goroutine in registration order and must not call back
	// into the store.
	// Subscribe 订阅全量笔记列表，返回取消订阅函数
	Subscribe(fn func([]*domain.Note)) (unsubscribe func())

	// Snapshot 一次性读取全部笔记
	Snapshot(ctx context.Context) ([]*domain.Note, error)

	// ImagePaths 返回所有被笔记引用的图片路径
	ImagePaths(ctx context.Context) ([]string, error)
}

type subscription struct {
	id uint64
	fn func([]*domain.Note)
}

type noteStore struct {
	repo    domain.NoteRepository
	logger  *zap.Logger
	metrics *metrics.Collector

	subsMu sync.Mutex
	subs   []subscription
	nextID uint64

	// pubMu orders snapshot reads with their delivery
	pubMu sync.Mutex
}

// NewNoteStore 创建 NoteStore 实例
func NewNoteStore(repo domain.NoteRepository, lg *zap.Logger, m *metrics.Collector) NoteStore {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &noteStore{
		repo:    repo,
		logger:  lg,
		metrics: m,
	}
}

func (s *noteStore) Insert(ctx context.Context, note *domain.Note) (int64, error) {
	if note == nil || note.IsPersisted() {
		return 0, domain.ErrNoteHasID
	}
	id, err := s.repo.Create(ctx, note)
	s.metrics.IncMutation("insert", err)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("note inserted", zap.Int64(logger.FieldNoteID, id))
	s.publish(ctx)
	return id, nil
}

func (s *noteStore) Update(ctx context.Context, note *domain.Note) error {
	if note == nil || !note.IsPersisted() {
		return domain.ErrNoteMissingID
	}
	ok, err := s.repo.Update(ctx, note)
	s.metrics.IncMutation("update", err)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("update matched no note", zap.Int64(logger.FieldNoteID, *note.ID))
		return nil
	}
	s.publish(ctx)
	return nil
}

func (s *noteStore) DeleteByID(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	s.metrics.IncMutation("delete", err)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	s.publish(ctx)
	return nil
}

func (s *noteStore) FindByID(ctx context.Context, id int64) (*domain.Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *noteStore) Snapshot(ctx context.Context) ([]*domain.Note, error) {
	return s.repo.List(ctx)
}

func (s *noteStore) ImagePaths(ctx context.Context) ([]string, error) {
	return s.repo.ListImagePaths(ctx)
}

func (s *noteStore) Subscribe(fn func([]*domain.Note)) func() {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.subsMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subsMu.Unlock()

	notes, err := s.repo.List(context.Background())
	if err != nil {
		s.logger.Error("initial snapshot failed", zap.Error(err))
	} else {
		fn(domain.CloneNotes(notes))
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *noteStore) unsubscribe(id uint64) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// publish reads the committed row set and hands each subscriber its own copy
func (s *noteStore) publish(ctx context.Context) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	// the mutation has committed, a cancelled caller must not suppress the read
	notes, err := s.repo.List(context.WithoutCancel(ctx))
	if err != nil {
		s.logger.Error("snapshot after mutation failed", zap.Error(err))
		return
	}
	s.metrics.SetNotes(len(notes))

	s.subsMu.Lock()
	subs := make([]subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	for _, sub := range subs {
		sub.fn(domain.CloneNotes(notes))
	}
}
