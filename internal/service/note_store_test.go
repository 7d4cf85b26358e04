package service

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/dao"
	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/metrics"
	"github.com/haierkeys/fast-note-pad/internal/model"
	"github.com/haierkeys/fast-note-pad/pkg/writequeue"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memNoteRepo in-memory domain.NoteRepository
type memNoteRepo struct {
	mu      sync.Mutex
	rows    map[int64]*domain.Note
	nextID  int64
	listErr error
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{rows: map[int64]*domain.Note{}}
}

func (r *memNoteRepo) Create(ctx context.Context, note *domain.Note) (int64, error) {
	if note.IsPersisted() {
		return 0, domain.ErrNoteHasID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n := note.Clone()
	n.ID = domain.Int64Ptr(r.nextID)
	r.rows[r.nextID] = n
	return r.nextID, nil
}

func (r *memNoteRepo) Update(ctx context.Context, note *domain.Note) (bool, error) {
	if !note.IsPersisted() {
		return false, domain.ErrNoteMissingID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[*note.ID]; !ok {
		return false, nil
	}
	r.rows[*note.ID] = note.Clone()
	return true, nil
}

func (r *memNoteRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *memNoteRepo) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	return n.Clone(), nil
}

func (r *memNoteRepo) List(ctx context.Context) ([]*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*domain.Note, 0, len(r.rows))
	for _, n := range r.rows {
		out = append(out, n.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out, nil
}

func (r *memNoteRepo) ListImagePaths(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var paths []string
	for _, n := range r.rows {
		if n.ImagePath != nil {
			paths = append(paths, *n.ImagePath)
		}
	}
	return paths, nil
}

// recorder collects every snapshot delivered to a subscriber
type recorder struct {
	mu        sync.Mutex
	snapshots [][]*domain.Note
}

func (r *recorder) add(notes []*domain.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, notes)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots)
}

func (r *recorder) last() []*domain.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return nil
	}
	return r.snapshots[len(r.snapshots)-1]
}

func TestNoteStore_SubscribeDeliversImmediately(t *testing.T) {
	repo := newMemNoteRepo()
	_, _ = repo.Create(context.Background(), &domain.Note{Text: "existing"})
	store := NewNoteStore(repo, zap.NewNop(), nil)

	rec := &recorder{}
	unsubscribe := store.Subscribe(rec.add)
	defer unsubscribe()

	require.Equal(t, 1, rec.count())
	require.Len(t, rec.last(), 1)
	assert.Equal(t, "existing", rec.last()[0].Text)
}

func TestNoteStore_MutationsRedeliver(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewCollector()
	store := NewNoteStore(newMemNoteRepo(), zap.NewNop(), m)

	rec := &recorder{}
	defer store.Subscribe(rec.add)()
	require.Equal(t, 1, rec.count())
	assert.Empty(t, rec.last())

	id, err := store.Insert(ctx, &domain.Note{Text: "a"})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotesGauge))

	require.NoError(t, store.Update(ctx, &domain.Note{ID: domain.Int64Ptr(id), Text: "b"}))
	assert.Equal(t, 3, rec.count())
	assert.Equal(t, "b", rec.last()[0].Text)

	require.NoError(t, store.DeleteByID(ctx, id))
	assert.Equal(t, 4, rec.count())
	assert.Empty(t, rec.last())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.NotesGauge))
}

func TestNoteStore_NoopMutationsDoNotRedeliver(t *testing.T) {
	ctx := context.Background()
	store := NewNoteStore(newMemNoteRepo(), zap.NewNop(), nil)

	rec := &recorder{}
	defer store.Subscribe(rec.add)()

	require.NoError(t, store.Update(ctx, &domain.Note{ID: domain.Int64Ptr(99), Text: "ghost"}))
	require.NoError(t, store.DeleteByID(ctx, 99))
	assert.Equal(t, 1, rec.count())
}

func TestNoteStore_Preconditions(t *testing.T) {
	ctx := context.Background()
	store := NewNoteStore(newMemNoteRepo(), zap.NewNop(), nil)

	_, err := store.Insert(ctx, &domain.Note{ID: domain.Int64Ptr(1)})
	assert.True(t, errors.Is(err, domain.ErrNoteHasID))

	err = store.Update(ctx, &domain.Note{Text: "x"})
	assert.True(t, errors.Is(err, domain.ErrNoteMissingID))

	_, err = store.FindByID(ctx, 1)
	assert.True(t, errors.Is(err, domain.ErrNoteNotFound))
}

func TestNoteStore_UnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	store := NewNoteStore(newMemNoteRepo(), zap.NewNop(), nil)

	first, second := &recorder{}, &recorder{}
	unsubscribe := store.Subscribe(first.add)
	defer store.Subscribe(second.add)()

	unsubscribe()
	unsubscribe()

	_, err := store.Insert(ctx, &domain.Note{Text: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.count())
	assert.Equal(t, 2, second.count())
}

func TestNoteStore_SubscribersGetIndependentCopies(t *testing.T) {
	ctx := context.Background()
	store := NewNoteStore(newMemNoteRepo(), zap.NewNop(), nil)

	var got [][]*domain.Note
	defer store.Subscribe(func(notes []*domain.Note) {
		if len(notes) > 0 {
			notes[0].Text = "mutated by subscriber"
		}
		got = append(got, notes)
	})()
	rec := &recorder{}
	defer store.Subscribe(rec.add)()

	_, err := store.Insert(ctx, &domain.Note{Text: "original"})
	require.NoError(t, err)
	assert.Equal(t, "original", rec.last()[0].Text)
}

func TestNoteStore_ListFailureSkipsDelivery(t *testing.T) {
	ctx := context.Background()
	repo := newMemNoteRepo()
	store := NewNoteStore(repo, zap.NewNop(), nil)

	rec := &recorder{}
	defer store.Subscribe(rec.add)()

	repo.mu.Lock()
	repo.listErr = errors.New("disk gone")
	repo.mu.Unlock()

	_, err := store.Insert(ctx, &domain.Note{Text: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.count())
}

// every delivered snapshot has strictly increasing ids, and its size follows inserts minus deletes
func TestProperty_NoteStoreCardinality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("snapshot size tracks inserts and deletes", prop.ForAll(
		func(ops []int) bool {
			ctx := context.Background()
			store := NewNoteStore(newMemNoteRepo(), zap.NewNop(), nil)
			rec := &recorder{}
			defer store.Subscribe(rec.add)()

			var live []int64
			seen := map[int64]bool{}
			for _, op := range ops {
				switch {
				case op%3 == 0 || len(live) == 0:
					id, err := store.Insert(ctx, &domain.Note{Text: "n"})
					if err != nil || seen[id] {
						return false
					}
					seen[id] = true
					live = append(live, id)
				case op%3 == 1:
					i := (op / 3) % len(live)
					if err := store.DeleteByID(ctx, live[i]); err != nil {
						return false
					}
					live = append(live[:i], live[i+1:]...)
				default:
					i := (op / 3) % len(live)
					if err := store.Update(ctx, &domain.Note{ID: domain.Int64Ptr(live[i]), Text: "u"}); err != nil {
						return false
					}
				}

				snapshot := rec.last()
				if len(snapshot) != len(live) {
					return false
				}
				for j := 1; j < len(snapshot); j++ {
					if *snapshot[j-1].ID >= *snapshot[j].ID {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 300)),
	))

	properties.TestingRun(t)
}

func TestNoteStore_WithSQLite(t *testing.T) {
	db, err := dao.NewDBEngineWithConfig(dao.DatabaseConfig{
		Type: "sqlite",
		Path: filepath.Join(t.TempDir(), "notes.sqlite3"),
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db, "Note"))

	wq := writequeue.New(nil, zap.NewNop())
	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	repo := dao.NewNoteRepository(dao.New(db, context.Background(), dao.WithWriteQueueManager(wq)))
	store := NewNoteStore(repo, zap.NewNop(), nil)

	rec := &recorder{}
	defer store.Subscribe(rec.add)()

	ctx := context.Background()
	at := time.UnixMilli(1700000000000)
	id, err := store.Insert(ctx, &domain.Note{Text: "hello", UpdatedAt: at})
	require.NoError(t, err)

	got := rec.last()
	require.Len(t, got, 1)
	assert.Equal(t, id, *got[0].ID)
	assert.True(t, got[0].UpdatedAt.Equal(at))

	found, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", found.Text)
}
