package dao

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/model"
	"github.com/haierkeys/fast-note-pad/pkg/writequeue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) (domain.NoteRepository, *Dao) {
	t.Helper()

	db, err := NewDBEngineWithConfig(DatabaseConfig{
		Type: "sqlite",
		Path: filepath.Join(t.TempDir(), "db", "notes.sqlite3"),
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db, "Note"))

	wq := writequeue.New(nil, zap.NewNop())
	d := New(db, context.Background(), WithLogger(zap.NewNop()), WithWriteQueueManager(wq))

	t.Cleanup(func() {
		_ = wq.Shutdown(context.Background())
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewNoteRepository(d), d
}

func TestNoteRepository_CreateAndGet(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	at := time.UnixMilli(1700000000123)
	id, err := repo.Create(ctx, &domain.Note{Text: "hello", UpdatedAt: at, ImagePath: domain.StringPtr("/img/note_1.jpg")})
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.ID)
	assert.Equal(t, id, *got.ID)
	assert.Equal(t, "hello", got.Text)
	assert.True(t, got.UpdatedAt.Equal(at))
	require.NotNil(t, got.ImagePath)
	assert.Equal(t, "/img/note_1.jpg", *got.ImagePath)
}

func TestNoteRepository_ZeroTimeAndNilImageStoredAsNull(t *testing.T) {
	repo, d := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.Note{Text: "plain"})
	require.NoError(t, err)

	var row model.Note
	require.NoError(t, d.Db.Where("id = ?", id).Take(&row).Error)
	assert.Nil(t, row.Update)
	assert.Nil(t, row.ImagePath)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.IsZero())
	assert.Nil(t, got.ImagePath)
}

func TestNoteRepository_CreateRejectsID(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.Create(context.Background(), &domain.Note{ID: domain.Int64Ptr(5), Text: "x"})
	assert.True(t, errors.Is(err, domain.ErrNoteHasID))
}

func TestNoteRepository_UpdateReplacesRow(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.Note{Text: "a", UpdatedAt: time.UnixMilli(1), ImagePath: domain.StringPtr("/p")})
	require.NoError(t, err)

	ok, err := repo.Update(ctx, &domain.Note{ID: domain.Int64Ptr(id), Text: "b"})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "b", got.Text)
	// fields are replaced, not merged
	assert.True(t, got.UpdatedAt.IsZero())
	assert.Nil(t, got.ImagePath)
}

func TestNoteRepository_UpdateMissingRowIsNoop(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	ok, err := repo.Update(ctx, &domain.Note{ID: domain.Int64Ptr(42), Text: "ghost"})
	require.NoError(t, err)
	assert.False(t, ok)

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)

	_, err = repo.Update(ctx, &domain.Note{Text: "no id"})
	assert.True(t, errors.Is(err, domain.ErrNoteMissingID))
}

func TestNoteRepository_DeleteAndNotFound(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	id, err := repo.Create(ctx, &domain.Note{Text: "a"})
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.GetByID(ctx, id)
	assert.True(t, errors.Is(err, domain.ErrNoteNotFound))
}

func TestNoteRepository_IdsNeverReused(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, &domain.Note{Text: "a"})
	require.NoError(t, err)
	_, err = repo.Delete(ctx, first)
	require.NoError(t, err)

	second, err := repo.Create(ctx, &domain.Note{Text: "b"})
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestNoteRepository_ListOrderedByID(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, &domain.Note{Text: "n"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 10)
	for i := 1; i < len(notes); i++ {
		assert.Less(t, *notes[i-1].ID, *notes[i].ID)
	}
}

func TestNoteRepository_ListImagePaths(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	for _, p := range []*string{domain.StringPtr("/a.jpg"), nil, domain.StringPtr("/a.jpg"), domain.StringPtr("/b.jpg")} {
		_, err := repo.Create(ctx, &domain.Note{Text: "x", ImagePath: p})
		require.NoError(t, err)
	}

	paths, err := repo.ListImagePaths(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"/a.jpg", "/b.jpg"}, paths)
}
