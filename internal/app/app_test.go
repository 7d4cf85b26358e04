package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubQuotes struct{ quote string }

func (s stubQuotes) Fetch(context.Context) (string, error) { return s.quote, nil }

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	cfg.Database.Path = filepath.Join(dir, "db", "notes.sqlite3")
	cfg.Image.SavePath = filepath.Join(dir, "images")

	db, err := OpenDatabase(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	a, err := NewApp(cfg, zap.NewNop(), db, WithQuoteService(stubQuotes{quote: "carpe diem"}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a
}

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, zap.NewNop(), nil)
	assert.Error(t, err)
	cfg, _ := ParseConfig(nil)
	_, err = NewApp(cfg, nil, nil)
	assert.Error(t, err)
	_, err = NewApp(cfg, zap.NewNop(), nil)
	assert.Error(t, err)
}

func TestApp_EditNoteEndToEnd(t *testing.T) {
	a := newTestApp(t)
	c := a.Controller

	var mu sync.Mutex
	var latest []*domain.Note
	defer c.SubscribeNotes(func(notes []*domain.Note) {
		mu.Lock()
		latest = notes
		mu.Unlock()
	})()
	snapshot := func() []*domain.Note {
		mu.Lock()
		defer mu.Unlock()
		return latest
	}

	require.NoError(t, c.Dispatch(viewmodel.Load{}))
	require.NoError(t, c.Dispatch(viewmodel.SetText{Text: "buy milk"}))
	require.NoError(t, c.Dispatch(viewmodel.Save{}))

	ev := <-c.Events()
	assert.Equal(t, viewmodel.NotificationSaveCompleted, ev.Kind)

	require.Eventually(t, func() bool { return len(snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	note := snapshot()[0]
	assert.Equal(t, int64(1), *note.ID)
	assert.Equal(t, "buy milk", note.Text)

	require.NoError(t, c.Dispatch(viewmodel.Delete{ID: note.ID}))
	require.Eventually(t, func() bool { return len(snapshot()) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestApp_FireQuote(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Controller.Dispatch(viewmodel.FireQuote{}))

	select {
	case ev := <-a.Controller.Events():
		assert.Equal(t, viewmodel.NotificationQuoteReceived, ev.Kind)
		assert.Equal(t, "carpe diem", ev.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("no quote notification")
	}
}

func TestApp_ShutdownIsIdempotent(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, a.Shutdown(context.Background()))
	require.NoError(t, a.Shutdown(context.Background()))
	assert.ErrorIs(t, a.Controller.Dispatch(viewmodel.OpenDialog{}), viewmodel.ErrControllerClosed)
}
