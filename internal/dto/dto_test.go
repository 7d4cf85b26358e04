package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/haierkeys/fast-note-pad/internal/domain"
	"github.com/haierkeys/fast-note-pad/internal/viewmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentRequest_ToIntent(t *testing.T) {
	text := "buy milk"
	path := "/img/a.jpg"
	id := int64(3)

	cases := []struct {
		req  IntentRequest
		want viewmodel.Intent
	}{
		{IntentRequest{Type: "set_text", Text: &text}, viewmodel.SetText{Text: "buy milk"}},
		{IntentRequest{Type: "set_text"}, viewmodel.SetText{}},
		{IntentRequest{Type: "set_image_path", ImagePath: &path}, viewmodel.SetImagePath{Path: &path}},
		{IntentRequest{Type: "load", ID: &id}, viewmodel.Load{ID: &id}},
		{IntentRequest{Type: "load"}, viewmodel.Load{}},
		{IntentRequest{Type: "open_dialog"}, viewmodel.OpenDialog{}},
		{IntentRequest{Type: "close_dialog"}, viewmodel.CloseDialog{}},
		{IntentRequest{Type: "save"}, viewmodel.Save{}},
		{IntentRequest{Type: "delete", ID: &id}, viewmodel.Delete{ID: &id}},
		{IntentRequest{Type: "fire_quote"}, viewmodel.FireQuote{}},
	}
	for _, tc := range cases {
		got, err := tc.req.ToIntent()
		require.NoError(t, err, tc.req.Type)
		assert.Equal(t, tc.want, got, tc.req.Type)
	}

	_, err := (&IntentRequest{Type: "explode"}).ToIntent()
	assert.Error(t, err)
}

func TestNotesFromDomain(t *testing.T) {
	assert.Equal(t, "[]", mustJSON(t, NotesFromDomain(nil)))

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	notes := NotesFromDomain([]*domain.Note{
		{ID: domain.Int64Ptr(1), Text: "a", UpdatedAt: at, ImagePath: domain.StringPtr("/p")},
		{ID: domain.Int64Ptr(2), Text: "b"},
	})
	require.Len(t, notes, 2)
	assert.Equal(t, at.UnixMilli(), *notes[0].Update)
	assert.Nil(t, notes[1].Update)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustJSON(t, notes)), &decoded))
	assert.Equal(t, "2024-01-02 03:04:05", decoded[0]["updatedAt"])
	assert.Nil(t, decoded[1]["updatedAt"])
	assert.Nil(t, decoded[1]["imagePath"])
}

func TestNotificationFromViewModel(t *testing.T) {
	n := NotificationFromViewModel(viewmodel.Notification{
		Kind:    viewmodel.NotificationLoadFailed,
		Message: "note not found",
		NoteID:  domain.Int64Ptr(9),
		Err:     errors.New("note not found"),
	})
	assert.Equal(t, "load_failed", n.Kind)
	assert.Equal(t, "note not found", n.Error)
	assert.Equal(t, int64(9), *n.NoteID)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
