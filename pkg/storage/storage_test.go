package storage_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/storage"
	"github.com/haierkeys/fast-note-pad/pkg/storage/local_fs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Local(t *testing.T) {
	dir := t.TempDir()
	client, err := storage.NewClient(&storage.Config{Type: storage.LOCAL, SavePath: dir})
	require.NoError(t, err)

	assert.IsType(t, &local_fs.LocalFS{}, client)
	want, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, want, client.Root())
}

func TestNewClient_Invalid(t *testing.T) {
	assert.False(t, storage.IsSupported("s3"))

	_, err := storage.NewClient(&storage.Config{Type: "s3"})
	require.Error(t, err)
	var c *code.Code
	require.True(t, errors.As(err, &c))
	assert.Equal(t, code.ErrorInvalidStorageType.Code(), c.Code())
	assert.Equal(t, []string{"s3"}, c.Details())

	_, err = storage.NewClient(nil)
	assert.Error(t, err)
}
