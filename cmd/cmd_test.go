package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	internalApp "github.com/haierkeys/fast-note-pad/internal/app"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf(`log:
  level: error
  file: %s
database:
  path: %s
image:
  save-path: %s
task:
  image-cleanup-cron: "off"
`, filepath.Join(dir, "log.log"), filepath.Join(dir, "notes.sqlite3"), filepath.Join(dir, "images"))
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(cfg), 0o644))
	return p
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestNoteCommands(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, "note", "add", "buy milk", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Action done")

	out, err = runCLI(t, "note", "list", "-c", cfg)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "buy milk")

	out, err = runCLI(t, "note", "edit", "1", "buy oat milk", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Action done")

	out, err = runCLI(t, "note", "show", "1", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "text: buy oat milk")

	_, err = runCLI(t, "note", "show", "7", "-c", cfg)
	assert.Error(t, err)

	_, err = runCLI(t, "note", "delete", "1", "-c", cfg)
	require.NoError(t, err)

	out, err = runCLI(t, "note", "list", "-c", cfg)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 1)
}

func TestNoteAddWithImage(t *testing.T) {
	cfg := writeTestConfig(t)
	img := filepath.Join(t.TempDir(), "pick.jpg")
	require.NoError(t, os.WriteFile(img, []byte("jpg"), 0o644))

	_, err := runCLI(t, "note", "add", "with picture", "-i", img, "-c", cfg)
	require.NoError(t, err)

	var imagePath string
	require.NoError(t, withApp(cfg, func(a *internalApp.App) error {
		notes, err := a.NoteStore.Snapshot(context.Background())
		if err != nil {
			return err
		}
		require.Len(t, notes, 1)
		require.NotNil(t, notes[0].ImagePath)
		imagePath = *notes[0].ImagePath
		return nil
	}))
	assert.FileExists(t, imagePath)
	assert.True(t, strings.HasPrefix(filepath.Base(imagePath), "note_"))
}

func TestParseID(t *testing.T) {
	id, err := parseID("12")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"0", "-1", "x"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestResolveConfig_WritesDefault(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	prev := configDefault
	configDefault = "server:\n  http-port: :9100\n"
	t.Cleanup(func() { configDefault = prev })

	p, err := resolveConfig("")
	require.NoError(t, err)
	assert.Equal(t, "config/config.yaml", p)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, configDefault, string(data))

	p, err = resolveConfig("")
	require.NoError(t, err)
	assert.Equal(t, "config/config.yaml", p)

	p, err = resolveConfig("custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "custom.yaml", p)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, internalApp.CurrentBuild().String(), strings.TrimSpace(out))

	out, err = runCLI(t, "version", "--json")
	require.NoError(t, err)
	t.Cleanup(func() { _ = versionCmd.Flags().Set("json", "false") })
	assert.Contains(t, out, `"name": "Fast Note Pad"`)
	assert.Contains(t, out, `"version": "`+internalApp.Version+`"`)
}

func TestUpgradeCommand(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := runCLI(t, "upgrade", "-c", cfg, "--dry-run")
	require.NoError(t, err)
	t.Cleanup(func() { _ = upgradeCmd.Flags().Set("dry-run", "false") })
	assert.Contains(t, out, "new database")

	require.NoError(t, upgradeCmd.Flags().Set("dry-run", "false"))
	out, err = runCLI(t, "upgrade", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "schema version")

	out, err = runCLI(t, "upgrade", "-c", cfg, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "is current")
}
