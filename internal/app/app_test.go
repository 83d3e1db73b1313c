package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestOpen_SQLitePersistsAcrossOpens(t *testing.T) {
	t.Parallel()

	db := filepath.Join(t.TempDir(), "data", "tasks.db")
	opts := Options{
		ConfigPath: writeConfig(t, "[storage]\ndriver = \"sqlite\"\n"),
		DSN:        db,
	}

	first, err := Open(opts)
	require.NoError(t, err)
	_, err = first.Service.Add("persisted")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(opts)
	require.NoError(t, err)
	defer second.Close()
	require.Len(t, second.Service.All(), 1)
	assert.Equal(t, "persisted", second.Service.All()[0].Text)
}

func TestOpen_KeysAreIndependent(t *testing.T) {
	t.Parallel()

	db := filepath.Join(t.TempDir(), "tasks.db")
	cfg := writeConfig(t, "")

	work, err := Open(Options{ConfigPath: cfg, DSN: db, Key: "work"})
	require.NoError(t, err)
	_, err = work.Service.Add("ship it")
	require.NoError(t, err)
	require.NoError(t, work.Close())

	home, err := Open(Options{ConfigPath: cfg, DSN: db, Key: "home"})
	require.NoError(t, err)
	defer home.Close()
	assert.Empty(t, home.Service.All())
}

func TestOpen_Ephemeral(t *testing.T) {
	t.Parallel()

	a, err := Open(Options{ConfigPath: writeConfig(t, "[storage]\ndriver = \"mysql\"\ndsn = \"unused\"\n"), Ephemeral: true})
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, "memory", a.Config.Storage.Driver)
}

func TestOpen_UnusableStorageFallsBackToMemory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	var logs bytes.Buffer
	a, err := Open(Options{
		ConfigPath: writeConfig(t, ""),
		Driver:     "sqlite",
		DSN:        filepath.Join(file, "data", "tasks.db"),
		LogOutput:  &logs,
	})
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.Service.All())
	_, err = a.Service.Add("still works")
	require.NoError(t, err)
	assert.Len(t, a.Service.All(), 1)
	assert.Contains(t, logs.String(), "storage unavailable")
}

func TestOpen_InvalidOverride(t *testing.T) {
	t.Parallel()

	_, err := Open(Options{ConfigPath: writeConfig(t, ""), Driver: "redis"})
	require.Error(t, err)
}
