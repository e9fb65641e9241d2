package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/adapters/file"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/adapters/sqlite"
	"github.com/aretw0/waypoint/pkg/domain"
)

var (
	tourFile   = filepath.Join("..", "..", "pkg", "rehearsal", "testdata", "tours", "prefs.yaml")
	scriptFile = filepath.Join("..", "..", "pkg", "rehearsal", "testdata", "scripts", "happy-path.yaml")
	goldenFile = filepath.Join("..", "..", "pkg", "rehearsal", "testdata", "golden", "happy-path.golden")
)

func TestMain(m *testing.M) {
	// Output is compared byte for byte.
	tui.Enabled = false
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "waypoint version ")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", tourFile)
	require.NoError(t, err)
	assert.Contains(t, out, "ok "+tourFile)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("id: bad\nsteps: []\n"), 0644))

	out, err = run(t, "validate", dir)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "FAIL "+bad)
}

func TestRehearse_PrintsTranscript(t *testing.T) {
	want, err := os.ReadFile(goldenFile)
	require.NoError(t, err)

	out, err := run(t, "rehearse", tourFile, scriptFile)
	require.NoError(t, err)
	assert.Equal(t, string(want), out)
}

func TestRehearse_RecordedSessionLifecycle(t *testing.T) {
	t.Setenv("WAYPOINT_STORE_BACKEND", "file")
	t.Setenv("WAYPOINT_STORE_PATH", t.TempDir())

	_, err := run(t, "rehearse", "--record", "--session", "cli", tourFile, scriptFile)
	require.NoError(t, err)

	out, err := run(t, "session", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "cli")
	assert.Contains(t, out, "prefs")

	out, err = run(t, "graph", "--session", "cli", tourFile)
	require.NoError(t, err)
	assert.Contains(t, out, "class done current;")

	out, err = run(t, "session", "inspect", "cli")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "completed"`)

	_, err = run(t, "session", "inspect", "ghost")
	assert.ErrorContains(t, err, `session "ghost" not found`)

	out, err = run(t, "session", "rm", "cli")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed session 'cli'")

	out, err = run(t, "session", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions found.")
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, closeStore, err := openBackend(ctx, config.StoreConfig{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	require.NoError(t, closeStore())

	store, closeStore, err = openBackend(ctx, config.StoreConfig{Backend: "file", Path: dir})
	require.NoError(t, err)
	assert.IsType(t, &file.Store{}, store)
	require.NoError(t, closeStore())

	store, closeStore, err = openBackend(ctx, config.StoreConfig{Backend: "sqlite", Path: filepath.Join(dir, "db", "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, store)
	require.NoError(t, store.Save(ctx, "s1", &domain.Progress{SessionID: "s1", Status: domain.StatusActive}))
	require.NoError(t, closeStore())

	_, _, err = openBackend(ctx, config.StoreConfig{Backend: "etcd"})
	assert.ErrorContains(t, err, `unknown store backend "etcd"`)
}
