package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_NotifiesOnManifestWrite(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("services: []\n"), 0o600))

	w, err := New(Config{ManifestPath: manifest, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(manifest, []byte("auto_reload: true\n"), 0o600))

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("services: []\n"), 0o600))

	w, err := New(Config{ManifestPath: manifest, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	select {
	case <-changes:
		t.Fatal("unrelated file must not notify")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(manifest, []byte("services: []\n"), 0o600))

	w, err := New(Config{ManifestPath: manifest, DebounceDur: 100 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	changes, err := w.Start()
	require.NoError(t, err)

	for i := range 5 {
		require.NoError(t, os.WriteFile(manifest, []byte{byte('a' + i)}, 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a debounced notification")
	}

	select {
	case <-changes:
		t.Fatal("burst must collapse into one notification")
	case <-time.After(300 * time.Millisecond):
	}
}
