package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_FiresOnceForBurstOfWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gaps:\n  outer: 10\n"), 0o644))

	w, err := NewWatcher([]string{path}, 50*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 8)
	go w.Run(ctx, func() { fired <- struct{}{} })

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("gaps:\n  outer: 12\n"), 0o644))
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	select {
	case <-fired:
		t.Fatal("burst of writes reported more than once")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	w, err := NewWatcher([]string{path}, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	go w.Run(ctx, func() { fired <- struct{}{} })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-fired:
		t.Fatal("unrelated file triggered a reload")
	case <-time.After(200 * time.Millisecond):
	}

	// Created after the watcher started.
	require.NoError(t, os.WriteFile(path, []byte("split_ratio: 0.6\n"), 0o644))
	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher missed creation of the config file")
	}
}
