package taxonomy

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnSave(t *testing.T) {
	path := writeDoc(t, testDoc(), "taxonomy.json")

	var reloads atomic.Int32
	w, err := NewWatcher(path, func() error {
		reloads.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watch loop a moment to start before mutating the file.
	time.Sleep(100 * time.Millisecond)

	doc := testDoc()
	doc.System.Version = "2.0"
	require.NoError(t, Save(doc, path))

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond, "watcher never signalled a reload")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	path := writeDoc(t, testDoc(), "taxonomy.json")

	var reloads atomic.Int32
	w, err := NewWatcher(path, func() error {
		reloads.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(100 * time.Millisecond)

	// A sibling file changing in the same directory must not trigger a reload.
	require.NoError(t, Save(testDoc(), filepath.Join(filepath.Dir(path), "other.json")))

	time.Sleep(600 * time.Millisecond)
	require.Zero(t, reloads.Load())
}
