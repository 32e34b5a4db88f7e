package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestBuildStatus_ConcurrentAccess(t *testing.T) {
	status := &buildStatus{}
	require.NoError(t, status.get())

	errBoom := errors.New("boom")
	status.set(errBoom)
	require.Equal(t, errBoom, status.get())

	status.set(nil)
	require.NoError(t, status.get())
}

func TestWatchRecursive_MissingDirIsNoop(t *testing.T) {
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()

	require.NoError(t, watchRecursive(watcher, filepath.Join(t.TempDir(), "missing")))
}

func TestWatchLoop_DebouncesEventsIntoSingleRequest(t *testing.T) {
	dir := t.TempDir()
	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = watcher.Close() }()
	require.NoError(t, watchRecursive(watcher, dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rebuildReq := make(chan struct{}, 1)
	go watchLoop(ctx, watcher, rebuildReq)

	// A burst of writes coalesces into one rebuild request.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "post.md"), []byte("x"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-rebuildReq:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a rebuild request after file changes")
	}

	// No second request queued from the same burst.
	select {
	case <-rebuildReq:
		t.Fatal("burst should have been debounced into one request")
	case <-time.After(2 * debounceDelay):
	}
}
