// Package preview rebuilds the site on content changes and serves the result.
package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/builder"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/server"
)

// debounceDelay coalesces editor save bursts into a single rebuild.
const debounceDelay = 300 * time.Millisecond

// buildStatus tracks the current build state across the watcher and server.
type buildStatus struct {
	mu        sync.RWMutex
	lastError error
}

func (bs *buildStatus) set(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) get() error {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError
}

// Run performs an initial build, then watches the content, layouts and static
// directories, rebuilding on changes while serving the output tree on addr.
// A failed rebuild keeps the previous tree in place and never stops the
// process; it runs until ctx is canceled.
func Run(ctx context.Context, cfg *config.Config, addr string) error {
	status := &buildStatus{}
	gen := builder.NewGenerator(cfg, cfg.Output.Dir)

	if _, err := gen.Build(ctx); err != nil {
		slog.Error("Initial build failed", "error", err)
		status.set(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for _, dir := range []string{cfg.Content.Dir, cfg.Content.LayoutsDir, cfg.Content.StaticDir} {
		if err := watchRecursive(watcher, dir); err != nil {
			return err
		}
	}

	rebuildReq := make(chan struct{}, 1)
	go rebuildWorker(ctx, gen, status, rebuildReq)
	go watchLoop(ctx, watcher, rebuildReq)

	// /healthz reflects the last build: a failed rebuild keeps serving the
	// previous tree but reports unhealthy until a build succeeds.
	srv := server.New(cfg.Output.Dir, server.Options{Health: status.get})
	return srv.Serve(ctx, addr)
}

// watchRecursive adds dir and all its subdirectories to the watcher. Missing
// directories are skipped; fsnotify does not watch recursively by itself.
func watchRecursive(watcher *fsnotify.Watcher, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}

// watchLoop debounces filesystem events into rebuild requests.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, rebuildReq chan<- struct{}) {
	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			// New directories must be watched too.
			if ev.Op.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = watcher.Add(ev.Name)
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, func() {
				select {
				case rebuildReq <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", "error", err)
		}
	}
}

// rebuildWorker serializes rebuilds triggered by the watcher.
func rebuildWorker(ctx context.Context, gen *builder.Generator, status *buildStatus, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			slog.Info("Change detected, rebuilding")
			if _, err := gen.Build(ctx); err != nil {
				slog.Error("Rebuild failed, keeping previous output", "error", err)
				status.set(err)
				continue
			}
			status.set(nil)
			slog.Info("Rebuild completed")
		}
	}
}
