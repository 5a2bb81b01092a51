// Package watch re-renders the page when the active language's data file changes on disk.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nikogura/portfolio/pkg/document"
	"github.com/nikogura/portfolio/pkg/site"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 500 * time.Millisecond

// Reloader is the part of the controller the watcher drives.
type Reloader interface {
	Language() string
	Reload(ctx context.Context) site.LoadResult
}

// Watcher watches a data directory and reloads when data-<active>.json is written.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	reloader Reloader
	log      *zap.Logger
	debounce time.Duration
	pending  time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
	reloads  atomic.Int64
}

// NewWatcher creates a Watcher for dir. A zero debounce uses DefaultDebounce.
func NewWatcher(dir string, reloader Reloader, debounce time.Duration, log *zap.Logger) (w *Watcher, err error) {
	if reloader == nil {
		err = errors.New("reloader is required")
		return w, err
	}

	var fw *fsnotify.Watcher
	fw, err = fsnotify.NewWatcher()
	if err != nil {
		err = errors.Wrap(err, "failed to create file watcher")
		return w, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	w = &Watcher{
		watcher:  fw,
		dir:      dir,
		reloader: reloader,
		log:      log,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	return w, err
}

// Start begins watching. It does not block; the loop ends on ctx cancellation or Stop.
func (w *Watcher) Start(ctx context.Context) (err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		err = errors.New("watcher already stopped")
		return err
	}
	if w.running {
		return err
	}

	err = w.watcher.Add(w.dir)
	if err != nil {
		err = errors.Wrapf(err, "failed to watch %s", w.dir)
		return err
	}

	w.running = true
	go w.run(ctx)

	w.log.Info("watching data directory", zap.String("dir", w.dir))
	return err
}

// Stop ends the loop, waits for it, and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	running := w.running
	w.mu.Unlock()

	close(w.stopCh)
	if running {
		<-w.doneCh
	}

	err := w.watcher.Close()
	if err != nil {
		w.log.Warn("failed to close file watcher", zap.Error(err))
	}
}

// Reloads reports how many reloads the watcher has triggered.
func (w *Watcher) Reloads() (n int64) {
	n = w.reloads.Load()
	return n
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.debounce / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("file watcher error", zap.Error(err))

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	active := document.TargetName(w.reloader.Language())
	if filepath.Base(event.Name) != active {
		return
	}

	w.log.Debug("data file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending = time.Now()
	w.mu.Unlock()
}

// flush reloads once the last change is older than the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if w.pending.IsZero() || time.Since(w.pending) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = time.Time{}
	w.mu.Unlock()

	w.reloads.Add(1)
	result := w.reloader.Reload(ctx)
	w.log.Info("reloaded after data change",
		zap.String("language", result.Language), zap.String("status", string(result.Status)))
}
