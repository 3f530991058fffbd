// Package watcher reloads the catalog when its data file is edited outside
// the server, for example by hand or by a sync tool.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloader re-reads the catalog after an external change. It reports whether
// the content actually differed from the last write it made.
type Reloader interface {
	Reload(ctx context.Context) (bool, error)
}

// Watcher watches a single file. The parent directory is watched rather
// than the file itself, because atomic writes replace the file's inode.
type Watcher struct {
	path     string
	name     string
	reloader Reloader
	logger   *slog.Logger
	opts     Options
	fs       *fsnotify.Watcher

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher for path. The parent directory is created if needed.
func New(path string, reloader Reloader, logger *slog.Logger, opts Options) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts.setDefaults()

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		path:     path,
		name:     filepath.Base(path),
		reloader: reloader,
		logger:   logger,
		opts:     opts,
		fs:       fsw,
		done:     make(chan struct{}),
	}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start processes events until ctx is canceled or Stop is called.
// It returns immediately if Stop already ran.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	w.logger.Info("watching data file", "path", w.path, "settle_delay", w.opts.SettleDelay)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return nil
		case <-w.done:
			w.cancelPending()
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

// Stop ends Start and releases the fsnotify watcher. Safe to call twice.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		close(w.done)
		w.mu.Unlock()

		w.wg.Wait()
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if filepath.Base(event.Name) != w.name {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.SettleDelay, func() { w.settle(ctx) })
}

// settle runs once the file has been quiet for the settle delay.
func (w *Watcher) settle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	changed, err := w.reloader.Reload(ctx)
	if err != nil {
		w.logger.Error("failed to reload data file", "path", w.path, "error", err)
		return
	}
	if changed {
		w.logger.Info("data file changed externally", "path", w.path)
	}
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
