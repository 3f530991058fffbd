package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/readingclub/readingclub-server/internal/config"
	"github.com/readingclub/readingclub-server/internal/logger"
	"github.com/readingclub/readingclub-server/internal/service"
	"github.com/readingclub/readingclub-server/internal/watcher"
)

// FileWatcherHandle wraps the data file watcher with shutdown capability.
// Watcher is nil when watching is disabled.
type FileWatcherHandle struct {
	*watcher.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideFileWatcher provides the watcher that reloads the catalog when the
// JSON data file is edited by hand.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	// The search service must be wired before reloads can rebuild the index.
	_ = do.MustInvoke[*service.SearchService](i)

	if !cfg.WatchEnabled() {
		log.Info("Data file watcher disabled", "backend", cfg.Store.Backend)
		return &FileWatcherHandle{}, nil
	}

	w, err := watcher.New(cfg.Store.DataPath, storeHandle.Store, log.Logger, watcher.Options{})
	if err != nil {
		return nil, err
	}

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("File watcher error", "error", err)
		}
	}()

	return &FileWatcherHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}
