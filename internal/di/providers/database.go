package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/readingclub/readingclub-server/internal/config"
	"github.com/readingclub/readingclub-server/internal/logger"
	"github.com/readingclub/readingclub-server/internal/sse"
	"github.com/readingclub/readingclub-server/internal/store"
	"github.com/readingclub/readingclub-server/internal/store/badger"
	"github.com/readingclub/readingclub-server/internal/store/file"
	"github.com/readingclub/readingclub-server/internal/store/sqlite"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// OpenBackend opens the storage backend selected by the configuration.
func OpenBackend(cfg *config.Config, log *logger.Logger) (store.Backend, error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return file.New(cfg.Store.DataPath), nil
	case config.BackendBadger:
		return badger.Open(cfg.Store.DataPath, log.Logger)
	case config.BackendSQLite:
		return sqlite.Open(cfg.Store.DataPath, log.Logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the reading list store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	backend, err := OpenBackend(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Store.Backend, err)
	}

	st := store.New(backend, log.Logger, sseHandle.Manager)

	// Materialize the document now so a corrupt file fails startup, not the first request.
	stats, err := st.Stats(context.Background())
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	log.Info("Catalog loaded",
		"backend", cfg.Store.Backend,
		"path", cfg.Store.DataPath,
		"books", stats.Books,
		"reviews", stats.Reviews,
		"comments", stats.Comments,
	)

	return &StoreHandle{Store: st}, nil
}
