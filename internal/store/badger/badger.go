// Package badger persists the catalog document under a single BadgerDB key.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/readingclub/readingclub-server/internal/store"
)

// catalogKey holds the whole document.
var catalogKey = []byte("catalog")

// Backend wraps a Badger database instance.
type Backend struct {
	db     *badgerdb.DB
	logger *slog.Logger
}

// Open opens (or creates) a Badger database in dir.
func Open(dir string, logger *slog.Logger) (*Backend, error) {
	opts := badgerdb.DefaultOptions(dir)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	return open(opts, logger)
}

// OpenInMemory opens a Badger database that never touches disk.
func OpenInMemory(logger *slog.Logger) (*Backend, error) {
	opts := badgerdb.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts, logger)
}

func open(opts badgerdb.Options, logger *slog.Logger) (*Backend, error) {
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger != nil {
		logger.Info("Badger database opened successfully", "path", opts.Dir)
	}
	return &Backend{db: db, logger: logger}, nil
}

// Read implements store.Backend.
func (b *Backend) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(catalogKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	return data, nil
}

// Write implements store.Backend.
func (b *Backend) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(catalogKey, data)
	})
}

// Close gracefully closes the database connection.
func (b *Backend) Close() error {
	if b.logger != nil {
		b.logger.Info("Closing database connection")
	}
	return b.db.Close()
}
