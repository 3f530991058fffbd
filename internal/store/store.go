// Package store owns the reading club catalog. Every operation runs a full
// load, mutate, persist cycle against a Backend while holding the store lock,
// so concurrent requests never lose each other's writes.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/id"
	"github.com/readingclub/readingclub-server/internal/sse"
)

// EventEmitter is the interface for emitting SSE events.
// Store uses this to broadcast changes without depending on SSE implementation details.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// SearchIndexer keeps a search index in sync with the catalog.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
	Rebuild(ctx context.Context, books []*domain.Book) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexBook is a no-op.
func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook is a no-op.
func (NoopSearchIndexer) DeleteBook(context.Context, string) error { return nil }

// Rebuild is a no-op.
func (NoopSearchIndexer) Rebuild(context.Context, []*domain.Book) error { return nil }

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the identifier generator.
func WithIDGenerator(gen id.Generator) Option {
	return func(s *Store) { s.newID = gen }
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the ReadingListStore: the single owner of the catalog document.
type Store struct {
	backend       Backend
	logger        *slog.Logger
	eventEmitter  EventEmitter
	searchIndexer SearchIndexer
	newID         id.Generator
	now           func() time.Time

	mu          sync.Mutex
	lastWritten []byte
}

// New creates a Store over backend. The emitter is required and used to
// broadcast store changes.
func New(backend Backend, logger *slog.Logger, emitter EventEmitter, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		backend:       backend,
		logger:        logger,
		eventEmitter:  emitter,
		searchIndexer: NoopSearchIndexer{},
		newID:         id.Generate,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSearchIndexer sets the search indexer. It is set after creation because
// the search service reads books from the store.
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchIndexer = indexer
}

// Close closes the backend.
func (s *Store) Close() error {
	s.logger.Info("Closing catalog backend")
	return s.backend.Close()
}

// Load returns the current catalog, materializing an empty one if nothing
// has been persisted yet.
func (s *Store) Load(ctx context.Context) (*domain.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.load(ctx)
}

// Persist overwrites the persisted document with catalog.
func (s *Store) Persist(ctx context.Context, catalog *domain.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.persist(ctx, catalog)
}

// Reload re-reads the backend after an external edit. It reports whether the
// document differed from what this store last wrote; if so the search index
// is rebuilt and a reload event is emitted.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNoDocument) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read catalog: %w", err)
	}
	if bytes.Equal(data, s.lastWritten) {
		return false, nil
	}

	catalog, err := decode(data)
	if err != nil {
		return false, err
	}
	s.lastWritten = data

	if err := s.searchIndexer.Rebuild(ctx, catalog.Books); err != nil {
		s.logger.Warn("failed to rebuild search index after reload", "error", err)
	}

	stats := catalog.Stats()
	s.logger.Info("catalog reloaded from backend",
		"books", stats.Books,
		"reviews", stats.Reviews,
		"comments", stats.Comments,
	)
	s.emit(sse.NewCatalogReloadedEvent(stats))
	return true, nil
}

// load reads and decodes the document. Caller must hold s.mu.
func (s *Store) load(ctx context.Context) (*domain.Catalog, error) {
	data, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNoDocument) {
		catalog := domain.NewCatalog()
		if err := s.persist(ctx, catalog); err != nil {
			return nil, fmt.Errorf("create catalog: %w", err)
		}
		s.logger.Info("created empty catalog")
		return catalog, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if s.lastWritten == nil {
		s.lastWritten = data
	}
	return decode(data)
}

// persist encodes and writes the whole catalog. Caller must hold s.mu.
func (s *Store) persist(ctx context.Context, catalog *domain.Catalog) error {
	data, err := Encode(catalog)
	if err != nil {
		return err
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	s.lastWritten = data
	return nil
}

// mutate runs fn against a freshly loaded catalog and persists the result
// if fn succeeds. A failing fn leaves the persisted document untouched.
// reindex, when non-nil, runs after the write while the lock is still held,
// so the search index applies changes in commit order.
func (s *Store) mutate(ctx context.Context, fn func(*domain.Catalog) error, reindex func(context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	catalog, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(catalog); err != nil {
		return err
	}
	if err := s.persist(ctx, catalog); err != nil {
		return err
	}
	if reindex != nil {
		reindex(ctx)
	}
	return nil
}

// view runs fn against a freshly loaded catalog without persisting.
func (s *Store) view(ctx context.Context, fn func(*domain.Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	catalog, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(catalog)
}

// Encode serializes a catalog as pretty-printed JSON with two-space indent.
func Encode(catalog *domain.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(catalog); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*domain.Catalog, error) {
	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}
	catalog.Normalize()
	return &catalog, nil
}

func (s *Store) emit(event any) {
	if s.eventEmitter != nil {
		s.eventEmitter.Emit(event)
	}
}

// indexBook returns a reindex hook refreshing *book in the search index.
// Failures never fail the mutation. Caller must hold s.mu when it runs.
func (s *Store) indexBook(book **domain.Book) func(context.Context) {
	return func(ctx context.Context) {
		if *book == nil {
			return
		}
		if err := s.searchIndexer.IndexBook(ctx, *book); err != nil {
			s.logger.Warn("failed to index book", "book_id", (*book).ID, "error", err)
		}
	}
}
