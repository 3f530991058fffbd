package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	b, err := Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b, dbPath
}

func TestOpen(t *testing.T) {
	b, _ := newTestBackend(t)

	var journalMode string
	require.NoError(t, b.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var name string
	err := b.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='documents'").Scan(&name)
	require.NoError(t, err)
}

func TestBackend_ReadMissing(t *testing.T) {
	b, _ := newTestBackend(t)

	_, err := b.Read(context.Background())
	assert.ErrorIs(t, err, store.ErrNoDocument)

	_, err = b.UpdatedAt(context.Background())
	assert.ErrorIs(t, err, store.ErrNoDocument)
}

func TestBackend_UpsertKeepsSingleRow(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()
	written := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b.now = func() time.Time { return written }

	require.NoError(t, b.Write(ctx, []byte(`{"books": []}`)))
	require.NoError(t, b.Write(ctx, []byte(`{"books": [{"id": "b1"}]}`)))

	var count int
	require.NoError(t, b.db.QueryRow("SELECT COUNT(*) FROM documents").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"books": [{"id": "b1"}]}`, string(got))

	updatedAt, err := b.UpdatedAt(ctx)
	require.NoError(t, err)
	assert.True(t, written.Equal(updatedAt))
}

func TestBackend_WithStore(t *testing.T) {
	b, _ := newTestBackend(t)
	s := store.New(b, nil, store.NewNoopEmitter())
	ctx := context.Background()

	book, err := s.AddBook(ctx, domain.NewBook{Title: "Dune"})
	require.NoError(t, err)
	review, err := s.AddReview(ctx, book.ID, domain.NewReview{UserID: "alice", Content: "great"})
	require.NoError(t, err)

	got, err := s.GetReview(ctx, book.ID, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "great", got.Content)
}
