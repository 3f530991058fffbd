package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_EmptyDatabase(t *testing.T) {
	b, err := OpenInMemory(nil)
	require.NoError(t, err)
	defer b.Close()

	_, err = b.Read(context.Background())
	assert.ErrorIs(t, err, store.ErrNoDocument)
}

func TestBackend_PersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	ctx := context.Background()

	b, err := Open(dir, nil)
	require.NoError(t, err)

	s := store.New(b, nil, store.NewNoopEmitter())
	book, err := s.AddBook(ctx, domain.NewBook{Title: "Dune"})
	require.NoError(t, err)
	_, err = s.ToggleVote(ctx, book.ID, "alice")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open(dir, nil)
	require.NoError(t, err)
	s2 := store.New(reopened, nil, store.NewNoopEmitter())
	defer s2.Close()

	got, err := s2.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.True(t, got.Votes.Has("alice"))
}
