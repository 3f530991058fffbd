package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_MissingFile(t *testing.T) {
	b := New(filepath.Join(t.TempDir(), "data", "books.json"))

	_, err := b.Read(context.Background())
	assert.ErrorIs(t, err, store.ErrNoDocument)
}

func TestBackend_WriteCreatesDirectoriesAndRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "books.json")
	b := New(path)
	ctx := context.Background()

	require.NoError(t, b.Write(ctx, []byte(`{"books": []}`)))
	require.NoError(t, b.Write(ctx, []byte(`{"books": [{"id": "b1"}]}`)))

	got, err := b.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"books": [{"id": "b1"}]}`, string(got))

	// Only the document remains; temp files are renamed or removed.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "books.json", entries[0].Name())
}

func TestBackend_StoreMaterializesPrettyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	s := store.New(New(path), nil, store.NewNoopEmitter())
	ctx := context.Background()

	_, err := s.AddBook(ctx, domain.NewBook{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "{\n  \"books\": [\n    {\n")
	assert.Contains(t, string(raw), `"title": "Dune"`)

	// A second store over the same file sees the book.
	other := store.New(New(path), nil, store.NewNoopEmitter())
	books, err := other.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Herbert", books[0].Author)
}

func TestBackend_ReadsDocumentsFromEarlierVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	legacy := `{
  "books": [
    {
      "id": "0f8fad5b-d9cb-469f-a165-70867728950e",
      "title": "Dune",
      "author": "Frank Herbert",
      "rating": 8.6,
      "addedAt": "2024-03-01T08:15:30.123456+00:00",
      "status": "reading",
      "votes": {"alice": true}
    }
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	s := store.New(New(path), nil, store.NewNoopEmitter())
	books, err := s.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, domain.StatusReading, books[0].Status)
	assert.True(t, books[0].Votes.Has("alice"))
	assert.NotNil(t, books[0].Reviews)
	assert.Equal(t, 8.6, books[0].Rating)
}
