package gutendex

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingclub/readingclub-server/internal/domain"
	"github.com/readingclub/readingclub-server/internal/metadata"
)

const booksFixture = `{
  "results": [
    {
      "id": 84,
      "title": "Frankenstein; Or, The Modern Prometheus",
      "authors": [{"name": "Shelley, Mary Wollstonecraft"}],
      "subjects": ["Frankenstein's monster (Fictitious character) -- Fiction", "Horror tales", "Science fiction", "Scientists -- Fiction", "Monsters -- Fiction"],
      "formats": {
        "text/html": "https://www.gutenberg.org/ebooks/84.html.images",
        "application/epub+zip": "https://www.gutenberg.org/ebooks/84.epub3.images",
        "application/octet-stream": "https://www.gutenberg.org/cache/epub/84/pg84-h.zip",
        "text/plain; charset=us-ascii": "https://www.gutenberg.org/ebooks/84.txt.utf-8"
      },
      "download_count": 98000
    }
  ]
}`

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books", r.URL.Path)
		assert.Equal(t, "Frankenstein Shelley", r.URL.Query().Get("search"))
		w.Write([]byte(booksFixture))
	}))
	defer server.Close()

	client := New(slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	defer client.Close()
	client.fetch.HTTP = server.Client()
	client.baseURL = server.URL

	results, err := client.Search(context.Background(), "Frankenstein", "Shelley")
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "Shelley, Mary Wollstonecraft", got.Author)
	assert.Nil(t, got.Rating)
	assert.Nil(t, got.Year)
	assert.Equal(t, "Subjects: Frankenstein's monster (Fictitious character) -- Fiction / Horror tales / Science fiction", got.Synopsis)
	assert.Equal(t, "Science Fiction & Fantasy", got.Category)
	// 55 title prefix + 22 author prefix + 8 capped downloads
	assert.Equal(t, 85, got.Score)

	assert.Equal(t, []domain.Resource{
		{Name: "Project Gutenberg EPUB", URL: "https://www.gutenberg.org/ebooks/84.epub3.images", Type: metadata.ResourceEbook},
		{Name: "Project Gutenberg online", URL: "https://www.gutenberg.org/ebooks/84.html.images", Type: metadata.ResourceRead},
		{Name: "Gutendex details", URL: "https://gutendex.com/books/84", Type: metadata.ResourceDetails},
	}, got.Resources)
}

func TestClient_SearchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := New(slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	defer client.Close()
	client.fetch.HTTP = server.Client()
	client.baseURL = server.URL

	_, err := client.Search(context.Background(), "Frankenstein", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Gutendex search")
}
