package googlebooks

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readingclub/readingclub-server/internal/metadata"
)

const volumesFixture = `{
  "items": [
    {
      "volumeInfo": {
        "title": "The Left Hand of Darkness",
        "authors": ["Ursula K. Le Guin"],
        "publishedDate": "1969-03",
        "description": "<p>A <b>lone</b> envoy on Gethen.</p>",
        "categories": ["Fiction / Science Fiction"],
        "averageRating": 4.14,
        "ratingsCount": 260,
        "imageLinks": {"thumbnail": "http://books.google.com/cover.jpg"},
        "infoLink": "http://books.google.com/books?id=abc",
        "previewLink": "http://books.google.com/books?id=abc&printsec=frontcover"
      },
      "accessInfo": {
        "webReaderLink": "http://play.google.com/books/reader?id=abc",
        "epub": {"isAvailable": true, "acsTokenLink": "http://books.google.com/acs/epub"},
        "pdf": {"isAvailable": false}
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	t.Cleanup(client.Close)
	client.fetch.HTTP = server.Client()
	client.baseURL = server.URL
	return client
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes", r.URL.Path)
		assert.Equal(t, "intitle:The Left Hand of Darkness inauthor:Le Guin", r.URL.Query().Get("q"))
		assert.Equal(t, "books", r.URL.Query().Get("printType"))
		w.Write([]byte(volumesFixture))
	})

	results, err := client.Search(context.Background(), "The Left Hand of Darkness", "Le Guin")
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "Ursula K. Le Guin", got.Author)
	assert.Equal(t, "A **lone** envoy on Gethen.", got.Synopsis)
	assert.Equal(t, "https://books.google.com/cover.jpg", got.Cover)
	require.NotNil(t, got.Year)
	assert.Equal(t, 1969, *got.Year)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 4.1, *got.Rating, 0.001)
	assert.Equal(t, metadata.SourceGoogleBooks, got.RatingSource)
	assert.Equal(t, "Science Fiction & Fantasy", got.Category)
	// 85 title + 15 author contains + 7 rating + 5 count + 4 description + 3 thumbnail
	assert.Equal(t, 119, got.Score)

	require.Len(t, got.Resources, 4)
	for _, r := range got.Resources {
		assert.Contains(t, r.URL, "https://", "google hosts are upgraded")
	}
	assert.Equal(t, metadata.ResourceRead, got.Resources[2].Type)
	assert.Equal(t, metadata.ResourceEbook, got.Resources[3].Type)
}

func TestClient_SearchTitleOnly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "intitle:Dune", r.URL.Query().Get("q"))
		w.Write([]byte(`{}`))
	})

	results, err := client.Search(context.Background(), "Dune", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClient_SearchServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "Dune", "")
	assert.ErrorIs(t, err, metadata.ErrServer)
}

func TestClient_Suggest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("maxResults"))
		w.Write([]byte(`{"items":[
			{"volumeInfo":{"title":"Dune","authors":["Frank Herbert"],"publishedDate":"2005"}},
			{"volumeInfo":{"title":""}},
			{"volumeInfo":{"title":"Dune Messiah","publishedDate":"n.d."}}
		]}`))
	})

	got, err := client.Suggest(context.Background(), "dune", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2005, *got[0].Year)
	assert.Nil(t, got[1].Year)
	assert.Equal(t, metadata.SourceGoogleBooks, got[1].Source)
}
