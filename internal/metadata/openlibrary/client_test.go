package openlibrary

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

const searchFixture = `{
  "docs": [
    {
      "key": "/works/OL893415W",
      "title": "Dune",
      "author_name": ["Frank Herbert"],
      "first_publish_year": 1965,
      "cover_i": 11481354,
      "ratings_average": 4.26,
      "ratings_count": 1200,
      "subject": ["Science fiction", "Desert"],
      "ia": ["dune00herb"],
      "ebook_access": "borrowable"
    },
    {
      "key": "/works/OL1W",
      "title": "Dune Messiah",
      "author_name": ["Frank Herbert"]
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
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, metadata.UserAgent, r.Header.Get("User-Agent"))
		gotQuery = r.URL.Query()
		w.Write([]byte(searchFixture))
	})

	results, err := client.Search(context.Background(), "Dune", "Frank Herbert")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Dune", gotQuery["title"][0])
	assert.Equal(t, "Frank Herbert", gotQuery["author"][0])

	dune := results[0]
	assert.Equal(t, "Frank Herbert", dune.Author)
	require.NotNil(t, dune.Rating)
	assert.InDelta(t, 4.3, *dune.Rating, 0.001)
	assert.Equal(t, metadata.SourceOpenLibrary, dune.RatingSource)
	assert.Equal(t, "https://covers.openlibrary.org/b/id/11481354-M.jpg", dune.Cover)
	require.NotNil(t, dune.Year)
	assert.Equal(t, 1965, *dune.Year)
	assert.Equal(t, "Science Fiction & Fantasy", dune.Category)
	assert.Equal(t, "/works/OL893415W", dune.WorkKey)
	// 85 title + 35 author + 8 rating + 12 count + 5 cover + 2 year
	assert.Equal(t, 147, dune.Score)

	types := make([]string, 0, len(dune.Resources))
	for _, r := range dune.Resources {
		types = append(types, r.Type)
	}
	assert.Equal(t, []string{metadata.ResourceDetails, metadata.ResourceBorrow, metadata.ResourceEbook, metadata.ResourceSearch}, types)

	messiah := results[1]
	assert.Nil(t, messiah.Rating)
	assert.Empty(t, messiah.RatingSource)
	assert.Equal(t, metadata.DefaultCategory, messiah.Category)
	assert.Equal(t, 55+35, messiah.Score)
}

func TestClient_SearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"rate limited", http.StatusTooManyRequests, metadata.ErrRateLimited},
		{"server error", http.StatusBadGateway, metadata.ErrServer},
		{"not found", http.StatusNotFound, metadata.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := client.Search(context.Background(), "Dune", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var merr *metadata.Error
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, "search", merr.Op)
		})
	}
}

func TestClient_Suggest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "dun", r.URL.Query().Get("q"))
		w.Write([]byte(`{"docs":[{"title":"Dune","author_name":["Frank Herbert"],"first_publish_year":1965},{"title":"  "}]}`))
	})

	got, err := client.Suggest(context.Background(), "dun", 8)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dune", got[0].Title)
	assert.Equal(t, 1965, *got[0].Year)
	assert.Equal(t, metadata.SourceOpenLibrary, got[0].Source)
}

func TestClient_WorkDescription(t *testing.T) {
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain string", `{"description":"  A desert planet.  "}`, "A desert planet."},
		{"typed value", `{"description":{"type":"/type/text","value":"Spice."}}`, "Spice."},
		{"missing", `{}`, ""},
		{"truncated", `{"description":"` + string(long) + `"}`, string(long[:260])},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/works/OL1W.json", r.URL.Path)
				w.Write([]byte(tt.body))
			})

			got, err := client.WorkDescription(context.Background(), "/works/OL1W")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_WorkDescriptionEmptyKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	got, err := client.WorkDescription(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
