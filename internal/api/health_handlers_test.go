package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)
	ts.addBook(t, map[string]any{"title": "Dune"})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	health := decode[HealthResponse](t, resp)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["store"].Status)
	assert.Equal(t, "1 books, 0 reviews, 0 comments", health.Components["store"].Message)
	assert.Equal(t, "1 documents indexed", health.Components["search"].Message)
	assert.Equal(t, "0 clients connected", health.Components["sse"].Message)
}

func TestHealthCheck_DegradedWithoutSearch(t *testing.T) {
	ts := setupTestServer(t)
	ts.services.Search = nil

	health := decode[HealthResponse](t, ts.api.Get("/health"))

	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "degraded", health.Components["search"].Status)
}
