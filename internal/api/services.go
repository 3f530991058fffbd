package api

import (
	"github.com/readingclub/readingclub-server/internal/service"
	"github.com/readingclub/readingclub-server/internal/sse"
)

// Services groups the business logic used by the API server.
type Services struct {
	Search    *service.SearchService
	Discovery *service.DiscoveryService // nil when remote discovery is disabled
	Events    *sse.Manager
}

// Options tunes the HTTP surface.
type Options struct {
	PublicDir          string
	CORSAllowedOrigins []string
	RateLimitRPS       float64 // 0 disables rate limiting
	RateLimitBurst     int
}
