// Package api provides the HTTP API server and handlers for the reading club.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/readingclub/readingclub-server/internal/http/response"
	"github.com/readingclub/readingclub-server/internal/ratelimit"
	"github.com/readingclub/readingclub-server/internal/sse"
	"github.com/readingclub/readingclub-server/internal/store"
	"github.com/readingclub/readingclub-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *store.Store
	services    *Services
	sseHandler  *sse.Handler
	validator   *validation.Validator
	rateLimiter *ratelimit.KeyedRateLimiter
	router      *chi.Mux
	api         huma.API
	opts        Options
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, sseHandler *sse.Handler, opts Options, logger *slog.Logger) *Server {
	if services == nil {
		services = &Services{}
	}
	router := chi.NewRouter()

	s := &Server{
		store:      st,
		services:   services,
		sseHandler: sseHandler,
		validator:  validation.New(),
		router:     router,
		opts:       opts,
		logger:     logger,
	}
	if opts.RateLimitRPS > 0 {
		s.rateLimiter = ratelimit.New(opts.RateLimitRPS, opts.RateLimitBurst)
	}

	s.setupMiddleware()
	s.api = humachi.New(router, NewAPIConfig())
	RegisterErrorHandler()
	s.setupRoutes()

	return s
}

// NewAPIConfig returns the huma configuration shared by the server and tests.
// Responses are the raw resource bodies, so the $schema link hooks are dropped.
func NewAPIConfig() huma.Config {
	cfg := huma.DefaultConfig("Reading Club API", "1.0.0")
	cfg.Info.Description = "Shared reading list with votes, reviews, and comments."
	cfg.CreateHooks = nil
	return cfg
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(corsOptions(s.opts.CORSAllowedOrigins)))
	s.router.Use(middleware.Compress(5))
	if s.rateLimiter != nil {
		s.router.Use(RateLimitMiddleware(s.rateLimiter, s.logger))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerDiscussionRoutes()
	s.registerSearchRoutes()
	s.registerDiscoveryRoutes()

	if s.sseHandler != nil {
		s.router.Get("/api/events", s.sseHandler.ServeHTTP)
	}

	// Unknown API paths get a JSON 404, everything else is the front-end.
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if isAPIPath(r.URL.Path) {
			response.NotFound(w, "not found", s.logger)
			return
		}
		s.serveStatic(w, r)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if isAPIPath(r.URL.Path) {
			response.Error(w, http.StatusMethodNotAllowed, "method not allowed", s.logger)
			return
		}
		s.serveStatic(w, r)
	})
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}
