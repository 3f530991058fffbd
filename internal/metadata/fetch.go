package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/readingclub/readingclub-server/internal/ratelimit"
)

// UserAgent identifies the server to public APIs.
const UserAgent = "ReadingClub/1.0 (+https://openlibrary.org)"

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 7 * time.Second

// maxBodyBytes guards against oversized responses.
const maxBodyBytes = 4 << 20

// Fetcher performs rate-limited JSON GETs for a provider client.
type Fetcher struct {
	HTTP    *http.Client
	Limiter *ratelimit.KeyedRateLimiter
	Logger  *slog.Logger
	Key     string // rate limit bucket, usually the provider host
}

// NewFetcher creates a Fetcher with its own limiter.
func NewFetcher(key string, rps float64, burst int, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		HTTP:    &http.Client{Timeout: timeout},
		Limiter: ratelimit.New(rps, burst),
		Logger:  logger,
		Key:     key,
	}
}

// Close stops the limiter's background sweep.
func (f *Fetcher) Close() {
	f.Limiter.Stop()
}

// GetJSON fetches rawURL and decodes the body into v.
func (f *Fetcher) GetJSON(ctx context.Context, rawURL string, v any) error {
	if err := f.Limiter.Wait(ctx, f.Key); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	f.Logger.Debug("metadata request", "provider", f.Key, "url", rawURL)

	resp, err := f.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return ErrServer
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
