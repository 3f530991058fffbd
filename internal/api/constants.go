package api

// Cache-Control header values.
const (
	CacheStatic  = "public, max-age=3600"
	CacheNoStore = "no-cache"
)

// Query limits.
const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)
