// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Store     StoreConfig
	Discovery DiscoveryConfig
	MDNS      MDNSConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // pretty, json, text; empty picks by environment
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port               string        // default: 3000
	ReadTimeout        time.Duration // default: 15s
	WriteTimeout       time.Duration // default: 30s, covers slow discovery calls
	IdleTimeout        time.Duration // default: 60s
	PublicDir          string        // static front-end, default ./public
	CORSAllowedOrigins []string      // default: *
	RateLimitRPS       float64       // per client IP, 0 disables
	RateLimitBurst     int
}

// StoreConfig selects where the catalog document lives.
type StoreConfig struct {
	Backend       string // file, badger, sqlite
	DataPath      string // file path, badger directory, or sqlite database
	WatchDataFile bool   // reload on external edits (file backend only)
}

// DiscoveryConfig controls remote book lookups.
type DiscoveryConfig struct {
	Enabled bool
	Timeout time.Duration // per provider request
}

// MDNSConfig controls LAN advertisement.
type MDNSConfig struct {
	Enabled bool
	Name    string
}

// LoadConfig loads configuration from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("readingclub-server", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (pretty, json, text)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 3000)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	publicDir := fs.String("public-dir", "", "Directory of static front-end files (default: ./public)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")
	rateLimitRPS := fs.String("rate-limit-rps", "", "Requests per second per client, 0 disables (default: 20)")
	rateLimitBurst := fs.String("rate-limit-burst", "", "Rate limit burst (default: 40)")

	// Store flags
	storeBackend := fs.String("store", "", "Storage backend: file, badger, sqlite (default: file)")
	dataPath := fs.String("data-path", "", "Catalog location (default depends on backend)")
	watchDataFile := fs.String("watch-data-file", "", "Reload when the data file is edited externally (default: true)")

	// Discovery flags
	discoveryEnabled := fs.String("discovery", "", "Enable remote book discovery (default: true)")
	discoveryTimeout := fs.String("discovery-timeout", "", "Per-provider discovery timeout (default: 7s)")

	// mDNS flags
	mdnsEnabled := fs.String("mdns", "", "Advertise via mDNS (default: false)")
	mdnsName := fs.String("mdns-name", "", "Advertised server name (default: hostname)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", ""),
		},
		Server: ServerConfig{
			Port:               getConfigValue(*serverPort, "SERVER_PORT", "3000"),
			PublicDir:          getConfigValue(*publicDir, "PUBLIC_DIR", "public"),
			CORSAllowedOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ALLOWED_ORIGINS", "*")),
			RateLimitRPS:       getFloatConfigValue(*rateLimitRPS, "RATE_LIMIT_RPS", 20),
			RateLimitBurst:     getIntConfigValue(*rateLimitBurst, "RATE_LIMIT_BURST", 40),
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(getConfigValue(*storeBackend, "STORE_BACKEND", BackendFile)),
			DataPath:      getConfigValue(*dataPath, "DATA_PATH", ""),
			WatchDataFile: getBoolConfigValue(*watchDataFile, "WATCH_DATA_FILE", true),
		},
		Discovery: DiscoveryConfig{
			Enabled: getBoolConfigValue(*discoveryEnabled, "DISCOVERY_ENABLED", true),
		},
		MDNS: MDNSConfig{
			Enabled: getBoolConfigValue(*mdnsEnabled, "MDNS_ENABLED", false),
			Name:    getConfigValue(*mdnsName, "MDNS_NAME", ""),
		},
	}

	var err error
	if cfg.Server.ReadTimeout, err = parseDuration(*readTimeout, "SERVER_READ_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid read timeout: %w", err)
	}
	if cfg.Server.WriteTimeout, err = parseDuration(*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid write timeout: %w", err)
	}
	if cfg.Server.IdleTimeout, err = parseDuration(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s"); err != nil {
		return nil, fmt.Errorf("invalid idle timeout: %w", err)
	}
	if cfg.Discovery.Timeout, err = parseDuration(*discoveryTimeout, "DISCOVERY_TIMEOUT", "7s"); err != nil {
		return nil, fmt.Errorf("invalid discovery timeout: %w", err)
	}

	if cfg.Logger.Format == "" {
		cfg.Logger.Format = defaultLogFormat(cfg.App.Environment)
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Server.PublicDir, err = expandPath(cfg.Server.PublicDir, ""); err != nil {
		return nil, fmt.Errorf("invalid public dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Logger.Format {
	case "", "pretty", "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s (must be pretty, json, or text)", c.Logger.Format)
	}

	switch c.Store.Backend {
	case BackendFile, BackendBadger, BackendSQLite:
	default:
		return fmt.Errorf("invalid store backend: %s (must be file, badger, or sqlite)", c.Store.Backend)
	}

	if c.Store.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port: %q", c.Server.Port)
	}

	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return errors.New("rate limit values cannot be negative")
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}

// WatchEnabled reports whether the data file watcher should run.
func (c *Config) WatchEnabled() bool {
	return c.Store.WatchDataFile && c.Store.Backend == BackendFile
}

func defaultLogFormat(env string) string {
	if env == "development" {
		return "pretty"
	}
	return "json"
}

// defaultDataPath returns the catalog location for a backend.
func defaultDataPath(backend string) string {
	switch backend {
	case BackendBadger:
		return filepath.Join("data", "badger")
	case BackendSQLite:
		return filepath.Join("data", "books.db")
	default:
		return filepath.Join("data", "books.json")
	}
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		path = defaultPath
	}
	if path == "" {
		return "", nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath resolves the catalog location, defaulting per backend.
func (c *Config) expandDataPath() error {
	expanded, err := expandPath(c.Store.DataPath, defaultDataPath(c.Store.Backend))
	if err != nil {
		return err
	}
	c.Store.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

func parseDuration(flagValue, envKey, defaultValue string) (time.Duration, error) {
	s := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", envKey, s, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
