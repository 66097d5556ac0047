// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultGATimeout is the fixed timeout for all Google Analytics API calls.
// Both the metadata check and the report fetches are expected to answer
// quickly; a slow remote aborts the operation rather than blocking the
// triggering request.
const DefaultGATimeout = 2 * time.Second

// GAConfig holds Google Analytics API configuration.
type GAConfig struct {
	AccessToken string        // OAuth access token obtained by the host's authorization flow
	ProfileID   int64         // default reporting profile (view) ID
	Endpoint    string        // API base URL override (used by tests; empty = Google's default)
	Timeout     time.Duration // per-call timeout (default: 2s)
}

// HasCredential returns true when an access token is configured.
func (g *GAConfig) HasCredential() bool {
	return g.AccessToken != ""
}

// Config holds the configuration for the HTTP API and the field catalog store.
type Config struct {
	CatalogDBPath string // path to the SQLite catalog file
	ListenAddr    string // HTTP listen address (default ":8080")
	LogLevel      string // log level: debug, info, warn, error (default "info")

	// SyncSchedule is an optional cron expression for periodic catalog
	// refresh. Empty disables the scheduler; imports then run only on
	// admin-triggered actions.
	SyncSchedule string

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// GA holds Google Analytics API configuration.
	GA GAConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables.
// The GA access token is optional: the server can start without it, but
// report execution and catalog sync stay blocked until one is configured.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		CatalogDBPath: os.Getenv("CATALOG_DB_PATH"),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		SyncSchedule:  os.Getenv("SYNC_SCHEDULE"),
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}

	// GA config
	cfg.GA = GAConfig{
		AccessToken: os.Getenv("GA_ACCESS_TOKEN"),
		Endpoint:    os.Getenv("GA_ENDPOINT"),
		Timeout:     DefaultGATimeout,
	}
	if v := os.Getenv("GA_PROFILE_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid GA_PROFILE_ID %q: %w", v, err)
		}
		cfg.GA.ProfileID = id
	}
	if v := os.Getenv("GA_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GA_TIMEOUT %q: %w", v, err)
		}
		cfg.GA.Timeout = d
	}

	// Defaults
	if cfg.CatalogDBPath == "" {
		cfg.CatalogDBPath = "ga_reports.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if !cfg.GA.HasCredential() {
		cfg.Warnings = append(cfg.Warnings, "GA_ACCESS_TOKEN not set; reports and catalog sync are blocked until the account is authorized")
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
