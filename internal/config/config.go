// Package config contains everything related to configuration
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	LogDir          string
	OnsiteMarker    string
	SuccessPrefix   string
	OnMalformed     string
	TopLimit        int
	Workers         int
	RequestIndex    int
	StatusIndex     int
	BytesIndex      int
	ReferrerIndex   int
	GigabyteDivisor float64
	WatchDebounce   time.Duration
	Notify          bool
}

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		LogDir:          getEnvString("WEBTALLY_LOG_DIR", "."),
		OnsiteMarker:    getEnvString("WEBTALLY_ONSITE_MARKER", DefaultOnsiteMarker),
		SuccessPrefix:   getEnvString("WEBTALLY_SUCCESS_PREFIX", DefaultSuccessPrefix),
		OnMalformed:     getEnvString("WEBTALLY_ON_MALFORMED", defaultOnMalformed),
		TopLimit:        getEnvInt("WEBTALLY_TOP_LIMIT", DefaultTopLimit),
		Workers:         getEnvInt("WEBTALLY_WORKERS", runtime.NumCPU()),
		RequestIndex:    getEnvInt("WEBTALLY_REQUEST_INDEX", DefaultRequestIndex),
		StatusIndex:     getEnvInt("WEBTALLY_STATUS_INDEX", DefaultStatusIndex),
		BytesIndex:      getEnvInt("WEBTALLY_BYTES_INDEX", DefaultBytesIndex),
		ReferrerIndex:   getEnvInt("WEBTALLY_REFERRER_INDEX", DefaultReferrerIndex),
		GigabyteDivisor: getEnvFloat("WEBTALLY_GIGABYTE_DIVISOR", DefaultGigabyteDivisor),
		WatchDebounce:   getEnvDuration("WEBTALLY_WATCH_DEBOUNCE", defaultWatchDebounce),
		Notify:          getEnvBool("WEBTALLY_NOTIFY", false),
	}

	if cfg.OnMalformed != "fail" && cfg.OnMalformed != "skip" {
		cfg.OnMalformed = defaultOnMalformed
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.GigabyteDivisor <= 0 {
		cfg.GigabyteDivisor = DefaultGigabyteDivisor
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory location
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "webtally", ".env"))
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
