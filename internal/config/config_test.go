package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_ENV_INT"

	tests := []struct {
		name       string
		envVal     string
		defaultVal int
		want       int
	}{
		{"ValidInt", "42", 7, 42},
		{"Negative", "-3", 7, -3},
		{"Invalid", "nope", 7, 7},
		{"Empty", "", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvInt(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_ENV_FLOAT"

	tests := []struct {
		name       string
		envVal     string
		defaultVal float64
		want       float64
	}{
		{"ValidFloat", "1048576.0", 1.0, 1048576.0},
		{"Integerish", "2", 1.0, 2.0},
		{"Invalid", "abc", 1.5, 1.5},
		{"Empty", "", 1.5, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvFloat(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvFloat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		name       string
		envVal     string
		defaultVal bool
		want       bool
	}{
		{"True", "true", false, true},
		{"One", "1", false, true},
		{"False", "false", true, false},
		{"Invalid", "maybe", true, true},
		{"Empty", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvBool(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	// Basic check that it contains current directory
	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

// chdirClean moves into an empty temp dir with HOME pointed at it so
// Load cannot pick up a developer's .env by accident.
func chdirClean(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	wd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(wd) })
	os.Chdir(tmpDir)

	origHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	t.Cleanup(func() { os.Setenv("HOME", origHome) })
}

func TestLoad_Defaults(t *testing.T) {
	chdirClean(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OnsiteMarker != DefaultOnsiteMarker {
		t.Errorf("OnsiteMarker = %q, want %q", cfg.OnsiteMarker, DefaultOnsiteMarker)
	}
	if cfg.SuccessPrefix != DefaultSuccessPrefix {
		t.Errorf("SuccessPrefix = %q, want %q", cfg.SuccessPrefix, DefaultSuccessPrefix)
	}
	if cfg.TopLimit != DefaultTopLimit {
		t.Errorf("TopLimit = %d, want %d", cfg.TopLimit, DefaultTopLimit)
	}
	if cfg.GigabyteDivisor != DefaultGigabyteDivisor {
		t.Errorf("GigabyteDivisor = %v, want %v", cfg.GigabyteDivisor, DefaultGigabyteDivisor)
	}
	if cfg.RequestIndex != 5 || cfg.StatusIndex != 6 || cfg.BytesIndex != 7 || cfg.ReferrerIndex != 8 {
		t.Errorf("column indices = %d/%d/%d/%d, want 5/6/7/8",
			cfg.RequestIndex, cfg.StatusIndex, cfg.BytesIndex, cfg.ReferrerIndex)
	}
	if cfg.OnMalformed != "fail" {
		t.Errorf("OnMalformed = %q, want fail", cfg.OnMalformed)
	}
	if cfg.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", cfg.Workers)
	}
	if cfg.Notify {
		t.Error("Notify should default to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	chdirClean(t)

	vars := map[string]string{
		"WEBTALLY_LOG_DIR":       "/var/log/web",
		"WEBTALLY_ONSITE_MARKER": "mysite.net",
		"WEBTALLY_TOP_LIMIT":     "5",
		"WEBTALLY_WORKERS":       "2",
		"WEBTALLY_ON_MALFORMED":  "skip",
		"WEBTALLY_NOTIFY":        "true",
	}
	for k, v := range vars {
		os.Setenv(k, v)
		defer os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.LogDir != "/var/log/web" {
		t.Errorf("LogDir = %q, want /var/log/web", cfg.LogDir)
	}
	if cfg.OnsiteMarker != "mysite.net" {
		t.Errorf("OnsiteMarker = %q, want mysite.net", cfg.OnsiteMarker)
	}
	if cfg.TopLimit != 5 {
		t.Errorf("TopLimit = %d, want 5", cfg.TopLimit)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.OnMalformed != "skip" {
		t.Errorf("OnMalformed = %q, want skip", cfg.OnMalformed)
	}
	if !cfg.Notify {
		t.Error("Notify = false, want true")
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	chdirClean(t)

	os.Setenv("WEBTALLY_ON_MALFORMED", "explode")
	os.Setenv("WEBTALLY_WORKERS", "0")
	os.Setenv("WEBTALLY_GIGABYTE_DIVISOR", "-1")
	defer os.Unsetenv("WEBTALLY_ON_MALFORMED")
	defer os.Unsetenv("WEBTALLY_WORKERS")
	defer os.Unsetenv("WEBTALLY_GIGABYTE_DIVISOR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OnMalformed != "fail" {
		t.Errorf("OnMalformed = %q, want fail for unknown policy", cfg.OnMalformed)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1 floor", cfg.Workers)
	}
	if cfg.GigabyteDivisor != DefaultGigabyteDivisor {
		t.Errorf("GigabyteDivisor = %v, want default for non-positive value", cfg.GigabyteDivisor)
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	chdirClean(t)

	content := "WEBTALLY_ONSITE_MARKER=dotenv.example\nWEBTALLY_TOP_LIMIT=3"
	if err := os.WriteFile(".env", []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	os.Unsetenv("WEBTALLY_ONSITE_MARKER")
	os.Unsetenv("WEBTALLY_TOP_LIMIT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OnsiteMarker != "dotenv.example" {
		t.Errorf("OnsiteMarker = %q, want dotenv.example", cfg.OnsiteMarker)
	}
	if cfg.TopLimit != 3 {
		t.Errorf("TopLimit = %d, want 3", cfg.TopLimit)
	}
}
