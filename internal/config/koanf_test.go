// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
)

// chdirTemp moves the test into an empty directory so no config.yaml or
// .env from the working tree is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefaultConfigIsValid(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Recommend.WarningHigh != 0.6 || cfg.Recommend.WarningModerate != 0.3 || cfg.Recommend.WarningReporting != 0.2 {
		t.Errorf("unexpected warning thresholds: %+v", cfg.Recommend)
	}
	if cfg.Recommend.MinInteractions != 10 {
		t.Errorf("MinInteractions = %d, want 10", cfg.Recommend.MinInteractions)
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("Port = %d, want 8088", cfg.Server.Port)
	}
	if cfg.Store.Driver != DriverBadger {
		t.Errorf("Driver = %q, want %q", cfg.Store.Driver, DriverBadger)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("HTTP_PORT", "9191")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("MIN_INTERACTIONS", "25")
	t.Setenv("TRAIN_TIMEOUT", "45s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WARNING_HIGH_THRESHOLD", "0.75")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Server.Port)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Driver = %q, want memory", cfg.Store.Driver)
	}
	if cfg.Recommend.MinInteractions != 25 {
		t.Errorf("MinInteractions = %d, want 25", cfg.Recommend.MinInteractions)
	}
	if cfg.Recommend.TrainTimeout != 45*time.Second {
		t.Errorf("TrainTimeout = %v, want 45s", cfg.Recommend.TrainTimeout)
	}
	if cfg.Recommend.WarningHigh != 0.75 {
		t.Errorf("WarningHigh = %v, want 0.75", cfg.Recommend.WarningHigh)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadWithKoanf_FileThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	yaml := strings.Join([]string{
		"server:",
		"  port: 7000",
		"store:",
		"  driver: memory",
		"recommend:",
		"  retrain_every: 5",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7001")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Server.Port != 7001 {
		t.Errorf("env should win over file: Port = %d", cfg.Server.Port)
	}
	if cfg.Recommend.RetrainEvery != 5 {
		t.Errorf("RetrainEvery = %d, want 5 from file", cfg.Recommend.RetrainEvery)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Driver = %q, want memory from file", cfg.Store.Driver)
	}
}

func TestLoadWithKoanf_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, DotEnvFile), []byte("SNAPSHOTS_KEEP=9\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv sets the variable in the process; restore it afterwards.
	t.Setenv("SNAPSHOTS_KEEP", "")
	os.Unsetenv("SNAPSHOTS_KEEP")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	if cfg.Snapshots.Keep != 9 {
		t.Errorf("Keep = %d, want 9 from .env", cfg.Snapshots.Keep)
	}
}

func TestLoadWithKoanf_InvalidFails(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STORE_DRIVER", "sqlite")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for unknown driver")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"POSTGRES_DSN", "store.postgres_dsn"},
		{"REDIS_ADDR", "redis.addr"},
		{"CANDIDATES_URL", "candidates.url"},
		{"ONLINE_LEARNING_RATE", "recommend.learning_rate"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.in); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestProcessSliceFields(t *testing.T) {
	t.Parallel()

	k := koanf.New(".")
	if err := k.Set("security.cors_origins", " a , ,b "); err != nil {
		t.Fatal(err)
	}
	if err := processSliceFields(k); err != nil {
		t.Fatal(err)
	}
	got := k.Strings("security.cors_origins")
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %v", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad environment", func(c *Config) { c.Server.Environment = "qa" }, "ENVIRONMENT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = DriverPostgres }, "POSTGRES_DSN"},
		{"badger without path", func(c *Config) { c.Store.BadgerPath = "" }, "BADGER_PATH"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "REDIS_ADDR"},
		{"candidates bad scheme", func(c *Config) { c.Candidates.URL = "ftp://x" }, "CANDIDATES_URL"},
		{"candidates no host", func(c *Config) { c.Candidates.URL = "http://" }, "CANDIDATES_URL"},
		{"negative retrain interval", func(c *Config) { c.Recommend.RetrainInterval = -time.Second }, "RETRAIN_INTERVAL"},
		{"snapshots without dir", func(c *Config) { c.Snapshots.Dir = "" }, "SNAPSHOTS_DIR"},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) { c.Security.RateLimitDisabled = true; c.Security.RateLimitReqs = 0 }, ""},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
