// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/recipebox/config.yaml",
	"/etc/recipebox/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvFile is read into the environment before env vars are applied.
const DotEnvFile = ".env"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8088,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Store: StoreConfig{
			Driver:          DriverBadger,
			BadgerPath:      "/data/recipebox/badger",
			DuckDBPath:      "/data/recipebox/recipebox.duckdb",
			PostgresDSN:     "",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Enabled:   false,
			Addr:      "127.0.0.1:6379",
			KeyPrefix: "recipebox:weights:",
			TTL:       10 * time.Minute,
		},
		Candidates: CandidatesConfig{
			URL:                "", // Recipe store by default
			Timeout:            5 * time.Second,
			RatePerSecond:      5,
			Burst:              5,
			BreakerFailures:    5,
			BreakerMaxRequests: 1,
			BreakerInterval:    time.Minute,
			BreakerTimeout:     30 * time.Second,
		},
		Recommend: RecommendConfig{
			WarningHigh:          0.6,
			WarningModerate:      0.3,
			WarningReporting:     0.2,
			WarningTopK:          5,
			TimeToleranceMinutes: 15,
			LearningRate:         0.05,
			MinWeight:            0.01,
			MaxWeight:            0.9,
			MinInteractions:      10,
			BatchEnabled:         true,
			RetrainEvery:         10,
			BatchMaxSamples:      100,
			BatchEpochs:          100,
			BatchLearningRate:    0.05,
			TrainTimeout:         30 * time.Second,
			TrainQueueSize:       64,
			TrainWorkers:         1,
			RetrainInterval:      6 * time.Hour,
			DefaultLimit:         10,
			MaxLimit:             50,
			FetchTimeout:         5 * time.Second,
			CandidateBatch:       50,
			HistoryLimit:         200,
			DecayLambda:          0.05,
			RankWorkers:          4,
			ProfileCacheTTL:      5 * time.Minute,
			DedupTTL:             24 * time.Hour,
			DedupCapacity:        10000,
			CacheCleanupInterval: time.Minute,
		},
		Events: EventsConfig{
			BufferSize:           256,
			RetryMaxRetries:      3,
			RetryInitialInterval: 100 * time.Millisecond,
			CloseTimeout:         10 * time.Second,
			ThrottlePerSecond:    0, // Unlimited
		},
		Snapshots: SnapshotsConfig{
			Enabled: true,
			Dir:     "/data/recipebox/snapshots",
			Keep:    5,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			MaxBodyBytes:      1 << 20, // 1MB
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting, including values from .env
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from defaults or YAML)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_read_timeout":  "server.read_timeout",
	"http_write_timeout": "server.write_timeout",
	"http_idle_timeout":  "server.idle_timeout",
	"shutdown_timeout":   "server.shutdown_timeout",
	"environment":        "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Store
	"store_driver":            "store.driver",
	"badger_path":             "store.badger_path",
	"duckdb_path":             "store.duckdb_path",
	"postgres_dsn":            "store.postgres_dsn",
	"store_max_open_conns":    "store.max_open_conns",
	"store_max_idle_conns":    "store.max_idle_conns",
	"store_conn_max_lifetime": "store.conn_max_lifetime",
	"store_seed_path":         "store.seed_path",

	// Redis
	"redis_enabled":    "redis.enabled",
	"redis_addr":       "redis.addr",
	"redis_password":   "redis.password",
	"redis_db":         "redis.db",
	"redis_key_prefix": "redis.key_prefix",
	"redis_ttl":        "redis.ttl",

	// Candidate source
	"candidates_url":              "candidates.url",
	"candidates_api_key":          "candidates.api_key",
	"candidates_timeout":          "candidates.timeout",
	"candidates_rate_per_second":  "candidates.rate_per_second",
	"candidates_burst":            "candidates.burst",
	"candidates_breaker_failures": "candidates.breaker_failures",
	"candidates_breaker_timeout":  "candidates.breaker_timeout",

	// Recommendation engine
	"warning_high_threshold":      "recommend.warning_high",
	"warning_moderate_threshold":  "recommend.warning_moderate",
	"warning_reporting_threshold": "recommend.warning_reporting",
	"online_learning_rate":        "recommend.learning_rate",
	"min_interactions":            "recommend.min_interactions",
	"batch_enabled":               "recommend.batch_enabled",
	"retrain_every":               "recommend.retrain_every",
	"train_timeout":               "recommend.train_timeout",
	"train_queue_size":            "recommend.train_queue_size",
	"train_workers":               "recommend.train_workers",
	"retrain_interval":            "recommend.retrain_interval",
	"recommend_default_limit":     "recommend.default_limit",
	"recommend_max_limit":         "recommend.max_limit",
	"candidate_fetch_timeout":     "recommend.fetch_timeout",
	"profile_cache_ttl":           "recommend.profile_cache_ttl",
	"dedup_ttl":                   "recommend.dedup_ttl",

	// Snapshots
	"snapshots_enabled": "snapshots.enabled",
	"snapshots_dir":     "snapshots.dir",
	"snapshots_keep":    "snapshots.keep",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"max_body_bytes":      "security.max_body_bytes",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - STORE_DRIVER -> store.driver
//   - MIN_INTERACTIONS -> recommend.min_interactions
//
// Unmapped variables return "" and are skipped so unrelated environment
// variables never leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
