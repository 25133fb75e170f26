// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package config

import "time"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// Config holds all application configuration.
//
// Configuration Categories:
//
//  1. Infrastructure: Server, Store, Redis, Events, Snapshots
//  2. Engine: Recommend, Candidates
//  3. API & Security: Security
//  4. Observability: Logging
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Store      StoreConfig      `koanf:"store"`
	Redis      RedisConfig      `koanf:"redis"`
	Candidates CandidatesConfig `koanf:"candidates"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Events     EventsConfig     `koanf:"events"`
	Snapshots  SnapshotsConfig  `koanf:"snapshots"`
	Security   SecurityConfig   `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
	Caller bool   `koanf:"caller"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver          string        `koanf:"driver"`
	BadgerPath      string        `koanf:"badger_path"`
	DuckDBPath      string        `koanf:"duckdb_path"`
	PostgresDSN     string        `koanf:"postgres_dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`

	// SeedPath is an optional YAML recipe file loaded into the store at
	// startup.
	SeedPath string `koanf:"seed_path"`
}

// RedisConfig configures the read-through weight cache.
type RedisConfig struct {
	Enabled   bool          `koanf:"enabled"`
	Addr      string        `koanf:"addr"`
	Password  string        `koanf:"password"`
	DB        int           `koanf:"db"`
	KeyPrefix string        `koanf:"key_prefix"`
	TTL       time.Duration `koanf:"ttl"`
}

// CandidatesConfig configures the external candidate source. An empty URL
// serves candidates from the recipe store.
type CandidatesConfig struct {
	URL           string        `koanf:"url"`
	APIKey        string        `koanf:"api_key"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`

	BreakerFailures    uint32        `koanf:"breaker_failures"`
	BreakerMaxRequests uint32        `koanf:"breaker_max_requests"`
	BreakerInterval    time.Duration `koanf:"breaker_interval"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout"`
}

// RecommendConfig holds the tunable engine parameters.
type RecommendConfig struct {
	// Warning thresholds
	WarningHigh      float64 `koanf:"warning_high"`
	WarningModerate  float64 `koanf:"warning_moderate"`
	WarningReporting float64 `koanf:"warning_reporting"`
	WarningTopK      int     `koanf:"warning_top_k"`

	TimeToleranceMinutes int `koanf:"time_tolerance_minutes"`

	// Online learning
	LearningRate float64 `koanf:"learning_rate"`
	MinWeight    float64 `koanf:"min_weight"`
	MaxWeight    float64 `koanf:"max_weight"`

	// Batch learning
	MinInteractions   int           `koanf:"min_interactions"`
	BatchEnabled      bool          `koanf:"batch_enabled"`
	RetrainEvery      int           `koanf:"retrain_every"`
	BatchMaxSamples   int           `koanf:"batch_max_samples"`
	BatchEpochs       int           `koanf:"batch_epochs"`
	BatchLearningRate float64       `koanf:"batch_learning_rate"`
	TrainTimeout      time.Duration `koanf:"train_timeout"`
	TrainQueueSize    int           `koanf:"train_queue_size"`
	TrainWorkers      int           `koanf:"train_workers"`

	// RetrainInterval is the period of the retrain sweep. Zero disables it.
	RetrainInterval time.Duration `koanf:"retrain_interval"`

	// Ranking
	DefaultLimit   int           `koanf:"default_limit"`
	MaxLimit       int           `koanf:"max_limit"`
	FetchTimeout   time.Duration `koanf:"fetch_timeout"`
	CandidateBatch int           `koanf:"candidate_batch"`
	HistoryLimit   int           `koanf:"history_limit"`
	DecayLambda    float64       `koanf:"decay_lambda"`
	RankWorkers    int           `koanf:"rank_workers"`

	// Caches
	ProfileCacheTTL      time.Duration `koanf:"profile_cache_ttl"`
	DedupTTL             time.Duration `koanf:"dedup_ttl"`
	DedupCapacity        int           `koanf:"dedup_capacity"`
	CacheCleanupInterval time.Duration `koanf:"cache_cleanup_interval"`
}

// EventsConfig configures the in-process event bus and router.
type EventsConfig struct {
	BufferSize           int64         `koanf:"buffer_size"`
	RetryMaxRetries      int           `koanf:"retry_max_retries"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`
	ThrottlePerSecond    int64         `koanf:"throttle_per_second"`
}

// SnapshotsConfig configures versioned weight snapshots.
type SnapshotsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	Keep    int    `koanf:"keep"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	MaxBodyBytes      int64         `koanf:"max_body_bytes"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load reads configuration from defaults, an optional config file and the
// environment. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
