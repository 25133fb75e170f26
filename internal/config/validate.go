// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateRedis(); err != nil {
		return err
	}
	if err := c.validateCandidates(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateSnapshots(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverBadger:
		if c.Store.BadgerPath == "" {
			return fmt.Errorf("BADGER_PATH is required when STORE_DRIVER=badger")
		}
	case DriverDuckDB:
		if c.Store.DuckDBPath == "" {
			return fmt.Errorf("DUCKDB_PATH is required when STORE_DRIVER=duckdb")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be memory, badger, postgres or duckdb, got %q", c.Store.Driver)
	}
	if c.Store.MaxOpenConns < 0 || c.Store.MaxIdleConns < 0 {
		return fmt.Errorf("store connection limits must be non-negative")
	}
	return nil
}

func (c *Config) validateRedis() error {
	if !c.Redis.Enabled {
		return nil
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	if c.Redis.TTL <= 0 {
		return fmt.Errorf("REDIS_TTL must be positive, got %v", c.Redis.TTL)
	}
	return nil
}

func (c *Config) validateCandidates() error {
	if c.Candidates.URL == "" {
		return nil
	}
	if err := validateHTTPURL(c.Candidates.URL, "CANDIDATES_URL"); err != nil {
		return err
	}
	if c.Candidates.RatePerSecond < 0 {
		return fmt.Errorf("CANDIDATES_RATE_PER_SECOND must be non-negative, got %f", c.Candidates.RatePerSecond)
	}
	if c.Candidates.BreakerFailures == 0 {
		return fmt.Errorf("CANDIDATES_BREAKER_FAILURES must be positive")
	}
	return nil
}

// validateRecommend checks only what the engine cannot check itself;
// the full engine config is validated when the engine is built.
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.RetrainInterval < 0 {
		return fmt.Errorf("RETRAIN_INTERVAL must be non-negative, got %v", r.RetrainInterval)
	}
	if r.CacheCleanupInterval <= 0 {
		return fmt.Errorf("recommend.cache_cleanup_interval must be positive, got %v", r.CacheCleanupInterval)
	}
	if r.MinInteractions < 1 {
		return fmt.Errorf("MIN_INTERACTIONS must be positive, got %d", r.MinInteractions)
	}
	return nil
}

func (c *Config) validateSnapshots() error {
	if !c.Snapshots.Enabled {
		return nil
	}
	if c.Snapshots.Dir == "" {
		return fmt.Errorf("SNAPSHOTS_DIR is required when SNAPSHOTS_ENABLED=true")
	}
	if c.Snapshots.Keep < 1 {
		return fmt.Errorf("SNAPSHOTS_KEEP must be positive, got %d", c.Snapshots.Keep)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	if c.Security.MaxBodyBytes < 1 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.Security.MaxBodyBytes)
	}
	if c.IsProduction() {
		for _, o := range c.Security.CORSOrigins {
			if o == "*" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
		}
	}
	return nil
}

// validateHTTPURL validates that a URL is properly formatted for HTTP/HTTPS services.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	return nil
}
