// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package config provides centralized configuration management for Recipebox.

# Configuration Sources

Configuration is layered with Koanf v2, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, or the first of DefaultConfigPaths
 3. Environment variables, through an explicit mapping table

A .env file in the working directory is read into the process environment
before layer 3 when present. Variables already set in the environment win.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT
  - SHUTDOWN_TIMEOUT, ENVIRONMENT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Store:
  - STORE_DRIVER: memory, badger, postgres or duckdb (default: badger)
  - BADGER_PATH, DUCKDB_PATH, POSTGRES_DSN
  - STORE_MAX_OPEN_CONNS, STORE_MAX_IDLE_CONNS, STORE_CONN_MAX_LIFETIME
  - STORE_SEED_PATH: YAML recipes loaded at startup

Redis weight cache:
  - REDIS_ENABLED, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
  - REDIS_KEY_PREFIX, REDIS_TTL

Candidate source:
  - CANDIDATES_URL (empty: candidates come from the recipe store)
  - CANDIDATES_API_KEY, CANDIDATES_TIMEOUT
  - CANDIDATES_RATE_PER_SECOND, CANDIDATES_BURST
  - CANDIDATES_BREAKER_FAILURES, CANDIDATES_BREAKER_TIMEOUT

Recommendation engine:
  - WARNING_HIGH_THRESHOLD, WARNING_MODERATE_THRESHOLD, WARNING_REPORTING_THRESHOLD
  - ONLINE_LEARNING_RATE, MIN_INTERACTIONS, BATCH_ENABLED, RETRAIN_EVERY
  - TRAIN_TIMEOUT, TRAIN_QUEUE_SIZE, TRAIN_WORKERS, RETRAIN_INTERVAL
  - RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT, CANDIDATE_FETCH_TIMEOUT
  - PROFILE_CACHE_TTL, DEDUP_TTL

Snapshots:
  - SNAPSHOTS_ENABLED, SNAPSHOTS_DIR, SNAPSHOTS_KEEP

Security:
  - CORS_ORIGINS (comma separated)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - MAX_BODY_BYTES

# Usage

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
*/
package config
