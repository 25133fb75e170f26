// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package main is the entry point for the Recipebox server.

Recipebox scores recipe similarity, warns about likely duplicates, learns
per-user feature weights from interactions and ranks personalized
recommendations. The server exposes these operations over a REST API.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("recipebox")
	├── DataSupervisor ("data-layer")
	│   └── Training queue (batch refit workers)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event router (watermill consumers)
	│   ├── Retrain sweep (optional)
	│   └── Cache maintenance
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with the configured level and format
 3. Store: memory, BadgerDB, PostgreSQL or DuckDB
 4. Weight cache: optional Redis read-through cache
 5. Candidate source: external HTTP API behind a circuit breaker, or the
    recipe store
 6. Events: in-process watermill bus and router
 7. Engine: similarity, learning and ranking
 8. HTTP Server: Chi router with CORS, rate limiting and Prometheus metrics

# Configuration

Configuration is read from config.yaml (or CONFIG_PATH), then from the
environment. Common variables:

	STORE_DRIVER=badger
	BADGER_PATH=/data/recipebox
	REDIS_ENABLED=true
	REDIS_ADDR=localhost:6379
	CANDIDATES_URL=https://recipes.example.com/random
	RETRAIN_INTERVAL=6h

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests, the training queue fails pending jobs, and the event
bus and store are closed before exit.
*/
package main
