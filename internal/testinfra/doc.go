// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package testinfra provides container fixtures for integration tests.
//
// The package uses testcontainers-go to run the real backing services the
// engine talks to in production: PostgreSQL for the SQL store and Redis
// for the weight cache. Every file is behind the integration build tag:
//
//	go test -tags integration ./internal/recommend/storage/...
//
// # PostgreSQL
//
//	func TestSQLStore_Postgres(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//
//	    store, err := storage.OpenSQLStore(ctx, storage.DriverPostgres, pg.DSN, storage.DefaultSQLOptions())
//	    // ...
//	}
//
// # Redis
//
// RedisContainer exposes Addr for storage.NewRedisClient.
//
// # CI Considerations
//
// Tests call SkipIfNoDocker first so they are skipped, not failed, on
// machines without a Docker daemon. The first run pulls the images.
package testinfra
