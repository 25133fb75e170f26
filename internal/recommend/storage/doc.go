// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package storage defines the persistence contracts consumed by the
// recommendation engine and provides implementations for them.
//
// # Contracts
//
//   - RecipeStore: get by ID, batch get, filtered query.
//   - WeightStore: one weight vector per (user, signal), overwritten in place.
//   - InteractionStore: append-only learning samples with count and
//     most-recent-N reads.
//   - MetricsStore: latest batch training metrics per (user, signal).
//
// # Implementations
//
//   - MemoryStore: in-process maps, used by tests and the "memory" driver.
//   - BadgerStore: embedded BadgerDB, the default durable driver.
//   - SQLStore: database/sql over PostgreSQL (lib/pq) or DuckDB.
//   - RedisWeightCache: read-through cache in front of any WeightStore.
//   - SnapshotStore: versioned gzip+gob files of trained weights.
//
// Every store returns ErrNotFound for missing single-key reads so callers
// can fall back to defaults with errors.Is.
package storage
