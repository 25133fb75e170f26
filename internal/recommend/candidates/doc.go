// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package candidates provides the recipe sources that feed the recommendation
ranker.

A Source returns up to n candidate recipes per call. Three adapters exist:

  - StaticSource serves a fixed slice (tests, CLI fixtures)
  - StoreSource queries the local recipe store with a filter
  - HTTPSource calls an external recipe API with a client-side rate limit

ResilientSource wraps any Source in a circuit breaker so a failing upstream
is skipped quickly instead of stalling every ranking request. When the
breaker is open FetchBatch returns ErrSourceUnavailable and the ranker falls
back to its degraded mode.
*/
package candidates
