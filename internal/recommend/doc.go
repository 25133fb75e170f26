// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package recommend is the facade over the similarity and recommendation
// engine.
//
// # Architecture
//
// The engine composes pure building blocks from its subpackages:
//
//   - features: pairwise and profile feature extraction
//   - scoring: weighted scores and duplicate warning classification
//   - learning: online gradient steps and batch least-squares fits
//   - tracker: the append-only interaction log and learning cadence
//   - ranking: history profiles and blended like/save ranking
//   - candidates: external candidate sources with breaker and rate limit
//   - storage: recipe, weight, interaction and metrics stores
//
// The Engine adds the stateful parts: per (user, signal) write locks, the
// asynchronous TrainingQueue, the history profile cache, interaction
// deduplication, domain events and metrics.
//
// # Learning
//
// Every interaction is appended to the log. Once a (user, signal) pair has
// MinInteractions samples each new interaction applies one online step to
// that pair's weights. Every RetrainEvery interactions after the threshold
// a batch job is enqueued; it refits the weights from the most recent
// samples and replaces them in a single write.
//
// # Failure Behaviour
//
// Public entry points never return storage errors to scoring callers.
// Weight reads fall back to defaults, candidate failures fall back to a
// heuristic ranking over the recipe store, and failed writes are reported
// through Outcome.Recorded.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	store := storage.NewMemoryStore()
//	engine, err := recommend.NewEngine(cfg, recommend.StoresFrom(store), logger)
//	if err != nil {
//		return err
//	}
//	warning := engine.GenerateWarning(input, existing, nil, 0)
package recommend
