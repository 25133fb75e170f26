// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package events carries domain events between the recommendation engine and
its background consumers over an in-process Watermill bus.

Two topics exist:

  - interaction.recorded: published after an interaction is appended
  - weights.updated: published after online or batch learning stores new
    weights

Bus wraps a gochannel Pub/Sub and JSON-encodes payloads. Router wraps a
Watermill router with recovery and retry middleware and dispatches decoded
events to typed handlers. Publishing is best effort: the engine logs a
publish failure and carries on, because consumers only maintain caches and
metrics.
*/
package events
