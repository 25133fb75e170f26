// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package services provides suture.Service wrappers for Recipebox components.

Each wrapper translates a component lifecycle into suture's context-aware
Serve pattern and implements fmt.Stringer so supervisor events name it.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - http.ErrServerClosed is not a failure

Retrain Sweep (RetrainService):
  - Calls RetrainAll on an interval, enqueuing batch training for every
    (user, signal) pair with enough interactions
  - Optionally sweeps once on startup

Cache Maintenance (MaintenanceService):
  - Periodically drops expired profile and dedup cache entries

The training queue and the event router implement suture.Service
themselves and are added to the tree directly.
*/
package services
