// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package metrics defines the Prometheus instrumentation for Recipebox.

Metrics are package-level promauto collectors registered with the default
registry and exposed at /metrics by the API router. Callers use the
Record* helpers rather than touching collectors directly so label sets stay
consistent.

# Available Metrics

HTTP:
  - recipebox_api_requests_total{method,endpoint,status}
  - recipebox_api_request_duration_seconds{method,endpoint}
  - recipebox_api_active_requests

Similarity:
  - recipebox_similarity_computations_total
  - recipebox_warnings_total{level}

Learning:
  - recipebox_interactions_total{signal,decision}
  - recipebox_interactions_deduplicated_total
  - recipebox_online_updates_total{signal}
  - recipebox_training_runs_total{signal,method,result}
  - recipebox_training_duration_seconds{signal}
  - recipebox_training_queue_depth
  - recipebox_weights_updated_total{method}

Ranking:
  - recipebox_ranking_duration_seconds{mode}
  - recipebox_ranking_fallbacks_total{reason}
  - recipebox_candidate_fetch_errors_total{reason}
  - recipebox_candidate_breaker_state

Infrastructure:
  - recipebox_store_errors_total{operation}
  - recipebox_cache_lookups_total{cache,result}
  - recipebox_build_info{version,go_version}

Tests read values with prometheus/testutil.
*/
package metrics
