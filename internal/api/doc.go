// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package api provides the HTTP interface of the Recipebox engine.

Routing uses chi with go-chi/cors and go-chi/httprate. Every response is
wrapped in models.APIResponse; errors carry a machine-readable code.

Endpoints:

	POST /api/v1/similarity                          score one candidate against an input recipe
	POST /api/v1/warnings                            duplicate warning for an input recipe
	POST /api/v1/interactions                        record a labeled interaction
	GET  /api/v1/weights/{userID}/{signal}           current weights
	GET  /api/v1/weights/{userID}/{signal}/metrics   latest batch training metrics
	POST /api/v1/weights/{userID}/{signal}/train     enqueue batch training (202)
	GET  /api/v1/recommendations/{userID}?limit=     personalized ranking
	GET  /api/v1/recipes/search?q=&limit=            title search over the recipe store
	GET  /api/v1/health, /live, /ready               health probes
	GET  /metrics                                    Prometheus metrics

Handler methods are split across files:
  - handlers.go: Handler struct and constructor
  - handlers_helpers.go: response, decoding and error mapping helpers
  - handlers_similarity.go: similarity, warnings and search
  - handlers_interactions.go: interaction submission
  - handlers_weights.go: weights, metrics and manual training
  - handlers_recommend.go: recommendations
  - handlers_health.go: health probes
*/
package api
