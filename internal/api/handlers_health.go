// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/tomtom215/recipebox/internal/models"
)

// readinessTimeout bounds each dependency probe.
const readinessTimeout = 2 * time.Second

// Health handles GET /api/v1/health with a summary of the service state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks, ready := h.runChecks(r.Context())

	data := map[string]interface{}{
		"status":           statusText(ready),
		"version":          h.version,
		"go_version":       runtime.Version(),
		"uptime":           time.Since(h.startTime).Seconds(),
		"checks":           checks,
		"training_pending": h.engine.Queue().Pending(),
	}
	if h.perf != nil {
		data["endpoints"] = h.perf.Stats()
	}
	respondSuccess(w, r, http.StatusOK, data, start)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 200 OK only if every dependency check passes, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks, ready := h.runChecks(r.Context())

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: statusText(ready),
		Data: map[string]interface{}{
			"checks":         checks,
			"ready_to_serve": ready,
			"uptime":         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
	})
}

// runChecks probes every dependency and returns "ok" or the error text
// per check.
func (h *Handler) runChecks(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(h.checks))
	ready := true
	for _, c := range h.checks {
		cctx, cancel := context.WithTimeout(ctx, readinessTimeout)
		err := c.Check(cctx)
		cancel()
		if err != nil {
			ready = false
			results[c.Name] = err.Error()
			h.logger.Warn().Err(err).Str("check", c.Name).Msg("readiness check failed")
			continue
		}
		results[c.Name] = "ok"
	}
	return results, ready
}

func statusText(ready bool) string {
	if ready {
		return "ready"
	}
	return "not_ready"
}
