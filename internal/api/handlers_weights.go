// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/recipebox/internal/models"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

// weightsPath parses and validates {userID}/{signal}. It writes the error
// response itself.
func weightsPath(w http.ResponseWriter, r *http.Request) (string, recipe.SignalType, bool) {
	req := models.WeightsRequest{
		UserID: chi.URLParam(r, "userID"),
		Signal: chi.URLParam(r, "signal"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		apiErr.Code = models.ErrCodeInvalidSignal
		if !recipe.ValidID(req.UserID) {
			apiErr.Code = models.ErrCodeInvalidUserID
		}
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return "", "", false
	}
	return req.UserID, recipe.SignalType(req.Signal), true
}

// GetWeights handles GET /api/v1/weights/{userID}/{signal}
func (h *Handler) GetWeights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, signal, ok := weightsPath(w, r)
	if !ok {
		return
	}

	respondSuccess(w, r, http.StatusOK, models.WeightsResponse{
		UserID:  userID,
		Signal:  signal,
		Weights: h.engine.GetWeights(r.Context(), userID, signal),
	}, start)
}

// GetModelMetrics handles GET /api/v1/weights/{userID}/{signal}/metrics
func (h *Handler) GetModelMetrics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, signal, ok := weightsPath(w, r)
	if !ok {
		return
	}

	m, err := h.engine.ModelMetrics(r.Context(), userID, signal)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "No batch training has completed for this model", nil)
		return
	}
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, m, start)
}

// TrainWeights handles POST /api/v1/weights/{userID}/{signal}/train
//
// The job is only enqueued; the response carries its ID.
func (h *Handler) TrainWeights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID, signal, ok := weightsPath(w, r)
	if !ok {
		return
	}

	job, err := h.engine.Retrain(userID, signal)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	h.logger.Info().
		Str("job_id", job.ID).
		Str("user_id", userID).
		Str("signal", string(signal)).
		Msg("manual training enqueued")

	respondSuccess(w, r, http.StatusAccepted, models.TrainResponse{
		JobID:      job.ID,
		UserID:     userID,
		Signal:     signal,
		EnqueuedAt: job.EnqueuedAt,
	}, start)
}
