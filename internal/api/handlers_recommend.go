// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/recipebox/internal/models"
	"github.com/tomtom215/recipebox/internal/recipe"
)

// GetRecommendations handles GET /api/v1/recommendations/{userID}
// Returns personalized recommendations for a user. Candidate source
// failures degrade to the fallback ranking and still return 200.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := models.RecommendationsRequest{
		UserID: chi.URLParam(r, "userID"),
		Limit:  getIntParam(r, "limit", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		if !recipe.ValidID(req.UserID) {
			apiErr.Code = models.ErrCodeInvalidUserID
		}
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	res := h.engine.RankRecommendations(r.Context(), req.UserID, h.source, req.Limit)
	respondSuccess(w, r, http.StatusOK, res, start)
}
