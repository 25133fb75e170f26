// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/recipebox/internal/models"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend"
)

// maxWarningCandidates bounds the store scan for warnings without
// explicit candidates.
const maxWarningCandidates = 500

// similarityWeights resolves the weights for a similarity call: explicit
// weights win, then the user's learned weights, then the defaults (empty).
func (h *Handler) similarityWeights(ctx context.Context, userID string, explicit recipe.WeightVector) recipe.WeightVector {
	if len(explicit) > 0 || userID == "" {
		return explicit
	}
	return h.engine.GetWeights(ctx, userID, recipe.SignalSimilarity)
}

// Similarity handles POST /api/v1/similarity
func (h *Handler) Similarity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.SimilarityRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}
	if apiErr := validateWeights(req.Weights); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	weights := h.similarityWeights(r.Context(), req.UserID, req.Weights)
	res := h.engine.ComputeSimilarity(req.Input, req.Candidate, weights)
	respondSuccess(w, r, http.StatusOK, res, start)
}

// Warnings handles POST /api/v1/warnings
func (h *Handler) Warnings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.WarningRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	candidates := req.Candidates
	if len(candidates) == 0 && h.recipes != nil {
		filter := recipe.Filter{Limit: maxWarningCandidates}
		if req.Input.ID != "" {
			filter.ExcludeIDs = []string{req.Input.ID}
		}
		stored, err := h.recipes.QueryRecipes(r.Context(), filter)
		if err != nil {
			respondEngineError(w, recommend.ErrStoreUnavailable)
			h.logger.Warn().Err(err).Msg("warning candidate query failed")
			return
		}
		candidates = stored
	}

	weights := h.similarityWeights(r.Context(), req.UserID, nil)
	warning := h.engine.GenerateWarning(req.Input, candidates, weights, req.ReportingThreshold)

	respondSuccess(w, r, http.StatusOK, models.WarningResponse{
		Warning:  warning,
		Compared: len(candidates),
	}, start)
}

// SearchRecipes handles GET /api/v1/recipes/search
func (h *Handler) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	req := models.SearchRequest{
		Query:    q.Get("q"),
		Limit:    getIntParam(r, "limit", 0),
		Cuisines: parseCommaSeparated(q.Get("cuisine")),
		Tags:     parseCommaSeparated(q.Get("tag")),
		Diets:    parseCommaSeparated(q.Get("diet")),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	hits, err := h.engine.SearchRecipes(r.Context(), req.Query, recipe.Filter{
		Cuisines: req.Cuisines,
		Tags:     req.Tags,
		Diets:    req.Diets,
	}, req.Limit)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"query": req.Query,
		"hits":  hits,
		"count": len(hits),
	}, start)
}
