// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/recipebox/internal/models"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend"
)

// RecordInteraction handles POST /api/v1/interactions
//
// A new interaction returns 201. A duplicate event_id returns 200 with
// duplicate set; the interaction is not stored twice.
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.InteractionRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, http.StatusBadRequest, apiErr, nil)
		return
	}

	out := h.engine.RecordInteraction(r.Context(), recommend.Interaction{
		EventID:    req.EventID,
		UserID:     req.UserID,
		SubjectIDs: req.SubjectIDs,
		Signal:     recipe.SignalType(req.Signal),
		Decision:   recipe.Decision(req.Decision),
		Score:      req.Score,
		Features:   req.Features,
	})
	if out.Err != nil {
		respondEngineError(w, out.Err)
		return
	}

	resp := models.InteractionResponse{
		Recorded:      out.Recorded,
		Duplicate:     out.Duplicate,
		InteractionID: out.InteractionID,
		Count:         out.Count,
		Learned:       out.Learned,
		NewWeights:    out.NewWeights,
	}
	if out.Training != nil {
		resp.TrainingJobID = out.Training.ID
	}

	status := http.StatusCreated
	if out.Duplicate {
		status = http.StatusOK
	}
	respondSuccess(w, r, status, resp, start)
}
