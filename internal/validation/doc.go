// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator with the custom tags the
// API request types need and translates failures into the VALIDATION_ERROR
// format used by every endpoint.
//
// # Custom Tags
//
//   - entity_id: user and recipe identifiers (letters, digits and _.@-, at most 128)
//   - signal: one of similarity, like, save, view
//   - learned_signal: a signal with its own weight vector (similarity, like, save)
//   - decision: one of the known interaction decisions
//   - unit_interval: a finite number in [0, 1]
//
// # Usage
//
//	type InteractionRequest struct {
//	    UserID   string `validate:"required,entity_id"`
//	    Decision string `validate:"required,decision"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
