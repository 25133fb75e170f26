// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/recipebox/internal/logging"
	"github.com/tomtom215/recipebox/internal/models"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
	"github.com/tomtom215/recipebox/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondSuccess wraps data in the success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondErrorDetails(w, status, &models.APIError{Code: code, Message: message}, err)
}

func respondErrorDetails(w http.ResponseWriter, status int, apiErr *models.APIError, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(apiErr.Code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: apiErr,
	})
}

// respondEngineError maps engine and store errors to HTTP statuses.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidInteraction):
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, recommend.ErrNoModel):
		respondError(w, http.StatusBadRequest, models.ErrCodeInvalidSignal, err.Error(), nil)
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound, "Resource not found", nil)
	case errors.Is(err, recommend.ErrQueueFull):
		respondError(w, http.StatusTooManyRequests, models.ErrCodeQueueFull, "Training queue is full, retry later", err)
	case errors.Is(err, recommend.ErrQueueClosed):
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeServiceStopping, "Training is not accepting jobs", err)
	case errors.Is(err, recommend.ErrStoreUnavailable):
		respondError(w, http.StatusServiceUnavailable, models.ErrCodeStoreUnavailable, "Storage is temporarily unavailable", err)
	default:
		respondError(w, http.StatusInternalServerError, models.ErrCodeInternal, "Internal error", err)
	}
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeJSON reads a bounded JSON body into v. It writes the error
// response itself and reports whether decoding succeeded.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, http.StatusRequestEntityTooLarge, models.ErrCodeValidation,
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), nil)
			return false
		}
		respondError(w, http.StatusBadRequest, models.ErrCodeInvalidJSON, "Request body is not valid JSON", nil)
		return false
	}
	return true
}

// validateWeights rejects client-supplied weights that would produce a
// non-finite or meaningless score.
func validateWeights(w recipe.WeightVector) *models.APIError {
	for f, v := range w {
		if !f.Known() {
			return &models.APIError{
				Code:    models.ErrCodeValidation,
				Message: fmt.Sprintf("unknown feature %q", f),
				Details: map[string]interface{}{"field": "weights"},
			}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return &models.APIError{
				Code:    models.ErrCodeValidation,
				Message: fmt.Sprintf("weight for %q must be a non-negative number", f),
				Details: map[string]interface{}{"field": "weights"},
			}
		}
	}
	return nil
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// parseCommaSeparated parses a comma-separated string into a slice
func parseCommaSeparated(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
