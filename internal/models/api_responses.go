// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"score": 0.82, "breakdown": [...]},
//	  "metadata": {
//	    "timestamp": "2026-07-10T12:00:00Z",
//	    "query_time_ms": 3
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "user_id is required",
//	    "details": {"field": "user_id"}
//	  },
//	  "metadata": {"timestamp": "2026-07-10T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters or body
//   - INVALID_USER_ID: Malformed user identifier in the path
//   - INVALID_SIGNAL: Unknown signal or a signal without a model
//   - NOT_FOUND: Resource doesn't exist
//   - QUEUE_FULL: Training queue has no free slot
//   - STORE_UNAVAILABLE: Persistence backend failed
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes used by the HTTP layer.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidUserID     = "INVALID_USER_ID"
	ErrCodeInvalidSignal     = "INVALID_SIGNAL"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	ErrCodeQueueFull         = "QUEUE_FULL"
	ErrCodeServiceStopping   = "SERVICE_STOPPING"
	ErrCodeStoreUnavailable  = "STORE_UNAVAILABLE"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)
