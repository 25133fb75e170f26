// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package models defines the HTTP request and response structures for Recipebox.

Key Components:

  - APIResponse: Standardized response wrapper used by every endpoint
  - APIError: Machine-readable error code plus human-readable message
  - Request DTOs: SimilarityRequest, WarningRequest, InteractionRequest
  - Response DTOs: WeightsResponse, TrainResponse, InteractionResponse

Request types carry go-playground/validator tags that are checked by the
api package through internal/validation before any engine call. Domain types
(recipes, weight vectors, scoring results) live in internal/recipe and
internal/recommend; this package only wraps them for the wire.
*/
package models
