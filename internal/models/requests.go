// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package models

import (
	"time"

	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/scoring"
)

// SimilarityRequest scores one candidate against an input recipe. The
// input is usually a draft without an ID, so recipes are not validated.
// When Weights is empty and UserID is set, the user's similarity weights
// are used; otherwise the defaults.
type SimilarityRequest struct {
	UserID    string              `json:"user_id,omitempty" validate:"omitempty,entity_id"`
	Input     recipe.Recipe       `json:"input" validate:"-"`
	Candidate recipe.Recipe       `json:"candidate" validate:"-"`
	Weights   recipe.WeightVector `json:"weights,omitempty"`
}

// WarningRequest asks for a duplicate warning for Input. An empty
// Candidates list compares against the recipe store.
type WarningRequest struct {
	UserID     string          `json:"user_id,omitempty" validate:"omitempty,entity_id"`
	Input      recipe.Recipe   `json:"input" validate:"-"`
	Candidates []recipe.Recipe `json:"candidates,omitempty" validate:"max=500,dive"`

	// ReportingThreshold overrides the configured reporting cutoff.
	ReportingThreshold float64 `json:"reporting_threshold,omitempty" validate:"omitempty,unit_interval"`
}

// WarningResponse wraps a possibly absent warning.
type WarningResponse struct {
	Warning  *scoring.Warning `json:"warning"`
	Compared int              `json:"compared"`
}

// InteractionRequest is a labeled interaction submitted by a client.
type InteractionRequest struct {
	EventID    string               `json:"event_id,omitempty" validate:"omitempty,max=128"`
	UserID     string               `json:"user_id" validate:"required,entity_id"`
	SubjectIDs []string             `json:"subject_ids,omitempty" validate:"max=20,dive,entity_id"`
	Signal     string               `json:"signal,omitempty" validate:"omitempty,signal"`
	Decision   string               `json:"decision" validate:"required,decision"`
	Score      *float64             `json:"score,omitempty" validate:"omitempty,unit_interval"`
	Features   recipe.FeatureVector `json:"features"`
}

// InteractionResponse reports what happened to a submitted interaction.
type InteractionResponse struct {
	Recorded      bool                `json:"recorded"`
	Duplicate     bool                `json:"duplicate,omitempty"`
	InteractionID string              `json:"interaction_id,omitempty"`
	Count         int                 `json:"count,omitempty"`
	Learned       bool                `json:"learned"`
	NewWeights    recipe.WeightVector `json:"new_weights,omitempty"`
	TrainingJobID string              `json:"training_job_id,omitempty"`
}

// WeightsRequest is the path of the weights endpoints.
type WeightsRequest struct {
	UserID string `json:"user_id" validate:"required,entity_id"`
	Signal string `json:"signal" validate:"required,learned_signal"`
}

// WeightsResponse returns the current weights for a (user, signal) pair.
type WeightsResponse struct {
	UserID  string              `json:"user_id"`
	Signal  recipe.SignalType   `json:"signal"`
	Weights recipe.WeightVector `json:"weights"`
}

// TrainResponse acknowledges an enqueued batch training job.
type TrainResponse struct {
	JobID      string            `json:"job_id"`
	UserID     string            `json:"user_id"`
	Signal     recipe.SignalType `json:"signal"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}

// RecommendationsRequest holds the query of the recommendations endpoint.
type RecommendationsRequest struct {
	UserID string `json:"user_id" validate:"required,entity_id"`
	Limit  int    `json:"limit" validate:"gte=0,lte=1000"`
}

// SearchRequest holds the query of the recipe search endpoint.
type SearchRequest struct {
	Query    string   `json:"q" validate:"required,max=256"`
	Limit    int      `json:"limit" validate:"gte=0,lte=1000"`
	Cuisines []string `json:"cuisine,omitempty" validate:"max=20"`
	Tags     []string `json:"tag,omitempty" validate:"max=20"`
	Diets    []string `json:"diet,omitempty" validate:"max=20"`
}
