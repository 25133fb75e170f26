// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recipe

import "time"

// SignalType identifies which learned model an interaction trains.
type SignalType string

const (
	// SignalSimilarity trains the duplicate-warning weights.
	SignalSimilarity SignalType = "similarity"
	// SignalLike trains the "will like" ranking weights.
	SignalLike SignalType = "like"
	// SignalSave trains the "will save" ranking weights.
	SignalSave SignalType = "save"
	// SignalView is recorded for history profiles only. It has no model.
	SignalView SignalType = "view"
)

// Learned reports whether the signal has its own weight vector.
func (s SignalType) Learned() bool {
	switch s {
	case SignalSimilarity, SignalLike, SignalSave:
		return true
	default:
		return false
	}
}

// Valid reports whether s is a known signal.
func (s SignalType) Valid() bool {
	return s.Learned() || s == SignalView
}

// Decision is the label the user attached to a scored suggestion.
type Decision string

const (
	DecisionIgnored      Decision = "ignored"
	DecisionViewed       Decision = "viewed"
	DecisionUsedAutofill Decision = "used_autofill"
	DecisionAccepted     Decision = "accepted"
	DecisionLiked        Decision = "liked"
	DecisionSaved        Decision = "saved"
	DecisionDismissed    Decision = "dismissed"
)

// Signal returns the signal a decision trains when the caller does not
// say otherwise. Warning decisions train similarity weights.
func (d Decision) Signal() SignalType {
	switch d {
	case DecisionLiked:
		return SignalLike
	case DecisionSaved:
		return SignalSave
	default:
		return SignalSimilarity
	}
}

// InteractionRecord is one immutable learning sample. Records are only
// ever appended.
type InteractionRecord struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	SubjectIDs []string      `json:"subject_ids"`
	Signal     SignalType    `json:"signal"`
	Decision   Decision      `json:"decision"`
	Features   FeatureVector `json:"features"`
	Score      float64       `json:"score"`
	Target     float64       `json:"target"`
	Timestamp  time.Time     `json:"timestamp"`
}

// FeatureImportance is the magnitude of one learned coefficient.
type FeatureImportance struct {
	Feature    Feature `json:"feature"`
	Importance float64 `json:"importance"`
}

// ModelMetrics summarizes the most recent batch training run for a
// (user, signal) pair. Each run replaces the previous metrics.
type ModelMetrics struct {
	UserID     string              `json:"user_id"`
	Signal     SignalType          `json:"signal"`
	Version    int                 `json:"version"`
	Method     string              `json:"method"`
	MSE        float64             `json:"mse"`
	R2         float64             `json:"r2"`
	Importance []FeatureImportance `json:"importance"`
	Samples    int                 `json:"samples"`
	TrainedAt  time.Time           `json:"trained_at"`
}
