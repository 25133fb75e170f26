// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"fmt"

	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

// Interaction is a user decision submitted for learning.
type Interaction struct {
	// EventID optionally identifies the submission. Repeated IDs within the
	// dedup window are acknowledged without being stored again.
	EventID string `json:"event_id,omitempty"`

	UserID     string   `json:"user_id"`
	SubjectIDs []string `json:"subject_ids,omitempty"`

	// Signal defaults to Decision.Signal() when empty.
	Signal   recipe.SignalType `json:"signal,omitempty"`
	Decision recipe.Decision   `json:"decision"`

	// Score is the score shown to the user. When nil the engine scores
	// Features under the current weights.
	Score *float64 `json:"score,omitempty"`

	Features recipe.FeatureVector `json:"features"`
}

// normalize fills the derived signal and validates the interaction.
//
//nolint:gocritic // hugeParam: interaction is completed on a copy
func (in Interaction) normalize() (Interaction, error) {
	if !recipe.ValidID(in.UserID) {
		return in, fmt.Errorf("%w: invalid user_id %q", ErrInvalidInteraction, in.UserID)
	}
	if in.Decision == "" {
		return in, fmt.Errorf("%w: decision is required", ErrInvalidInteraction)
	}
	if in.Signal == "" {
		in.Signal = in.Decision.Signal()
	}
	if !in.Signal.Valid() {
		return in, fmt.Errorf("%w: unknown signal %q", ErrInvalidInteraction, in.Signal)
	}
	for _, id := range in.SubjectIDs {
		if !recipe.ValidID(id) {
			return in, fmt.Errorf("%w: invalid subject id %q", ErrInvalidInteraction, id)
		}
	}
	// The prediction, the stored record and the online update all read
	// this one vector.
	in.Features = in.Features.Sanitize()
	return in, nil
}

// Outcome reports what RecordInteraction did.
type Outcome struct {
	// Recorded is true when the interaction is stored, including
	// duplicates stored by an earlier submission.
	Recorded bool `json:"recorded"`

	// Duplicate is true when EventID was already seen.
	Duplicate bool `json:"duplicate,omitempty"`

	// InteractionID is the stored record ID.
	InteractionID string `json:"interaction_id,omitempty"`

	// Count is the number of stored interactions for (user, signal).
	Count int `json:"count,omitempty"`

	// Learned is true when an online update was persisted.
	Learned bool `json:"learned"`

	// NewWeights holds the updated weights when Learned is true.
	NewWeights recipe.WeightVector `json:"new_weights,omitempty"`

	// Training is the batch job this interaction scheduled, if any.
	Training *Job `json:"-"`

	// Err explains why Recorded is false.
	Err error `json:"-"`
}

// TrainResult is a completed batch training run.
type TrainResult struct {
	Key     storage.Key         `json:"key"`
	Weights recipe.WeightVector `json:"weights"`
	Metrics recipe.ModelMetrics `json:"metrics"`
}
