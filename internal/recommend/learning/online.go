// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package learning

import (
	"fmt"
	"math"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// NeutralTarget is the target assigned to unknown decision labels.
const NeutralTarget = 0.5

// TargetFor maps a decision label to a regression target.
func TargetFor(d recipe.Decision) float64 {
	switch d {
	case recipe.DecisionIgnored:
		return 0.3
	case recipe.DecisionViewed:
		return 0.6
	case recipe.DecisionUsedAutofill, recipe.DecisionAccepted:
		return 0.9
	case recipe.DecisionLiked, recipe.DecisionSaved:
		return 1.0
	case recipe.DecisionDismissed:
		return 0.1
	default:
		return NeutralTarget
	}
}

// OnlineConfig controls single-step updates.
type OnlineConfig struct {
	LearningRate float64 `json:"learning_rate"`
	MinWeight    float64 `json:"min_weight"`
	MaxWeight    float64 `json:"max_weight"`
}

// DefaultOnlineConfig returns the production defaults.
func DefaultOnlineConfig() OnlineConfig {
	return OnlineConfig{
		LearningRate: 0.05,
		MinWeight:    0.01,
		MaxWeight:    0.9,
	}
}

// Validate checks the configuration.
func (c OnlineConfig) Validate() error {
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0,1], got %f", c.LearningRate)
	}
	if c.MinWeight < 0 || c.MinWeight >= c.MaxWeight {
		return fmt.Errorf("weight bounds must satisfy 0 <= min (%f) < max (%f)", c.MinWeight, c.MaxWeight)
	}
	return nil
}

// OnlineUpdate applies one gradient step toward target. Only keys present
// in both current and features move, and only moved weights are clamped.
// A zero error returns an unchanged copy of current.
func OnlineUpdate(current recipe.WeightVector, features recipe.FeatureVector, predicted, target float64, cfg OnlineConfig) recipe.WeightVector {
	next := current.Clone()

	errTerm := target - predicted
	if errTerm == 0 || math.IsNaN(errTerm) || math.IsInf(errTerm, 0) {
		return next
	}

	for k, w := range current {
		f, ok := features[k]
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		next[k] = clamp(w+2*cfg.LearningRate*errTerm*f, cfg.MinWeight, cfg.MaxWeight)
	}
	return next
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
