// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package ranking

import (
	"fmt"
	"math"
)

// Config controls profile building and blending.
type Config struct {
	LikeBlend float64 `json:"like_blend"`
	SaveBlend float64 `json:"save_blend"`

	// DecayLambda is the per-day exponential decay rate of history.
	DecayLambda float64 `json:"decay_lambda"`

	SaveStrength float64 `json:"save_strength"`
	LikeStrength float64 `json:"like_strength"`
	ViewStrength float64 `json:"view_strength"`

	// HistoryLimit caps how many interactions feed the profile.
	HistoryLimit int `json:"history_limit"`

	// Workers bounds concurrent candidate scoring.
	Workers int `json:"workers"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		LikeBlend:    0.6,
		SaveBlend:    0.4,
		DecayLambda:  0.05,
		SaveStrength: 2,
		LikeStrength: 1,
		ViewStrength: 1,
		HistoryLimit: 200,
		Workers:      4,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.LikeBlend < 0 || c.SaveBlend < 0 {
		return fmt.Errorf("blend weights must be non-negative")
	}
	if math.Abs(c.LikeBlend+c.SaveBlend-1) > 1e-9 {
		return fmt.Errorf("like_blend + save_blend must equal 1, got %f", c.LikeBlend+c.SaveBlend)
	}
	if c.DecayLambda < 0 {
		return fmt.Errorf("decay_lambda must be non-negative, got %f", c.DecayLambda)
	}
	if c.SaveStrength < 0 || c.LikeStrength < 0 || c.ViewStrength < 0 {
		return fmt.Errorf("signal strengths must be non-negative")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}
