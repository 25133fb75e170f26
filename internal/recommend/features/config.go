// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package features

import "fmt"

// Config controls the tunable parts of extraction.
type Config struct {
	// TimeToleranceMinutes is the largest ready-time difference that still
	// counts as a time match.
	TimeToleranceMinutes int `json:"time_tolerance_minutes"`

	// Search holds the containment tiers used by SearchMatch.
	Search SearchTiers `json:"search"`
}

// SearchTiers are the fixed scores assigned by SearchMatch.
type SearchTiers struct {
	Exact       float64 `json:"exact"`
	TermInTitle float64 `json:"term_in_title"`
	TitleInTerm float64 `json:"title_in_term"`
	Partial     float64 `json:"partial"`

	// MinPartialTokenLen is the shortest token considered for partial
	// containment. Shorter tokens ("a", "of") would match almost anything.
	MinPartialTokenLen int `json:"min_partial_token_len"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		TimeToleranceMinutes: 15,
		Search: SearchTiers{
			Exact:              1.0,
			TermInTitle:        0.9,
			TitleInTerm:        0.8,
			Partial:            0.7,
			MinPartialTokenLen: 3,
		},
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.TimeToleranceMinutes < 0 {
		return fmt.Errorf("time_tolerance_minutes must be non-negative, got %d", c.TimeToleranceMinutes)
	}
	tiers := []struct {
		name  string
		value float64
	}{
		{"exact", c.Search.Exact},
		{"term_in_title", c.Search.TermInTitle},
		{"title_in_term", c.Search.TitleInTerm},
		{"partial", c.Search.Partial},
	}
	for _, t := range tiers {
		if t.value < 0 || t.value > 1 {
			return fmt.Errorf("search tier %s must be in [0,1], got %f", t.name, t.value)
		}
	}
	if c.Search.Exact < c.Search.TermInTitle || c.Search.TermInTitle < c.Search.TitleInTerm ||
		c.Search.TitleInTerm < c.Search.Partial {
		return fmt.Errorf("search tiers must be non-increasing: exact >= term_in_title >= title_in_term >= partial")
	}
	if c.Search.MinPartialTokenLen < 1 {
		return fmt.Errorf("min_partial_token_len must be at least 1, got %d", c.Search.MinPartialTokenLen)
	}
	return nil
}
