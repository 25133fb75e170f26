// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package features

import (
	"strings"
	"time"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// Extractor computes feature vectors. It holds no mutable state and is
// safe for concurrent use.
type Extractor struct {
	cfg Config
	now func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the clock used by the season feature.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// NewExtractor creates an extractor. An invalid config falls back to
// DefaultConfig so extraction never fails.
func NewExtractor(cfg Config, opts ...Option) *Extractor {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	e := &Extractor{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the extractor's configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Extract compares input (the recipe being created or viewed) with
// candidate and returns every canonical feature.
//
//nolint:gocritic // hugeParam: recipes are read-only values at the API boundary
func (e *Extractor) Extract(input, candidate recipe.Recipe) recipe.FeatureVector {
	return recipe.FeatureVector{
		recipe.FeatureTitle:        TitleSimilarity(input.Title, candidate.Title),
		recipe.FeatureIngredients:  Jaccard(input.Ingredients, candidate.Ingredients),
		recipe.FeatureCuisine:      CuisineMatch(input.Cuisine, candidate.Cuisine),
		recipe.FeatureTime:         e.TimeMatch(input.ReadyInMinutes, candidate.ReadyInMinutes),
		recipe.FeatureTags:         Overlap(input.Tags, candidate.Tags),
		recipe.FeatureCookingStyle: Overlap(input.CookingStyles, candidate.CookingStyles),
		recipe.FeatureSeason:       e.SeasonMatch(candidate.Seasons),
		recipe.FeatureDietary:      Overlap(input.Diets, candidate.Diets),
	}
}

// CuisineMatch is 1 for a case-insensitive match and 0 otherwise,
// including when either cuisine is missing.
func CuisineMatch(a, b string) float64 {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}
	if strings.EqualFold(a, b) {
		return 1
	}
	return 0
}

// TimeMatch is 1 when both ready times are known and differ by no more
// than the configured tolerance.
func (e *Extractor) TimeMatch(a, b int) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff <= e.cfg.TimeToleranceMinutes {
		return 1
	}
	return 0
}

// SeasonMatch is 1 when seasons include the season of the current month.
func (e *Extractor) SeasonMatch(seasons []string) float64 {
	if InSeason(seasons, SeasonOf(e.now())) {
		return 1
	}
	return 0
}
