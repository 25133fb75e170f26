// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"github.com/tomtom215/recipebox/internal/metrics"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/scoring"
)

// ComputeSimilarity scores candidate against input. Empty weights use the
// default similarity weights. The result depends only on its arguments
// and the current season.
//
//nolint:gocritic // hugeParam: recipes are read-only values
func (e *Engine) ComputeSimilarity(input, candidate recipe.Recipe, weights recipe.WeightVector) scoring.Result {
	metrics.RecordSimilarity(1)
	return scoring.Score(e.extractor.Extract(input, candidate), e.similarityWeights(weights))
}

// SimilarMatches scores every candidate and returns those at or above
// reporting, best first, truncated to the configured top K. A
// non-positive reporting uses the configured threshold. Candidates with
// input's ID are skipped.
//
//nolint:gocritic // hugeParam: recipes are read-only values
func (e *Engine) SimilarMatches(input recipe.Recipe, candidates []recipe.Recipe, weights recipe.WeightVector, reporting float64) []scoring.Match {
	if reporting <= 0 {
		reporting = e.cfg.Warning.Reporting
	}
	w := e.similarityWeights(weights)

	matches := make([]scoring.Match, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		if input.ID != "" && c.ID == input.ID {
			continue
		}
		res := scoring.Score(e.extractor.Extract(input, c), w)
		matches = append(matches, scoring.MatchFor(c, res))
	}
	metrics.RecordSimilarity(len(matches))
	return scoring.TopMatches(matches, reporting, e.cfg.Warning.TopK)
}

// GenerateWarning returns a duplicate warning for input, or nil when no
// candidate reaches the moderate threshold.
//
//nolint:gocritic // hugeParam: recipes are read-only values
func (e *Engine) GenerateWarning(input recipe.Recipe, candidates []recipe.Recipe, weights recipe.WeightVector, reporting float64) *scoring.Warning {
	w := e.cfg.Warning.BuildWarning(e.SimilarMatches(input, candidates, weights, reporting))
	if w == nil {
		metrics.RecordWarning("")
	} else {
		metrics.RecordWarning(string(w.Level))
	}
	return w
}

func (e *Engine) similarityWeights(w recipe.WeightVector) recipe.WeightVector {
	if len(w) == 0 {
		return e.cfg.DefaultWeights[recipe.SignalSimilarity]
	}
	return w
}
