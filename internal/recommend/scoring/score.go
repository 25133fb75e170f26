// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package scoring

import "github.com/tomtom215/recipebox/internal/recipe"

// Contribution explains one feature's part in a score.
type Contribution struct {
	Feature      recipe.Feature `json:"feature"`
	Value        float64        `json:"value"`
	Weight       float64        `json:"weight"`
	Contribution float64        `json:"contribution"`
}

// Result is a weighted score with its per-feature breakdown.
type Result struct {
	Score     float64        `json:"score"`
	Breakdown []Contribution `json:"breakdown"`
}

// Score normalizes weights and returns the weighted sum of features. A
// feature without a weight contributes nothing; a weight without a
// feature contributes nothing either but is still listed in the breakdown
// with value 0. The breakdown follows canonical feature order.
func Score(features recipe.FeatureVector, weights recipe.WeightVector) Result {
	nw := weights.Normalize()

	keys := nw.Keys()
	res := Result{Breakdown: make([]Contribution, 0, len(keys))}
	for _, k := range keys {
		v := features.Value(k)
		c := v * nw[k]
		res.Score += c
		res.Breakdown = append(res.Breakdown, Contribution{
			Feature:      k,
			Value:        v,
			Weight:       nw[k],
			Contribution: c,
		})
	}
	return res
}
