// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recipe

import (
	"math"
	"sort"
)

// Feature names a single pairwise similarity dimension.
type Feature string

const (
	FeatureTitle        Feature = "title"
	FeatureIngredients  Feature = "ingredients"
	FeatureCuisine      Feature = "cuisine"
	FeatureTime         Feature = "time"
	FeatureTags         Feature = "tags"
	FeatureCookingStyle Feature = "cooking_style"
	FeatureSeason       Feature = "season"
	FeatureDietary      Feature = "dietary"
)

// FeatureOrder is the canonical column order used for design matrices,
// breakdowns and persisted importance lists.
var FeatureOrder = []Feature{
	FeatureTitle,
	FeatureIngredients,
	FeatureCuisine,
	FeatureTime,
	FeatureTags,
	FeatureCookingStyle,
	FeatureSeason,
	FeatureDietary,
}

var featureRank = func() map[Feature]int {
	m := make(map[Feature]int, len(FeatureOrder))
	for i, f := range FeatureOrder {
		m[f] = i
	}
	return m
}()

// Known reports whether f is one of the canonical features.
func (f Feature) Known() bool {
	_, ok := featureRank[f]
	return ok
}

// SortFeatures orders features canonically. Unknown features sort last,
// alphabetically.
func SortFeatures(fs []Feature) {
	sort.SliceStable(fs, func(i, j int) bool {
		ri, iok := featureRank[fs[i]]
		rj, jok := featureRank[fs[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return fs[i] < fs[j]
		}
	})
}

// FeatureVector holds per-feature similarity values in [0, 1].
type FeatureVector map[Feature]float64

// Clone returns an independent copy.
func (v FeatureVector) Clone() FeatureVector {
	out := make(FeatureVector, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// Sanitize returns a copy with non-finite values dropped and the rest
// clamped into [0, 1].
func (v FeatureVector) Sanitize() FeatureVector {
	out := make(FeatureVector, len(v))
	for k, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		out[k] = math.Max(0, math.Min(1, x))
	}
	return out
}

// Value returns v[f], treating missing and non-finite values as zero.
func (v FeatureVector) Value(f Feature) float64 {
	x, ok := v[f]
	if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// WeightVector holds non-negative per-feature weights for one
// (user, signal) pair.
type WeightVector map[Feature]float64

// Clone returns an independent copy.
func (w WeightVector) Clone() WeightVector {
	out := make(WeightVector, len(w))
	for k, x := range w {
		out[k] = x
	}
	return out
}

// Sum returns the total of all weights.
func (w WeightVector) Sum() float64 {
	var s float64
	for _, x := range w {
		s += x
	}
	return s
}

// Keys returns the weight keys in canonical order.
func (w WeightVector) Keys() []Feature {
	keys := make([]Feature, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	SortFeatures(keys)
	return keys
}

// Normalize returns a copy scaled to sum to 1.0. Negative and non-finite
// entries are treated as zero. When nothing positive remains every key
// receives 1/len(w).
func (w WeightVector) Normalize() WeightVector {
	out := make(WeightVector, len(w))
	if len(w) == 0 {
		return out
	}

	var total float64
	for k, x := range w {
		if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
			x = 0
		}
		out[k] = x
		total += x
	}

	if total <= 0 {
		equal := 1.0 / float64(len(w))
		for k := range out {
			out[k] = equal
		}
		return out
	}

	for k := range out {
		out[k] /= total
	}
	return out
}

// Finite reports whether every weight is a finite number.
func (w WeightVector) Finite() bool {
	for _, x := range w {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
