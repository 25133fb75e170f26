// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package features

import (
	"strings"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// Profile is an accumulated preference profile. Each token map holds
// non-negative weights; Normalize scales every map to sum to 1.
type Profile struct {
	Tags          map[string]float64 `json:"tags"`
	Ingredients   map[string]float64 `json:"ingredients"`
	CookingStyles map[string]float64 `json:"cooking_styles"`
	Cuisines      map[string]float64 `json:"cuisines"`
	Diets         map[string]float64 `json:"diets"`

	// AvgReadyMinutes is the weighted mean ready time of the history.
	AvgReadyMinutes float64 `json:"avg_ready_minutes"`
	readyWeight     float64

	// Recipes counts the history entries folded into the profile.
	Recipes int `json:"recipes"`
}

// NewProfile returns an empty profile.
func NewProfile() *Profile {
	return &Profile{
		Tags:          make(map[string]float64),
		Ingredients:   make(map[string]float64),
		CookingStyles: make(map[string]float64),
		Cuisines:      make(map[string]float64),
		Diets:         make(map[string]float64),
	}
}

// Empty reports whether nothing has been added.
func (p *Profile) Empty() bool {
	return p == nil || p.Recipes == 0
}

// Add folds r into the profile with the given weight.
//
//nolint:gocritic // hugeParam: recipe passed by value for clarity
func (p *Profile) Add(r recipe.Recipe, weight float64) {
	if weight <= 0 {
		return
	}
	addTokens(p.Tags, r.Tags, weight)
	addTokens(p.Ingredients, r.Ingredients, weight)
	addTokens(p.CookingStyles, r.CookingStyles, weight)
	addTokens(p.Diets, r.Diets, weight)
	if c := strings.ToLower(strings.TrimSpace(r.Cuisine)); c != "" {
		p.Cuisines[c] += weight
	}
	if r.ReadyInMinutes > 0 {
		total := p.AvgReadyMinutes*p.readyWeight + float64(r.ReadyInMinutes)*weight
		p.readyWeight += weight
		p.AvgReadyMinutes = total / p.readyWeight
	}
	p.Recipes++
}

func addTokens(m map[string]float64, values []string, weight float64) {
	for v := range NormalizeSet(values) {
		m[v] += weight
	}
}

// Normalize scales every token map to sum to 1.
func (p *Profile) Normalize() {
	normalizeMap(p.Tags)
	normalizeMap(p.Ingredients)
	normalizeMap(p.CookingStyles)
	normalizeMap(p.Cuisines)
	normalizeMap(p.Diets)
}

func normalizeMap(m map[string]float64) {
	var sum float64
	for _, v := range m {
		sum += v
	}
	if sum > 0 {
		for k := range m {
			m[k] /= sum
		}
	}
}

// profileMatch sums the profile weight of each distinct candidate token.
// With a normalized profile the result lies in [0, 1].
func profileMatch(preferences map[string]float64, values []string) float64 {
	if len(preferences) == 0 || len(values) == 0 {
		return 0
	}
	var total float64
	for v := range NormalizeSet(values) {
		total += preferences[v]
	}
	if total > 1 {
		total = 1
	}
	return total
}

// ExtractProfile compares candidate against a normalized profile. The
// title feature has no profile counterpart and is omitted.
//
//nolint:gocritic // hugeParam: recipe passed by value for clarity
func (e *Extractor) ExtractProfile(p *Profile, candidate recipe.Recipe) recipe.FeatureVector {
	fv := recipe.FeatureVector{
		recipe.FeatureSeason: e.SeasonMatch(candidate.Seasons),
	}
	if p.Empty() {
		fv[recipe.FeatureIngredients] = 0
		fv[recipe.FeatureTags] = 0
		fv[recipe.FeatureCuisine] = 0
		fv[recipe.FeatureCookingStyle] = 0
		fv[recipe.FeatureDietary] = 0
		fv[recipe.FeatureTime] = 0
		return fv
	}

	fv[recipe.FeatureIngredients] = profileMatch(p.Ingredients, candidate.Ingredients)
	fv[recipe.FeatureTags] = profileMatch(p.Tags, candidate.Tags)
	fv[recipe.FeatureCookingStyle] = profileMatch(p.CookingStyles, candidate.CookingStyles)
	fv[recipe.FeatureDietary] = profileMatch(p.Diets, candidate.Diets)
	if candidate.Cuisine != "" {
		fv[recipe.FeatureCuisine] = profileMatch(p.Cuisines, []string{candidate.Cuisine})
	} else {
		fv[recipe.FeatureCuisine] = 0
	}
	fv[recipe.FeatureTime] = e.TimeMatch(int(p.AvgReadyMinutes+0.5), candidate.ReadyInMinutes)
	return fv
}
