// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recipe

import "time"

// Difficulty is the self-reported preparation difficulty of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is empty or one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Nutrition holds per-serving nutrition facts.
type Nutrition struct {
	Calories      float64 `json:"calories" yaml:"calories"`
	Protein       float64 `json:"protein" yaml:"protein"`
	Fat           float64 `json:"fat" yaml:"fat"`
	Carbohydrates float64 `json:"carbohydrates" yaml:"carbohydrates"`
}

// Recipe is a recipe as seen by the scoring engine. The engine never
// mutates recipes; they are owned by the recipe store.
type Recipe struct {
	ID          string   `json:"id" yaml:"id" validate:"required,max=128"`
	Title       string   `json:"title" yaml:"title" validate:"max=512"`
	Ingredients []string `json:"ingredients,omitempty" yaml:"ingredients,omitempty" validate:"max=500"`

	// Cuisine is optional. An empty cuisine never matches.
	Cuisine string `json:"cuisine,omitempty" yaml:"cuisine,omitempty"`

	Tags  []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Diets []string `json:"diets,omitempty" yaml:"diets,omitempty"`

	// ReadyInMinutes is the total preparation time. Zero means unknown.
	ReadyInMinutes int `json:"ready_in_minutes,omitempty" yaml:"ready_in_minutes,omitempty" validate:"gte=0"`

	Difficulty    Difficulty `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	CookingStyles []string   `json:"cooking_styles,omitempty" yaml:"cooking_styles,omitempty"`
	Seasons       []string   `json:"seasons,omitempty" yaml:"seasons,omitempty"`
	Nutrition     *Nutrition `json:"nutrition,omitempty" yaml:"nutrition,omitempty"`

	// Source identifies where the recipe came from ("user", "import", or
	// the name of an external catalog).
	Source    string    `json:"source,omitempty" yaml:"source,omitempty"`
	CreatedBy string    `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Filter narrows a recipe store query. Empty fields match everything.
// Slice fields match a recipe that shares at least one value.
type Filter struct {
	Cuisines      []string
	Tags          []string
	Diets         []string
	CookingStyles []string
	ExcludeIDs    []string
	Limit         int
}

// Empty reports whether the filter has no constraints besides Limit.
func (f Filter) Empty() bool {
	return len(f.Cuisines) == 0 && len(f.Tags) == 0 && len(f.Diets) == 0 &&
		len(f.CookingStyles) == 0 && len(f.ExcludeIDs) == 0
}
