// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package features

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/recipebox/internal/recipe"
)

const epsilon = 1e-9

func fixedClock(month time.Month) func() time.Time {
	return func() time.Time {
		return time.Date(2026, month, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Spaghetti Carbonara", "spaghetti carbonara"},
		{"  Mac & Cheese!!  ", "mac cheese"},
		{"Mac-n-Cheese", "macncheese"},
		{"Crème\tbrûlée", "crème brûlée"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "Beef Stew", "Beef Stew", 1, 1},
		{"case and punctuation only", "Beef-Stew!", "beef stew", 0, 1},
		{"word order ignored", "Pasta Carbonara", "Carbonara Pasta", 1, 1},
		{"shared word", "Spaghetti Carbonara", "Carbonara Pasta", 0.5, 0.99},
		{"unrelated", "Beef Tacos", "Chocolate Cake", 0, 0.3},
		{"empty left", "", "Beef Stew", 0, 0},
		{"punctuation only", "???", "Beef Stew", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TitleSimilarity(tt.a, tt.b)
			if got < tt.min-epsilon || got > tt.max+epsilon {
				t.Errorf("TitleSimilarity(%q, %q) = %f, want in [%f, %f]", tt.a, tt.b, got, tt.min, tt.max)
			}
			if rev := TitleSimilarity(tt.b, tt.a); math.Abs(rev-got) > epsilon {
				t.Errorf("not symmetric: %f vs %f", got, rev)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"crème", "creme", 1},
	}
	for _, tt := range tests {
		if got := levenshtein([]rune(tt.a), []rune(tt.b)); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"both empty", nil, nil, 1},
		{"one empty", []string{"egg"}, nil, 0},
		{"only blanks is empty", []string{" ", ""}, []string{"egg"}, 0},
		{"identical", []string{"egg", "flour"}, []string{"flour", "egg"}, 1},
		{"case and whitespace", []string{" Egg ", "FLOUR"}, []string{"egg", "flour"}, 1},
		{"duplicates collapse", []string{"egg", "egg", "milk"}, []string{"egg", "milk"}, 1},
		{"three of five", []string{"spaghetti", "eggs", "pancetta", "parmesan"}, []string{"spaghetti", "eggs", "pancetta", "cream"}, 0.6},
		{"disjoint", []string{"beef"}, []string{"chocolate"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Jaccard(tt.a, tt.b); math.Abs(got-tt.want) > epsilon {
				t.Errorf("Jaccard = %f, want %f", got, tt.want)
			}
			if got, rev := Jaccard(tt.a, tt.b), Jaccard(tt.b, tt.a); math.Abs(got-rev) > epsilon {
				t.Errorf("not symmetric: %f vs %f", got, rev)
			}
		})
	}
}

func TestJaccard_Identity(t *testing.T) {
	t.Parallel()

	sets := [][]string{
		{"a"},
		{"tomato", "basil", "garlic"},
		{"Salt", "salt", " pepper "},
	}
	for _, s := range sets {
		if got := Jaccard(s, s); got != 1 {
			t.Errorf("Jaccard(%v, %v) = %f, want 1", s, s, got)
		}
	}
}

func TestOverlap(t *testing.T) {
	t.Parallel()

	if got := Overlap(nil, nil); got != 0 {
		t.Errorf("Overlap(nil, nil) = %f, want 0", got)
	}
	if got := Overlap([]string{"vegan"}, []string{"Vegan", "gluten-free"}); math.Abs(got-0.5) > epsilon {
		t.Errorf("Overlap = %f, want 0.5", got)
	}
}

func TestCuisineMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want float64
	}{
		{"Italian", "italian", 1},
		{"Italian", "Mexican", 0},
		{"", "", 0},
		{"Italian", "", 0},
		{" Thai ", "thai", 1},
	}
	for _, tt := range tests {
		if got := CuisineMatch(tt.a, tt.b); got != tt.want {
			t.Errorf("CuisineMatch(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
		if got := CuisineMatch(tt.b, tt.a); got != tt.want {
			t.Errorf("CuisineMatch(%q, %q) not symmetric", tt.b, tt.a)
		}
	}
}

func TestExtractor_TimeMatch(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig())
	tests := []struct {
		a, b int
		want float64
	}{
		{30, 30, 1},
		{30, 45, 1},
		{30, 46, 0},
		{0, 30, 0},
		{30, 0, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := e.TimeMatch(tt.a, tt.b); got != tt.want {
			t.Errorf("TimeMatch(%d, %d) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSeasonOf(t *testing.T) {
	t.Parallel()

	want := map[time.Month]Season{
		time.January: Winter, time.February: Winter, time.March: Spring,
		time.April: Spring, time.May: Spring, time.June: Summer,
		time.July: Summer, time.August: Summer, time.September: Fall,
		time.October: Fall, time.November: Fall, time.December: Winter,
	}
	for m, s := range want {
		if got := SeasonOf(time.Date(2026, m, 1, 0, 0, 0, 0, time.UTC)); got != s {
			t.Errorf("SeasonOf(%s) = %s, want %s", m, got, s)
		}
	}
}

func TestExtractor_SeasonMatch(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig(), WithClock(fixedClock(time.October)))
	tests := []struct {
		seasons []string
		want    float64
	}{
		{[]string{"fall"}, 1},
		{[]string{"Autumn"}, 1},
		{[]string{"summer", "FALL"}, 1},
		{[]string{"winter"}, 0},
		{[]string{"year-round"}, 1},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := e.SeasonMatch(tt.seasons); got != tt.want {
			t.Errorf("SeasonMatch(%v) = %f, want %f", tt.seasons, got, tt.want)
		}
	}
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig(), WithClock(fixedClock(time.January)))
	a := recipe.Recipe{
		ID:             "a",
		Title:          "Spaghetti Carbonara",
		Ingredients:    []string{"spaghetti", "eggs", "pancetta", "parmesan"},
		Cuisine:        "Italian",
		Tags:           []string{"pasta", "quick"},
		ReadyInMinutes: 25,
		CookingStyles:  []string{"stovetop"},
		Seasons:        []string{"winter"},
	}
	b := recipe.Recipe{
		ID:             "b",
		Title:          "Carbonara Pasta",
		Ingredients:    []string{"spaghetti", "eggs", "pancetta", "cream"},
		Cuisine:        "italian",
		Tags:           []string{"pasta"},
		ReadyInMinutes: 35,
		CookingStyles:  []string{"Stovetop"},
		Seasons:        []string{"winter", "fall"},
	}

	fv := e.Extract(a, b)
	for _, f := range recipe.FeatureOrder {
		v, ok := fv[f]
		if !ok {
			t.Fatalf("feature %s missing", f)
		}
		if v < 0 || v > 1 {
			t.Errorf("feature %s = %f out of [0,1]", f, v)
		}
	}

	if fv[recipe.FeatureTitle] < 0.5 {
		t.Errorf("title = %f, want >= 0.5", fv[recipe.FeatureTitle])
	}
	if math.Abs(fv[recipe.FeatureIngredients]-0.6) > epsilon {
		t.Errorf("ingredients = %f, want 0.6", fv[recipe.FeatureIngredients])
	}
	if fv[recipe.FeatureCuisine] != 1 || fv[recipe.FeatureTime] != 1 || fv[recipe.FeatureCookingStyle] != 1 {
		t.Errorf("binary features = %v", fv)
	}
	if math.Abs(fv[recipe.FeatureTags]-0.5) > epsilon {
		t.Errorf("tags = %f, want 0.5", fv[recipe.FeatureTags])
	}
	if fv[recipe.FeatureSeason] != 1 {
		t.Errorf("season = %f, want 1", fv[recipe.FeatureSeason])
	}
	if fv[recipe.FeatureDietary] != 0 {
		t.Errorf("dietary = %f, want 0", fv[recipe.FeatureDietary])
	}

	// Every feature except season compares both sides symmetrically.
	rev := e.Extract(b, a)
	for _, f := range recipe.FeatureOrder {
		if f == recipe.FeatureSeason {
			continue
		}
		if math.Abs(fv[f]-rev[f]) > epsilon {
			t.Errorf("feature %s not symmetric: %f vs %f", f, fv[f], rev[f])
		}
	}
}

func TestExtractor_SearchMatch(t *testing.T) {
	t.Parallel()

	e := NewExtractor(DefaultConfig())
	tests := []struct {
		name  string
		term  string
		title string
		want  float64
	}{
		{"exact", "Spaghetti Carbonara", "spaghetti carbonara", 1.0},
		{"term in title", "carbonara", "Spaghetti Carbonara", 0.9},
		{"title in term", "spaghetti carbonara deluxe", "Spaghetti Carbonara", 0.8},
		{"partial token", "carbonaras", "Carbonara Pasta", 0.7},
		{"token jaccard", "pb j", "pb sandwich", 1.0 / 3.0},
		{"nothing in common", "xy", "Beef Stew", 0},
		{"empty term", "", "Beef Stew", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := e.SearchMatch(tt.term, tt.title); math.Abs(got-tt.want) > epsilon {
				t.Errorf("SearchMatch(%q, %q) = %f, want %f", tt.term, tt.title, got, tt.want)
			}
		})
	}

	// Containment tiers are asymmetric.
	if e.SearchMatch("carbonara", "Spaghetti Carbonara") == e.SearchMatch("Spaghetti Carbonara", "carbonara") {
		t.Error("expected asymmetric containment scores")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := DefaultConfig()
	bad.Search.Partial = 0.95
	if err := bad.Validate(); err == nil {
		t.Error("expected error for increasing tiers")
	}

	bad = DefaultConfig()
	bad.TimeToleranceMinutes = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative tolerance")
	}

	// An invalid config never breaks extraction.
	e := NewExtractor(bad)
	if e.Config().TimeToleranceMinutes != 15 {
		t.Errorf("expected fallback to defaults, got %+v", e.Config())
	}
}
