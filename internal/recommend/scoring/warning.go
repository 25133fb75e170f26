// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package scoring

import (
	"fmt"
	"sort"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// Level is a warning severity.
type Level string

const (
	LevelHigh     Level = "high_similarity"
	LevelModerate Level = "moderate_similarity"
)

// Message returns the user-facing text for the level.
func (l Level) Message() string {
	switch l {
	case LevelHigh:
		return "This recipe looks very similar to one you already have."
	case LevelModerate:
		return "This recipe shares a lot with an existing recipe."
	default:
		return ""
	}
}

// Thresholds partition the score domain into warning bands.
type Thresholds struct {
	High      float64 `json:"high"`
	Moderate  float64 `json:"moderate"`
	Reporting float64 `json:"reporting"`
	TopK      int     `json:"top_k"`
}

// DefaultThresholds returns the production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		High:      0.6,
		Moderate:  0.3,
		Reporting: 0.2,
		TopK:      5,
	}
}

// Validate checks 0 <= reporting <= moderate <= high <= 1.
func (t Thresholds) Validate() error {
	if t.Reporting < 0 || t.Reporting > t.Moderate || t.Moderate > t.High || t.High > 1 {
		return fmt.Errorf("thresholds must satisfy 0 <= reporting (%f) <= moderate (%f) <= high (%f) <= 1",
			t.Reporting, t.Moderate, t.High)
	}
	if t.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", t.TopK)
	}
	return nil
}

// Classify returns the warning level for score, or "" when the score is
// below the moderate threshold.
func (t Thresholds) Classify(score float64) Level {
	switch {
	case score >= t.High:
		return LevelHigh
	case score >= t.Moderate:
		return LevelModerate
	default:
		return ""
	}
}

// Match is a scored candidate.
type Match struct {
	RecipeID string `json:"recipe_id"`
	Title    string `json:"title"`
	Result
}

// Warning is produced when the best match reaches a warning band.
type Warning struct {
	Level   Level   `json:"level"`
	Message string  `json:"message"`
	Score   float64 `json:"score"`
	Matches []Match `json:"matches"`
}

// SortMatches orders matches by score descending, ties by recipe ID.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].RecipeID < matches[j].RecipeID
	})
}

// TopMatches keeps matches at or above reporting, sorts them and truncates
// to k. The input slice is not modified.
func TopMatches(matches []Match, reporting float64, k int) []Match {
	out := make([]Match, 0, len(matches))
	for i := range matches {
		if matches[i].Score >= reporting {
			out = append(out, matches[i])
		}
	}
	SortMatches(out)
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// BuildWarning classifies the best of the reported matches. It returns nil
// when there is nothing at or above the moderate threshold.
func (t Thresholds) BuildWarning(top []Match) *Warning {
	if len(top) == 0 {
		return nil
	}
	level := t.Classify(top[0].Score)
	if level == "" {
		return nil
	}
	return &Warning{
		Level:   level,
		Message: level.Message(),
		Score:   top[0].Score,
		Matches: top,
	}
}

// MatchFor builds a Match for a candidate.
//
//nolint:gocritic // hugeParam: recipe passed by value for clarity
func MatchFor(candidate recipe.Recipe, res Result) Match {
	return Match{RecipeID: candidate.ID, Title: candidate.Title, Result: res}
}
