// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package ranking

import (
	"math"
	"time"

	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/features"
)

// HistorySignals are the signals that feed a history profile.
var HistorySignals = []recipe.SignalType{recipe.SignalLike, recipe.SignalSave, recipe.SignalView}

// Strength returns the profile strength of a signal.
func (c Config) Strength(s recipe.SignalType) float64 {
	switch s {
	case recipe.SignalSave:
		return c.SaveStrength
	case recipe.SignalLike:
		return c.LikeStrength
	case recipe.SignalView:
		return c.ViewStrength
	default:
		return 0
	}
}

// HistoryWeight returns exp(-lambda*days) * strength for one interaction.
// Future timestamps count as zero days old.
func (c Config) HistoryWeight(s recipe.SignalType, at, now time.Time) float64 {
	days := now.Sub(at).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Exp(-c.DecayLambda*days) * c.Strength(s)
}

// negative reports decisions that express disinterest and must not shape
// the profile.
func negative(d recipe.Decision) bool {
	return d == recipe.DecisionDismissed || d == recipe.DecisionIgnored
}

// BuildProfile folds history into a normalized profile. recipes maps the
// subject IDs of history to recipes; unknown subjects are skipped. Each
// recipe's subject also lands in Seen so callers can exclude it.
func (c Config) BuildProfile(history []recipe.InteractionRecord, recipes map[string]recipe.Recipe, now time.Time) (*features.Profile, map[string]struct{}) {
	profile := features.NewProfile()
	seen := make(map[string]struct{})

	for i := range history {
		rec := &history[i]
		if negative(rec.Decision) {
			continue
		}
		w := c.HistoryWeight(rec.Signal, rec.Timestamp, now)
		for _, id := range rec.SubjectIDs {
			seen[id] = struct{}{}
			r, ok := recipes[id]
			if !ok {
				continue
			}
			profile.Add(r, w)
		}
	}

	profile.Normalize()
	return profile, seen
}

// SubjectIDs collects the distinct subjects referenced by history.
func SubjectIDs(history []recipe.InteractionRecord) []string {
	seen := make(map[string]struct{})
	var ids []string
	for i := range history {
		for _, id := range history[i].SubjectIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
