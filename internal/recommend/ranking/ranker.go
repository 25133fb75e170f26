// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package ranking

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/features"
	"github.com/tomtom215/recipebox/internal/recommend/scoring"
)

// Mode records how a result was produced.
type Mode string

const (
	ModePersonalized Mode = "personalized"
	ModeFallback     Mode = "fallback"
)

// Item is one ranked recipe.
type Item struct {
	Recipe    recipe.Recipe          `json:"recipe"`
	Score     float64                `json:"score"`
	LikeScore float64                `json:"like_score"`
	SaveScore float64                `json:"save_score"`
	Breakdown []scoring.Contribution `json:"breakdown,omitempty"`
	Degraded  bool                   `json:"degraded,omitempty"`
}

// Result is a ranked list with how it was produced.
type Result struct {
	Items      []Item `json:"items"`
	Mode       Mode   `json:"mode"`
	Candidates int    `json:"candidates"`

	// Reason explains a fallback ("no_candidates", "fetch_error", ...).
	Reason string `json:"reason,omitempty"`
}

// Ranker scores candidates against a profile. It is safe for concurrent
// use.
type Ranker struct {
	cfg       Config
	extractor *features.Extractor
}

// NewRanker creates a ranker. An invalid config falls back to defaults.
func NewRanker(cfg Config, extractor *features.Extractor) *Ranker {
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	return &Ranker{cfg: cfg, extractor: extractor}
}

// Config returns the ranker configuration.
func (r *Ranker) Config() Config {
	return r.cfg
}

// Rank scores every candidate under like and save weights, blends the two
// scores, sorts descending (ID breaks ties) and truncates to limit. It
// stops early and returns what it has when ctx is cancelled.
func (r *Ranker) Rank(ctx context.Context, profile *features.Profile, candidates []recipe.Recipe, like, save recipe.WeightVector, limit int) []Item {
	items := make([]Item, len(candidates))
	done := make([]bool, len(candidates))

	workers := r.cfg.Workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				items[idx] = r.scoreOne(profile, candidates[idx], like, save)
				done[idx] = true
			}
		}()
	}

feed:
	for i := range candidates {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	out := make([]Item, 0, len(items))
	for i := range items {
		if done[i] {
			out = append(out, items[i])
		}
	}
	return sortAndTruncate(out, limit)
}

//nolint:gocritic // hugeParam: recipe passed by value for clarity
func (r *Ranker) scoreOne(profile *features.Profile, candidate recipe.Recipe, like, save recipe.WeightVector) Item {
	fv := r.extractor.ExtractProfile(profile, candidate)
	likeRes := scoring.Score(fv, like)
	saveRes := scoring.Score(fv, save)
	return Item{
		Recipe:    candidate,
		Score:     r.cfg.LikeBlend*likeRes.Score + r.cfg.SaveBlend*saveRes.Score,
		LikeScore: likeRes.Score,
		SaveScore: saveRes.Score,
		Breakdown: likeRes.Breakdown,
	}
}

// fallbackWeights weights the static preference features equally.
var fallbackWeights = recipe.WeightVector{
	recipe.FeatureCuisine: 1,
	recipe.FeatureTags:    1,
	recipe.FeatureDietary: 1,
}

// Fallback ranks recipes with the degraded heuristic. It runs inline:
// the recipe store query is already bounded by limit-sized filters.
func (r *Ranker) Fallback(profile *features.Profile, recipes []recipe.Recipe, limit int) []Item {
	out := make([]Item, 0, len(recipes))
	for i := range recipes {
		fv := r.extractor.ExtractProfile(profile, recipes[i])
		res := scoring.Score(fv, fallbackWeights)
		out = append(out, Item{
			Recipe:    recipes[i],
			Score:     res.Score,
			Breakdown: res.Breakdown,
			Degraded:  true,
		})
	}
	return sortAndTruncate(out, limit)
}

func sortAndTruncate(items []Item, limit int) []Item {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Recipe.ID < items[j].Recipe.ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
