// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/recipebox/internal/metrics"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/candidates"
	"github.com/tomtom215/recipebox/internal/recommend/features"
	"github.com/tomtom215/recipebox/internal/recommend/ranking"
)

// Fallback reasons reported in ranking.Result.Reason.
const (
	ReasonNoSource          = "no_source"
	ReasonNoCandidates      = "no_candidates"
	ReasonFetchError        = "fetch_error"
	ReasonFetchTimeout      = "fetch_timeout"
	ReasonSourceUnavailable = "source_unavailable"
)

// RankRecommendations ranks candidates from source for userID. Recipes
// already in the user's history are excluded. When no candidate remains,
// whatever the cause, recipes from the recipe store are ranked with the
// degraded heuristic instead. The result is never nil-valued; on total
// failure it holds no items.
func (e *Engine) RankRecommendations(ctx context.Context, userID string, source candidates.Source, limit int) ranking.Result {
	start := time.Now()
	limit = e.clampLimit(limit)

	if !recipe.ValidID(userID) {
		return ranking.Result{Items: []ranking.Item{}, Mode: ranking.ModeFallback, Reason: ReasonNoCandidates}
	}

	logger := e.logger.With().Str("user_id", userID).Int("limit", limit).Logger()

	cp := e.profile(ctx, userID)
	pool, reason := e.fetchCandidates(ctx, source, cp.seen)

	var res ranking.Result
	if len(pool) > 0 {
		like := e.GetWeights(ctx, userID, recipe.SignalLike)
		save := e.GetWeights(ctx, userID, recipe.SignalSave)
		res = ranking.Result{
			Items:      e.ranker.Rank(ctx, cp.profile, pool, like, save, limit),
			Mode:       ranking.ModePersonalized,
			Candidates: len(pool),
		}
	} else {
		res = e.fallback(ctx, cp, limit)
		res.Reason = reason
		logger.Debug().Str("reason", reason).Int("candidates", res.Candidates).Msg("serving fallback ranking")
	}
	if res.Items == nil {
		res.Items = []ranking.Item{}
	}

	metrics.RecordRanking(string(res.Mode), res.Reason, time.Since(start))
	return res
}

func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.cfg.Ranking.DefaultLimit
	}
	if limit > e.cfg.Ranking.MaxLimit {
		return e.cfg.Ranking.MaxLimit
	}
	return limit
}

// profile returns the user's history profile, building and caching it on
// a miss. History read failures yield an empty profile, which is not
// cached.
func (e *Engine) profile(ctx context.Context, userID string) cachedProfile {
	useCache := e.cfg.Cache.ProfileTTL > 0
	if useCache {
		if cp, ok := e.profiles.Get(userID); ok {
			metrics.RecordCacheLookup("profile", true)
			return cp
		}
		metrics.RecordCacheLookup("profile", false)
	}

	cp, err := e.buildProfile(ctx, userID)
	if err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("history unavailable, ranking without profile")
		return cp
	}
	if useCache {
		e.profiles.Set(userID, cp)
	}
	return cp
}

func (e *Engine) buildProfile(ctx context.Context, userID string) (cachedProfile, error) {
	empty := cachedProfile{profile: features.NewProfile(), seen: map[string]struct{}{}}

	history, err := e.stores.Interactions.RecentInteractions(ctx, userID, ranking.HistorySignals, e.cfg.Ranking.HistoryLimit)
	if err != nil {
		metrics.RecordStoreError("recent_interactions")
		return empty, err
	}

	byID := make(map[string]recipe.Recipe)
	if ids := ranking.SubjectIDs(history); len(ids) > 0 {
		recipes, err := e.stores.Recipes.GetRecipes(ctx, ids)
		if err != nil {
			metrics.RecordStoreError("get_recipes")
			return empty, err
		}
		for i := range recipes {
			byID[recipes[i].ID] = recipes[i]
		}
	}

	profile, seen := e.cfg.Ranking.BuildProfile(history, byID, e.now())
	return cachedProfile{profile: profile, seen: seen}, nil
}

// fetchCandidates pulls a batch from source under the fetch timeout and
// drops recipes in seen. An empty pool comes with the fallback reason.
func (e *Engine) fetchCandidates(ctx context.Context, source candidates.Source, seen map[string]struct{}) ([]recipe.Recipe, string) {
	if source == nil {
		return nil, ReasonNoSource
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.Ranking.FetchTimeout)
	defer cancel()

	batch, err := fetchWithin(fetchCtx, source, e.cfg.Ranking.CandidateBatch)
	if err != nil {
		reason := ReasonFetchError
		switch {
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded):
			reason = ReasonFetchTimeout
			metrics.RecordCandidateFetchError("timeout")
		case errors.Is(err, candidates.ErrSourceUnavailable):
			reason = ReasonSourceUnavailable
			metrics.RecordCandidateFetchError("unavailable")
		default:
			metrics.RecordCandidateFetchError("error")
		}
		e.logger.Warn().Err(err).Str("reason", reason).Msg("candidate fetch failed")
		return nil, reason
	}

	pool := make([]recipe.Recipe, 0, len(batch))
	for i := range batch {
		if _, ok := seen[batch[i].ID]; ok {
			continue
		}
		pool = append(pool, batch[i])
	}
	if len(pool) == 0 {
		return nil, ReasonNoCandidates
	}
	return pool, ""
}

type fetchResult struct {
	batch []recipe.Recipe
	err   error
}

// fetchWithin returns when ctx is done even if source ignores it. A batch
// that arrives after the deadline is discarded.
func fetchWithin(ctx context.Context, source candidates.Source, n int) ([]recipe.Recipe, error) {
	// Buffered so a late source does not leak its goroutine.
	done := make(chan fetchResult, 1)
	go func() {
		batch, err := source.FetchBatch(ctx, n)
		done <- fetchResult{batch: batch, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return res.batch, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// fallback ranks unseen recipes from the recipe store.
func (e *Engine) fallback(ctx context.Context, cp cachedProfile, limit int) ranking.Result {
	exclude := make([]string, 0, len(cp.seen))
	for id := range cp.seen {
		exclude = append(exclude, id)
	}

	recipes, err := e.stores.Recipes.QueryRecipes(ctx, recipe.Filter{
		ExcludeIDs: exclude,
		Limit:      e.cfg.Ranking.CandidateBatch,
	})
	if err != nil {
		metrics.RecordStoreError("query_recipes")
		e.logger.Warn().Err(err).Msg("fallback recipe query failed")
		return ranking.Result{Mode: ranking.ModeFallback}
	}

	return ranking.Result{
		Items:      e.ranker.Fallback(cp.profile, recipes, limit),
		Mode:       ranking.ModeFallback,
		Candidates: len(recipes),
	}
}
