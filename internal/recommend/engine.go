// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/recipebox/internal/cache"
	"github.com/tomtom215/recipebox/internal/events"
	"github.com/tomtom215/recipebox/internal/metrics"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/features"
	"github.com/tomtom215/recipebox/internal/recommend/ranking"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
	"github.com/tomtom215/recipebox/internal/recommend/tracker"
)

// Stores are the persistence collaborators of the engine.
type Stores struct {
	Recipes      storage.RecipeStore
	Weights      storage.WeightStore
	Interactions storage.InteractionStore
	Metrics      storage.MetricsStore
}

// StoresFrom uses one Store for every role.
func StoresFrom(s storage.Store) Stores {
	return Stores{Recipes: s, Weights: s, Interactions: s, Metrics: s}
}

func (s Stores) validate() error {
	switch {
	case s.Recipes == nil:
		return errors.New("recipe store is required")
	case s.Weights == nil:
		return errors.New("weight store is required")
	case s.Interactions == nil:
		return errors.New("interaction store is required")
	case s.Metrics == nil:
		return errors.New("metrics store is required")
	}
	return nil
}

// cachedProfile is a built history profile. It is never mutated after it
// is cached.
type cachedProfile struct {
	profile *features.Profile
	seen    map[string]struct{}
}

// Engine is the similarity and recommendation facade. It is safe for
// concurrent use.
type Engine struct {
	cfg    *Config
	stores Stores
	logger zerolog.Logger
	now    func() time.Time

	extractor *features.Extractor
	tracker   *tracker.Tracker
	ranker    *ranking.Ranker
	queue     *TrainingQueue
	locks     *keyLock

	profiles *cache.TTL[string, cachedProfile]
	dedup    *cache.LRU[string, struct{}]

	publisher events.Publisher
	snapshots *storage.SnapshotStore
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used for timestamps, seasons and
// history decay.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithPublisher sets where domain events are published.
func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

// WithSnapshots enables versioned weight snapshots after batch runs.
func WithSnapshots(s *storage.SnapshotStore) Option {
	return func(e *Engine) {
		e.snapshots = s
	}
}

// NewEngine creates an engine. A nil cfg uses DefaultConfig. The config is
// cloned so later changes by the caller have no effect.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, stores Stores, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := stores.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg.Clone(),
		stores:    stores,
		logger:    logger.With().Str("component", "recommend").Logger(),
		now:       time.Now,
		locks:     newKeyLock(),
		publisher: events.NopPublisher{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.extractor = features.NewExtractor(e.cfg.Features, features.WithClock(e.now))
	e.tracker = tracker.New(stores.Interactions, e.cfg.Training.MinInteractions).WithClock(e.now)
	e.ranker = ranking.NewRanker(e.cfg.Ranking.Config, e.extractor)
	e.profiles = cache.NewTTL[string, cachedProfile](e.cfg.Cache.ProfileTTL).WithClock(e.now)
	e.dedup = cache.NewLRU[string, struct{}](e.cfg.Cache.DedupCapacity, e.cfg.Cache.DedupTTL).WithClock(e.now)
	e.queue = newTrainingQueue(e.cfg.Training.QueueSize, e.cfg.Training.Workers, e.trainKey, e.logger)

	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// Queue returns the training queue. Its Serve method must be running for
// batch jobs to execute.
func (e *Engine) Queue() *TrainingQueue {
	return e.queue
}

// Extractor returns the feature extractor.
func (e *Engine) Extractor() *features.Extractor {
	return e.extractor
}

// GetWeights returns the current weights for (user, signal). Missing,
// unreadable or non-finite stored weights yield the defaults. Signals
// without a model yield an empty vector.
func (e *Engine) GetWeights(ctx context.Context, userID string, signal recipe.SignalType) recipe.WeightVector {
	w, _, err := e.loadWeights(ctx, userID, signal)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("user_id", userID).
			Str("signal", string(signal)).
			Msg("weight read failed, serving defaults")
	}
	return w
}

// loadWeights reads stored weights. stored reports whether the result came
// from the store. On error the defaults are returned alongside it.
func (e *Engine) loadWeights(ctx context.Context, userID string, signal recipe.SignalType) (w recipe.WeightVector, stored bool, err error) {
	if !signal.Learned() {
		return recipe.WeightVector{}, false, nil
	}
	w, err = e.stores.Weights.GetWeights(ctx, userID, signal)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return e.cfg.defaultWeights(signal), false, nil
	case err != nil:
		metrics.RecordStoreError("get_weights")
		return e.cfg.defaultWeights(signal), false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	case len(w) == 0 || !w.Finite():
		return e.cfg.defaultWeights(signal), false, nil
	}
	return w, true, nil
}

// ModelMetrics returns the latest batch metrics for (user, signal).
// storage.ErrNotFound is returned when no batch run has completed.
func (e *Engine) ModelMetrics(ctx context.Context, userID string, signal recipe.SignalType) (recipe.ModelMetrics, error) {
	m, err := e.stores.Metrics.GetMetrics(ctx, userID, signal)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		metrics.RecordStoreError("get_metrics")
		return m, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return m, err
}

// InvalidateProfile drops the cached history profile for a user.
func (e *Engine) InvalidateProfile(userID string) {
	e.profiles.Delete(userID)
}

// CleanupCaches removes expired cache entries and returns how many were
// dropped.
func (e *Engine) CleanupCaches() int {
	return e.profiles.Cleanup() + e.dedup.CleanupExpired()
}

// publish sends ev and logs failures. Events never fail the caller.
func (e *Engine) publish(ctx context.Context, ev events.Event) {
	if err := e.publisher.Publish(ctx, ev); err != nil {
		e.logger.Warn().Err(err).Str("topic", ev.Topic()).Msg("event publish failed")
	}
}
