// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/features"
	"github.com/tomtom215/recipebox/internal/recommend/learning"
	"github.com/tomtom215/recipebox/internal/recommend/ranking"
	"github.com/tomtom215/recipebox/internal/recommend/scoring"
)

// Config contains all configuration for the engine.
type Config struct {
	// Features controls extraction tolerances and search tiers.
	Features features.Config `json:"features"`

	// Warning holds the duplicate warning thresholds.
	Warning scoring.Thresholds `json:"warning"`

	// Online controls single-step weight updates.
	Online learning.OnlineConfig `json:"online"`

	// Batch controls batch refits.
	Batch learning.BatchConfig `json:"batch"`

	// Training contains the learning cadence and queue parameters.
	Training TrainingConfig `json:"training"`

	// Ranking contains recommendation parameters.
	Ranking RankingConfig `json:"ranking"`

	// Cache contains caching parameters.
	Cache CacheConfig `json:"cache"`

	// DefaultWeights are returned for (user, signal) pairs with nothing
	// learned yet.
	DefaultWeights map[recipe.SignalType]recipe.WeightVector `json:"default_weights"`
}

// TrainingConfig contains learning cadence parameters.
type TrainingConfig struct {
	// MinInteractions is the sample count at which learning starts.
	MinInteractions int `json:"min_interactions"`

	// BatchEnabled turns batch refits on.
	BatchEnabled bool `json:"batch_enabled"`

	// RetrainEvery is the number of interactions between batch jobs once
	// MinInteractions is reached.
	RetrainEvery int `json:"retrain_every"`

	// Timeout bounds a single batch run.
	Timeout time.Duration `json:"timeout"`

	// QueueSize bounds pending jobs. A full queue rejects new jobs.
	QueueSize int `json:"queue_size"`

	// Workers is the number of concurrent training workers.
	Workers int `json:"workers"`
}

// RankingConfig contains recommendation parameters.
type RankingConfig struct {
	ranking.Config

	// DefaultLimit is used when the caller passes a non-positive limit.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps the caller's limit.
	MaxLimit int `json:"max_limit"`

	// FetchTimeout bounds a candidate source call.
	FetchTimeout time.Duration `json:"fetch_timeout"`

	// CandidateBatch is how many candidates are requested per fetch.
	CandidateBatch int `json:"candidate_batch"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// ProfileTTL is how long a user's history profile is reused.
	// Zero disables the profile cache.
	ProfileTTL time.Duration `json:"profile_ttl"`

	// DedupTTL is how long an interaction event ID is remembered.
	DedupTTL time.Duration `json:"dedup_ttl"`

	// DedupCapacity bounds remembered event IDs.
	DedupCapacity int `json:"dedup_capacity"`
}

// DefaultWeights returns the built-in weights per learned signal.
func DefaultWeights() map[recipe.SignalType]recipe.WeightVector {
	return map[recipe.SignalType]recipe.WeightVector{
		recipe.SignalSimilarity: {
			recipe.FeatureTitle:       0.4,
			recipe.FeatureIngredients: 0.6,
		},
		recipe.SignalLike: {
			recipe.FeatureIngredients:  0.3,
			recipe.FeatureTags:         0.25,
			recipe.FeatureCuisine:      0.15,
			recipe.FeatureCookingStyle: 0.15,
			recipe.FeatureTime:         0.05,
			recipe.FeatureSeason:       0.05,
			recipe.FeatureDietary:      0.05,
		},
		recipe.SignalSave: {
			recipe.FeatureIngredients:  0.25,
			recipe.FeatureTags:         0.2,
			recipe.FeatureCuisine:      0.1,
			recipe.FeatureCookingStyle: 0.2,
			recipe.FeatureTime:         0.1,
			recipe.FeatureSeason:       0.1,
			recipe.FeatureDietary:      0.05,
		},
	}
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Features: features.DefaultConfig(),
		Warning:  scoring.DefaultThresholds(),
		Online:   learning.DefaultOnlineConfig(),
		Batch:    learning.DefaultBatchConfig(),
		Training: TrainingConfig{
			MinInteractions: 10,
			BatchEnabled:    true,
			RetrainEvery:    10,
			Timeout:         30 * time.Second,
			QueueSize:       64,
			Workers:         1,
		},
		Ranking: RankingConfig{
			Config:         ranking.DefaultConfig(),
			DefaultLimit:   10,
			MaxLimit:       50,
			FetchTimeout:   5 * time.Second,
			CandidateBatch: 50,
		},
		Cache: CacheConfig{
			ProfileTTL:    5 * time.Minute,
			DedupTTL:      24 * time.Hour,
			DedupCapacity: 10000,
		},
		DefaultWeights: DefaultWeights(),
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Features.Validate(); err != nil {
		return fmt.Errorf("features: %w", err)
	}
	if err := c.Warning.Validate(); err != nil {
		return fmt.Errorf("warning: %w", err)
	}
	if err := c.Online.Validate(); err != nil {
		return fmt.Errorf("online: %w", err)
	}
	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if err := c.Ranking.Config.Validate(); err != nil {
		return fmt.Errorf("ranking: %w", err)
	}

	if c.Training.MinInteractions < 1 {
		return fmt.Errorf("training.min_interactions must be positive, got %d", c.Training.MinInteractions)
	}
	if c.Training.RetrainEvery < 1 {
		return fmt.Errorf("training.retrain_every must be positive, got %d", c.Training.RetrainEvery)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.QueueSize < 1 {
		return fmt.Errorf("training.queue_size must be positive, got %d", c.Training.QueueSize)
	}
	if c.Training.Workers < 1 {
		return fmt.Errorf("training.workers must be positive, got %d", c.Training.Workers)
	}

	if c.Ranking.DefaultLimit < 1 {
		return fmt.Errorf("ranking.default_limit must be positive, got %d", c.Ranking.DefaultLimit)
	}
	if c.Ranking.MaxLimit < c.Ranking.DefaultLimit {
		return fmt.Errorf("ranking.max_limit (%d) must be >= default_limit (%d)", c.Ranking.MaxLimit, c.Ranking.DefaultLimit)
	}
	if c.Ranking.FetchTimeout <= 0 {
		return fmt.Errorf("ranking.fetch_timeout must be positive, got %v", c.Ranking.FetchTimeout)
	}
	if c.Ranking.CandidateBatch < 1 {
		return fmt.Errorf("ranking.candidate_batch must be positive, got %d", c.Ranking.CandidateBatch)
	}

	if c.Cache.ProfileTTL < 0 {
		return fmt.Errorf("cache.profile_ttl must be non-negative, got %v", c.Cache.ProfileTTL)
	}
	if c.Cache.DedupTTL <= 0 {
		return fmt.Errorf("cache.dedup_ttl must be positive, got %v", c.Cache.DedupTTL)
	}
	if c.Cache.DedupCapacity < 1 {
		return fmt.Errorf("cache.dedup_capacity must be positive, got %d", c.Cache.DedupCapacity)
	}

	for _, s := range []recipe.SignalType{recipe.SignalSimilarity, recipe.SignalLike, recipe.SignalSave} {
		w, ok := c.DefaultWeights[s]
		if !ok || len(w) == 0 {
			return fmt.Errorf("default_weights.%s is required", s)
		}
		if !w.Finite() {
			return fmt.Errorf("default_weights.%s must be finite", s)
		}
		for f, v := range w {
			if !f.Known() {
				return fmt.Errorf("default_weights.%s: unknown feature %q", s, f)
			}
			if v < 0 {
				return fmt.Errorf("default_weights.%s.%s must be non-negative, got %f", s, f, v)
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.DefaultWeights = make(map[recipe.SignalType]recipe.WeightVector, len(c.DefaultWeights))
	for s, w := range c.DefaultWeights {
		out.DefaultWeights[s] = w.Clone()
	}
	return &out
}

// defaultWeights returns a copy of the defaults for signal. Signals
// without a model get an empty vector.
func (c *Config) defaultWeights(signal recipe.SignalType) recipe.WeightVector {
	if w, ok := c.DefaultWeights[signal]; ok {
		return w.Clone()
	}
	return recipe.WeightVector{}
}
