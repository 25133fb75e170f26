// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/recipebox/internal/api"
	"github.com/tomtom215/recipebox/internal/config"
	"github.com/tomtom215/recipebox/internal/metrics"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend"
	"github.com/tomtom215/recipebox/internal/recommend/candidates"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

// buildEngineConfig maps the application config onto the engine config.
// Engine settings without an application knob keep their defaults.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	r := cfg.Recommend
	ec := recommend.DefaultConfig()

	ec.Features.TimeToleranceMinutes = r.TimeToleranceMinutes

	ec.Warning.High = r.WarningHigh
	ec.Warning.Moderate = r.WarningModerate
	ec.Warning.Reporting = r.WarningReporting
	ec.Warning.TopK = r.WarningTopK

	ec.Online.LearningRate = r.LearningRate
	ec.Online.MinWeight = r.MinWeight
	ec.Online.MaxWeight = r.MaxWeight

	ec.Batch.MaxSamples = r.BatchMaxSamples
	ec.Batch.Epochs = r.BatchEpochs
	ec.Batch.LearningRate = r.BatchLearningRate

	ec.Training.MinInteractions = r.MinInteractions
	ec.Training.BatchEnabled = r.BatchEnabled
	ec.Training.RetrainEvery = r.RetrainEvery
	ec.Training.Timeout = r.TrainTimeout
	ec.Training.QueueSize = r.TrainQueueSize
	ec.Training.Workers = r.TrainWorkers

	ec.Ranking.DefaultLimit = r.DefaultLimit
	ec.Ranking.MaxLimit = r.MaxLimit
	ec.Ranking.FetchTimeout = r.FetchTimeout
	ec.Ranking.CandidateBatch = r.CandidateBatch
	ec.Ranking.HistoryLimit = r.HistoryLimit
	ec.Ranking.DecayLambda = r.DecayLambda
	ec.Ranking.Workers = r.RankWorkers

	ec.Cache.ProfileTTL = r.ProfileCacheTTL
	ec.Cache.DedupTTL = r.DedupTTL
	ec.Cache.DedupCapacity = r.DedupCapacity

	return ec
}

// buildCandidateSource returns the external API source behind a circuit
// breaker when a URL is configured, and the recipe store otherwise.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func buildCandidateSource(cfg *config.CandidatesConfig, recipes storage.RecipeStore, logger zerolog.Logger) (candidates.Source, error) {
	if cfg.URL == "" {
		logger.Info().Msg("Serving recommendation candidates from the recipe store")
		return candidates.NewStoreSource(recipes, recipe.Filter{}), nil
	}

	httpSource, err := candidates.NewHTTPSource(candidates.HTTPConfig{
		URL:           cfg.URL,
		APIKey:        cfg.APIKey,
		Timeout:       cfg.Timeout,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("candidate source: %w", err)
	}

	breaker := candidates.DefaultBreakerConfig()
	breaker.FailureThreshold = cfg.BreakerFailures
	breaker.MaxRequests = cfg.BreakerMaxRequests
	breaker.Interval = cfg.BreakerInterval
	breaker.Timeout = cfg.BreakerTimeout

	onStateChange := func(name string, from, to gobreaker.State) {
		metrics.SetCandidateBreakerState(to.String())
		logger.Warn().
			Str("breaker", name).
			Str("from", from.String()).
			Str("to", to.String()).
			Msg("Candidate source circuit breaker state changed")
	}

	logger.Info().
		Str("url", cfg.URL).
		Float64("rate_per_second", cfg.RatePerSecond).
		Uint32("breaker_failures", cfg.BreakerFailures).
		Msg("External candidate source enabled")

	return candidates.NewResilientSource(httpSource, breaker, onStateChange), nil
}

// buildChiMiddlewareConfig applies the security settings to the router
// middleware defaults.
func buildChiMiddlewareConfig(cfg *config.SecurityConfig) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = append([]string(nil), cfg.CORSOrigins...)
	mw.RateLimitRequests = cfg.RateLimitReqs
	mw.RateLimitWindow = cfg.RateLimitWindow
	mw.RateLimitDisabled = cfg.RateLimitDisabled
	return mw
}
