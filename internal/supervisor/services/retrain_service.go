// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Retrainer schedules batch training for every eligible model.
type Retrainer interface {
	RetrainAll(ctx context.Context) (int, error)
}

// RetrainServiceConfig holds configuration for the retrain sweep.
type RetrainServiceConfig struct {
	// Interval between sweeps. Must be positive.
	Interval time.Duration

	// SweepOnStartup runs one sweep as soon as the service starts.
	SweepOnStartup bool
}

// RetrainService periodically re-enqueues batch training so models keep
// up with interactions even when no single submission crosses the
// retrain threshold.
type RetrainService struct {
	engine Retrainer
	config RetrainServiceConfig
	logger zerolog.Logger
}

// NewRetrainService creates a new retrain sweep service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(engine Retrainer, cfg RetrainServiceConfig, logger zerolog.Logger) *RetrainService {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	return &RetrainService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "retrain-sweep").Logger(),
	}
}

// Serve implements suture.Service.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("sweep_on_startup", s.config.SweepOnStartup).
		Dur("interval", s.config.Interval).
		Msg("retrain sweep starting")

	if s.config.SweepOnStartup {
		s.sweep(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *RetrainService) sweep(ctx context.Context) {
	start := time.Now()
	n, err := s.engine.RetrainAll(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().Err(err).Int("scheduled", n).Msg("retrain sweep incomplete")
		return
	}
	s.logger.Info().
		Int("scheduled", n).
		Dur("duration", time.Since(start)).
		Msg("retrain sweep complete")
}

// String returns the service name for logging.
func (s *RetrainService) String() string {
	return "retrain-sweep"
}
