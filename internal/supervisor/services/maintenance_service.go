// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CacheCleaner drops expired cache entries and reports how many.
type CacheCleaner interface {
	CleanupCaches() int
}

// MaintenanceService runs cache cleanup on an interval.
type MaintenanceService struct {
	cleaner  CacheCleaner
	interval time.Duration
	logger   zerolog.Logger
}

// NewMaintenanceService creates a cache maintenance service. A
// non-positive interval defaults to one minute.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMaintenanceService(cleaner CacheCleaner, interval time.Duration, logger zerolog.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &MaintenanceService{
		cleaner:  cleaner,
		interval: interval,
		logger:   logger.With().Str("service", "cache-maintenance").Logger(),
	}
}

// Serve implements suture.Service.
func (m *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := m.cleaner.CleanupCaches(); n > 0 {
				m.logger.Debug().Int("removed", n).Msg("expired cache entries removed")
			}
		}
	}
}

// String returns the service name for logging.
func (m *MaintenanceService) String() string {
	return "cache-maintenance"
}
