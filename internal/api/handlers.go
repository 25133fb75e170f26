// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/recipebox/internal/middleware"
	"github.com/tomtom215/recipebox/internal/recommend"
	"github.com/tomtom215/recipebox/internal/recommend/candidates"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

// DefaultMaxBodyBytes bounds request bodies when no limit is configured.
const DefaultMaxBodyBytes = 1 << 20

// ReadinessCheck is one dependency probed by the readiness endpoint.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HandlerConfig holds the optional collaborators of Handler.
type HandlerConfig struct {
	// Recipes backs warnings without explicit candidates.
	Recipes storage.RecipeStore

	// Source provides recommendation candidates. Nil always falls back to
	// the recipe store.
	Source candidates.Source

	Checks       []ReadinessCheck
	Perf         *middleware.PerformanceMonitor
	MaxBodyBytes int64
	Version      string
}

// Handler contains dependencies for API handlers
type Handler struct {
	engine  *recommend.Engine
	recipes storage.RecipeStore
	source  candidates.Source
	checks  []ReadinessCheck
	perf    *middleware.PerformanceMonitor

	maxBodyBytes int64
	version      string
	startTime    time.Time
	logger       zerolog.Logger
}

// NewHandler creates a new API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine *recommend.Engine, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		engine:       engine,
		recipes:      cfg.Recipes,
		source:       cfg.Source,
		checks:       cfg.Checks,
		perf:         cfg.Perf,
		maxBodyBytes: cfg.MaxBodyBytes,
		version:      cfg.Version,
		startTime:    time.Now(),
		logger:       logger.With().Str("component", "api").Logger(),
	}
}
