// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/recipebox/internal/api"
	"github.com/tomtom215/recipebox/internal/config"
	"github.com/tomtom215/recipebox/internal/logging"
	"github.com/tomtom215/recipebox/internal/middleware"
	"github.com/tomtom215/recipebox/internal/recommend"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
	"github.com/tomtom215/recipebox/internal/supervisor"
	"github.com/tomtom215/recipebox/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("store", cfg.Store.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Msg("Starting Recipebox with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := initStore(ctx, cfg, logging.WithComponent("store"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()
	logging.Info().Str("driver", cfg.Store.Driver).Msg("Store initialized successfully")

	var snapshots *storage.SnapshotStore
	if cfg.Snapshots.Enabled {
		snapshots, err = storage.NewSnapshotStore(cfg.Snapshots.Dir, cfg.Snapshots.Keep)
		if err != nil {
			logging.Fatal().Err(err).Str("dir", cfg.Snapshots.Dir).Msg("Failed to open snapshot directory")
		}
		logging.Info().Str("dir", cfg.Snapshots.Dir).Int("keep", cfg.Snapshots.Keep).Msg("Weight snapshots enabled")
	}

	source, err := buildCandidateSource(&cfg.Candidates, stores.Store, logging.WithComponent("candidates"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize candidate source")
	}

	// The bus must exist before the engine publishes to it.
	eventLogger := newEventLogger(logging.WithComponent("events"))
	bus := newEventBus(&cfg.Events, eventLogger)
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), stores.Stores, logging.Logger(),
		recommend.WithPublisher(bus),
		recommend.WithSnapshots(snapshots),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	eventRouter, err := newEventRouter(&cfg.Events, bus, eventHandlers(logging.WithComponent("events")), eventLogger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event router")
	}

	handler := api.NewHandler(engine, api.HandlerConfig{
		Recipes:      stores.Store,
		Source:       source,
		Checks:       stores.Checks,
		Perf:         middleware.NewPerformanceMonitor(1000, 500*time.Millisecond, logging.WithComponent("perf")),
		MaxBodyBytes: cfg.Security.MaxBodyBytes,
		Version:      version,
	}, logging.Logger())

	router := api.NewRouter(handler, api.NewChiMiddleware(buildChiMiddlewareConfig(&cfg.Security)))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.WithComponent("supervisor")), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer: batch training workers
	tree.AddDataService(engine.Queue())

	// Messaging layer: event consumers and periodic jobs
	tree.AddMessagingService(eventRouter)
	if cfg.Recommend.RetrainInterval > 0 {
		tree.AddMessagingService(services.NewRetrainService(engine, services.RetrainServiceConfig{
			Interval: cfg.Recommend.RetrainInterval,
		}, logging.Logger()))
		logging.Info().Dur("interval", cfg.Recommend.RetrainInterval).Msg("Retrain sweep added to supervisor tree")
	}
	tree.AddMessagingService(services.NewMaintenanceService(engine, cfg.Recommend.CacheCleanupInterval, logging.Logger()))

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logging.Logger()))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport() //nolint:errcheck // report is best effort at exit
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
