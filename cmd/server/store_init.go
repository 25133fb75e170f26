// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tomtom215/recipebox/internal/api"
	"github.com/tomtom215/recipebox/internal/config"
	"github.com/tomtom215/recipebox/internal/fixtures"
	"github.com/tomtom215/recipebox/internal/metrics"
	"github.com/tomtom215/recipebox/internal/recommend"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

// pinger is implemented by stores backed by a network connection.
type pinger interface {
	Ping(ctx context.Context) error
}

// StoreComponents holds the opened persistence layer.
type StoreComponents struct {
	Store  storage.Store
	Stores recommend.Stores
	Redis  *redis.Client
	Checks []api.ReadinessCheck
}

// Close releases the Redis client and the store.
func (c *StoreComponents) Close() error {
	var errs []error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := c.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}

// openStore opens the configured backend.
func openStore(ctx context.Context, cfg *config.StoreConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "", config.DriverMemory:
		return storage.NewMemoryStore(), nil
	case config.DriverBadger:
		return storage.OpenBadgerStore(cfg.BadgerPath)
	case config.DriverPostgres:
		return storage.OpenSQLStore(ctx, storage.DriverPostgres, cfg.PostgresDSN, sqlOptions(cfg))
	case config.DriverDuckDB:
		return storage.OpenSQLStore(ctx, storage.DriverDuckDB, cfg.DuckDBPath, sqlOptions(cfg))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func sqlOptions(cfg *config.StoreConfig) storage.SQLOptions {
	opts := storage.DefaultSQLOptions()
	if cfg.MaxOpenConns > 0 {
		opts.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		opts.MaxIdleConns = cfg.MaxIdleConns
	}
	if cfg.ConnMaxLifetime > 0 {
		opts.ConnMaxLifetime = cfg.ConnMaxLifetime
	}
	return opts
}

// initStore opens the store, wraps weights with the Redis cache when
// enabled and seeds recipes from the configured fixture file.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*StoreComponents, error) {
	store, err := openStore(ctx, &cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}

	c := &StoreComponents{Store: store, Stores: recommend.StoresFrom(store)}
	if p, ok := store.(pinger); ok {
		c.Checks = append(c.Checks, api.ReadinessCheck{Name: "store", Check: p.Ping})
	}

	if cfg.Redis.Enabled {
		client, err := storage.NewRedisClient(ctx, storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = store.Close() //nolint:errcheck // already failing
			return nil, err
		}
		cache := storage.NewRedisWeightCache(client, store, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
		cache.OnError = func(op string, err error) {
			metrics.RecordStoreError("redis_" + op)
			logger.Debug().Err(err).Str("op", op).Msg("weight cache error")
		}
		cache.OnLookup = func(hit bool) {
			metrics.RecordCacheLookup("weights", hit)
		}
		c.Redis = client
		c.Stores.Weights = cache
		c.Checks = append(c.Checks, api.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		logger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.TTL).Msg("Redis weight cache enabled")
	}

	if cfg.Store.SeedPath != "" {
		if err := seedStore(ctx, store, cfg.Store.SeedPath, logger); err != nil {
			_ = c.Close() //nolint:errcheck // already failing
			return nil, err
		}
	}

	return c, nil
}

//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func seedStore(ctx context.Context, store storage.RecipeStore, path string, logger zerolog.Logger) error {
	f, err := fixtures.Load(path)
	if err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}
	n, err := fixtures.SeedRecipes(ctx, store, f.Recipes)
	if err != nil {
		return fmt.Errorf("seed recipes: %w", err)
	}
	logger.Info().Str("path", path).Int("recipes", n).Msg("Seeded recipe store")
	return nil
}
