// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// RedisOptions configures the weight cache.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// RedisWeightCache is a read-through cache for weight vectors. Writes go to
// the backing store first and then refresh the cached entry, so the cache
// never holds weights the backing store rejected.
//
// Cache failures are reported through OnError and otherwise ignored; the
// backing store stays authoritative.
type RedisWeightCache struct {
	client  redis.UniversalClient
	backing WeightStore
	prefix  string
	ttl     time.Duration

	// OnError is called with cache-side failures. It may be nil.
	OnError func(op string, err error)
	// OnLookup is called with the outcome of every cache read. It may be nil.
	OnLookup func(hit bool)
}

// NewRedisClient creates a client and verifies the connection.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}

// NewRedisWeightCache wraps backing with a cache on client.
func NewRedisWeightCache(client redis.UniversalClient, backing WeightStore, prefix string, ttl time.Duration) *RedisWeightCache {
	if prefix == "" {
		prefix = "recipebox:"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisWeightCache{client: client, backing: backing, prefix: prefix, ttl: ttl}
}

func (c *RedisWeightCache) key(userID string, signal recipe.SignalType) string {
	return c.prefix + "weights:" + userID + ":" + string(signal)
}

// GetWeights implements WeightStore.
func (c *RedisWeightCache) GetWeights(ctx context.Context, userID string, signal recipe.SignalType) (recipe.WeightVector, error) {
	key := c.key(userID, signal)

	val, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var w recipe.WeightVector
		if jerr := json.Unmarshal(val, &w); jerr == nil {
			c.lookup(true)
			return w, nil
		}
		c.report("decode", fmt.Errorf("decode cached weights %s", key))
	case errors.Is(err, redis.Nil):
	default:
		c.report("get", err)
	}
	c.lookup(false)

	w, err := c.backing.GetWeights(ctx, userID, signal)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, w)
	return w, nil
}

// PutWeights implements WeightStore.
func (c *RedisWeightCache) PutWeights(ctx context.Context, userID string, signal recipe.SignalType, w recipe.WeightVector) error {
	if err := c.backing.PutWeights(ctx, userID, signal, w); err != nil {
		// Drop any cached copy so a retry reads the authoritative value.
		if derr := c.client.Del(ctx, c.key(userID, signal)).Err(); derr != nil {
			c.report("del", derr)
		}
		return err
	}
	c.store(ctx, c.key(userID, signal), w)
	return nil
}

func (c *RedisWeightCache) store(ctx context.Context, key string, w recipe.WeightVector) {
	data, err := json.Marshal(w)
	if err != nil {
		c.report("encode", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.report("set", err)
	}
}

func (c *RedisWeightCache) report(op string, err error) {
	if c.OnError != nil {
		c.OnError(op, err)
	}
}

func (c *RedisWeightCache) lookup(hit bool) {
	if c.OnLookup != nil {
		c.OnLookup(hit)
	}
}

var _ WeightStore = (*RedisWeightCache)(nil)
