// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// Key prefixes for BadgerDB storage
const (
	recipeKeyPrefix      = "recipe:"
	weightsKeyPrefix     = "weights:"
	metricsKeyPrefix     = "metrics:"
	interactionKeyPrefix = "interaction:"
	countKeyPrefix       = "interaction_count:"
)

// BadgerStore implements Store on an embedded BadgerDB.
//
// Interactions are keyed interaction:{user}:{signal}:{unix-nanos}:{id} with
// a big-endian timestamp so forward iteration is chronological. A counter
// per (user, signal) is updated in the same transaction as each append.
type BadgerStore struct {
	db     *badger.DB
	ownsDB bool
}

// OpenBadgerStore opens (or creates) a database at path.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return &BadgerStore{db: db, ownsDB: true}, nil
}

// NewBadgerStore wraps an already open database. Close leaves it open.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// GetRecipe implements RecipeStore.
func (s *BadgerStore) GetRecipe(_ context.Context, id string) (recipe.Recipe, error) {
	var r recipe.Recipe
	err := s.getJSON([]byte(recipeKeyPrefix+id), &r)
	return r, err
}

// GetRecipes implements RecipeStore.
func (s *BadgerStore) GetRecipes(ctx context.Context, ids []string) ([]recipe.Recipe, error) {
	out := make([]recipe.Recipe, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get([]byte(recipeKeyPrefix + id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get recipe %s: %w", id, err)
			}
			var r recipe.Recipe
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &r) }); err != nil {
				return fmt.Errorf("decode recipe %s: %w", id, err)
			}
			out = append(out, r)
		}
		return nil
	})
	return out, err
}

// QueryRecipes implements RecipeStore with a prefix scan. Results are
// ordered by ID because Badger iterates keys in order.
func (s *BadgerStore) QueryRecipes(ctx context.Context, filter recipe.Filter) ([]recipe.Recipe, error) {
	var out []recipe.Recipe
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(recipeKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r recipe.Recipe
			if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &r) }); err != nil {
				return fmt.Errorf("decode recipe: %w", err)
			}
			if !MatchesFilter(r, filter) {
				continue
			}
			out = append(out, r)
			if filter.Limit > 0 && len(out) >= filter.Limit {
				break
			}
		}
		return nil
	})
	return out, err
}

// PutRecipe implements RecipeStore.
//
//nolint:gocritic // hugeParam: recipe passed by value for clarity
func (s *BadgerStore) PutRecipe(_ context.Context, r recipe.Recipe) error {
	return s.setJSON([]byte(recipeKeyPrefix+r.ID), r)
}

// GetWeights implements WeightStore.
func (s *BadgerStore) GetWeights(_ context.Context, userID string, signal recipe.SignalType) (recipe.WeightVector, error) {
	var w recipe.WeightVector
	if err := s.getJSON(pairKey(weightsKeyPrefix, userID, signal), &w); err != nil {
		return nil, err
	}
	return w, nil
}

// PutWeights implements WeightStore.
func (s *BadgerStore) PutWeights(_ context.Context, userID string, signal recipe.SignalType, w recipe.WeightVector) error {
	return s.setJSON(pairKey(weightsKeyPrefix, userID, signal), w)
}

// GetMetrics implements MetricsStore.
func (s *BadgerStore) GetMetrics(_ context.Context, userID string, signal recipe.SignalType) (recipe.ModelMetrics, error) {
	var m recipe.ModelMetrics
	err := s.getJSON(pairKey(metricsKeyPrefix, userID, signal), &m)
	return m, err
}

// PutMetrics implements MetricsStore.
//
//nolint:gocritic // hugeParam: metrics passed by value for clarity
func (s *BadgerStore) PutMetrics(_ context.Context, m recipe.ModelMetrics) error {
	return s.setJSON(pairKey(metricsKeyPrefix, m.UserID, m.Signal), m)
}

// AppendInteraction implements InteractionStore.
func (s *BadgerStore) AppendInteraction(_ context.Context, rec recipe.InteractionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	key := interactionKey(rec)
	counter := pairKey(countKeyPrefix, rec.UserID, rec.Signal)

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return fmt.Errorf("set interaction: %w", err)
		}

		var n uint64
		item, err := txn.Get(counter)
		switch {
		case errors.Is(err, badger.ErrKeyNotFound):
		case err != nil:
			return fmt.Errorf("get interaction count: %w", err)
		default:
			if err := item.Value(func(val []byte) error {
				if len(val) == 8 {
					n = binary.BigEndian.Uint64(val)
				}
				return nil
			}); err != nil {
				return err
			}
		}

		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, n+1)
		if err := txn.Set(counter, buf); err != nil {
			return fmt.Errorf("set interaction count: %w", err)
		}
		return nil
	})
}

// CountInteractions implements InteractionStore.
func (s *BadgerStore) CountInteractions(_ context.Context, userID string, signal recipe.SignalType) (int, error) {
	var n uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(pairKey(countKeyPrefix, userID, signal))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get interaction count: %w", err)
		}
		return item.Value(func(val []byte) error {
			if len(val) == 8 {
				n = binary.BigEndian.Uint64(val)
			}
			return nil
		})
	})
	return int(n), err //nolint:gosec // counts never approach MaxInt
}

// RecentInteractions implements InteractionStore. Each signal is read in
// reverse key order and the results are merged by timestamp.
func (s *BadgerStore) RecentInteractions(ctx context.Context, userID string, signals []recipe.SignalType, n int) ([]recipe.InteractionRecord, error) {
	var out []recipe.InteractionRecord
	err := s.db.View(func(txn *badger.Txn) error {
		for _, sig := range signals {
			prefix := interactionPrefix(userID, sig)

			opts := badger.DefaultIteratorOptions
			opts.Reverse = true
			opts.Prefix = prefix
			it := txn.NewIterator(opts)

			// Seeking past the prefix lands on its last key in reverse mode.
			seek := append(append([]byte{}, prefix...), 0xFF)
			read := 0
			for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
				if n > 0 && read >= n {
					break
				}
				if err := ctx.Err(); err != nil {
					it.Close()
					return err
				}
				var rec recipe.InteractionRecord
				if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &rec) }); err != nil {
					it.Close()
					return fmt.Errorf("decode interaction: %w", err)
				}
				out = append(out, rec)
				read++
			}
			it.Close()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newestFirst(out, n), nil
}

// InteractionKeys implements InteractionStore by scanning the counters.
func (s *BadgerStore) InteractionKeys(ctx context.Context) ([]Key, error) {
	var keys []Key
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(countKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			rest := strings.TrimPrefix(string(it.Item().Key()), countKeyPrefix)
			idx := strings.LastIndexByte(rest, ':')
			if idx <= 0 {
				continue
			}
			keys = append(keys, Key{UserID: rest[:idx], Signal: recipe.SignalType(rest[idx+1:])})
		}
		return nil
	})
	SortKeys(keys)
	return keys, err
}

// Close closes the database if this store opened it.
func (s *BadgerStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

func (s *BadgerStore) getJSON(key []byte, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}

func (s *BadgerStore) setJSON(key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

func pairKey(prefix, userID string, signal recipe.SignalType) []byte {
	return []byte(prefix + userID + ":" + string(signal))
}

func interactionPrefix(userID string, signal recipe.SignalType) []byte {
	return []byte(interactionKeyPrefix + userID + ":" + string(signal) + ":")
}

func interactionKey(rec recipe.InteractionRecord) []byte {
	prefix := interactionPrefix(rec.UserID, rec.Signal)
	key := make([]byte, 0, len(prefix)+8+1+len(rec.ID))
	key = append(key, prefix...)
	key = binary.BigEndian.AppendUint64(key, uint64(rec.Timestamp.UnixNano())) //nolint:gosec // timestamps are after 1970
	key = append(key, ':')
	key = append(key, rec.ID...)
	return key
}

var _ Store = (*BadgerStore)(nil)
