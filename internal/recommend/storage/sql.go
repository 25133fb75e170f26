// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/goccy/go-json"
	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/tomtom215/recipebox/internal/recipe"
)

// Supported database/sql drivers.
const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// schema works on both PostgreSQL and DuckDB. Documents are stored as
// JSON text; only the columns needed for lookups are broken out.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		cuisine TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS weights (
		user_id TEXT NOT NULL,
		signal TEXT NOT NULL,
		body TEXT NOT NULL,
		updated_at BIGINT NOT NULL,
		PRIMARY KEY (user_id, signal)
	)`,
	`CREATE TABLE IF NOT EXISTS model_metrics (
		user_id TEXT NOT NULL,
		signal TEXT NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (user_id, signal)
	)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		signal TEXT NOT NULL,
		decision TEXT NOT NULL,
		ts BIGINT NOT NULL,
		body TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS interactions_user_signal_ts ON interactions (user_id, signal, ts)`,
}

// SQLStore implements Store over database/sql. Queries use $N
// placeholders, which both lib/pq and DuckDB accept.
type SQLStore struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// SQLOptions configures the connection pool.
type SQLOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultSQLOptions returns pool settings suitable for a small service.
func DefaultSQLOptions() SQLOptions {
	return SQLOptions{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// OpenSQLStore connects with driver and dsn, verifies the connection and
// creates the schema if needed. An empty DuckDB dsn is an in-memory database.
func OpenSQLStore(ctx context.Context, driver, dsn string, opts SQLOptions) (*SQLStore, error) {
	if driver != DriverPostgres && driver != DriverDuckDB {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == DriverDuckDB {
		// DuckDB in-memory databases are per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxIdleConns)
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	s := &SQLStore{db: db, driver: driver, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

// Ping verifies the connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetRecipe implements RecipeStore.
func (s *SQLStore) GetRecipe(ctx context.Context, id string) (recipe.Recipe, error) {
	var r recipe.Recipe
	err := s.queryJSON(ctx, &r, `SELECT body FROM recipes WHERE id = $1`, id)
	return r, err
}

// GetRecipes implements RecipeStore.
func (s *SQLStore) GetRecipes(ctx context.Context, ids []string) ([]recipe.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT body FROM recipes WHERE id IN (` + placeholders(1, len(ids)) + `)`
	found, err := s.scanRecipes(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]recipe.Recipe, len(found))
	for i := range found {
		byID[found[i].ID] = found[i]
	}
	out := make([]recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// QueryRecipes implements RecipeStore. Cuisine is filtered in SQL and the
// remaining list filters are applied in process.
func (s *SQLStore) QueryRecipes(ctx context.Context, filter recipe.Filter) ([]recipe.Recipe, error) {
	query := `SELECT body FROM recipes`
	var args []any
	if len(filter.Cuisines) > 0 {
		lowered := make([]string, len(filter.Cuisines))
		for i, c := range filter.Cuisines {
			lowered[i] = strings.ToLower(strings.TrimSpace(c))
			args = append(args, lowered[i])
		}
		query += ` WHERE cuisine IN (` + placeholders(1, len(lowered)) + `)`
	}
	query += ` ORDER BY id`

	all, err := s.scanRecipes(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	out := all[:0]
	for i := range all {
		if MatchesFilter(all[i], filter) {
			out = append(out, all[i])
			if filter.Limit > 0 && len(out) >= filter.Limit {
				break
			}
		}
	}
	return out, nil
}

// PutRecipe implements RecipeStore.
//
//nolint:gocritic // hugeParam: recipe passed by value for clarity
func (s *SQLStore) PutRecipe(ctx context.Context, r recipe.Recipe) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, cuisine, body) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET cuisine = excluded.cuisine, body = excluded.body`,
		r.ID, strings.ToLower(strings.TrimSpace(r.Cuisine)), string(body))
	if err != nil {
		return fmt.Errorf("upsert recipe: %w", err)
	}
	return nil
}

// GetWeights implements WeightStore.
func (s *SQLStore) GetWeights(ctx context.Context, userID string, signal recipe.SignalType) (recipe.WeightVector, error) {
	var w recipe.WeightVector
	if err := s.queryJSON(ctx, &w, `SELECT body FROM weights WHERE user_id = $1 AND signal = $2`, userID, string(signal)); err != nil {
		return nil, err
	}
	return w, nil
}

// PutWeights implements WeightStore.
func (s *SQLStore) PutWeights(ctx context.Context, userID string, signal recipe.SignalType, w recipe.WeightVector) error {
	body, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO weights (user_id, signal, body, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, signal) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		userID, string(signal), string(body), s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("upsert weights: %w", err)
	}
	return nil
}

// GetMetrics implements MetricsStore.
func (s *SQLStore) GetMetrics(ctx context.Context, userID string, signal recipe.SignalType) (recipe.ModelMetrics, error) {
	var m recipe.ModelMetrics
	err := s.queryJSON(ctx, &m, `SELECT body FROM model_metrics WHERE user_id = $1 AND signal = $2`, userID, string(signal))
	return m, err
}

// PutMetrics implements MetricsStore.
//
//nolint:gocritic // hugeParam: metrics passed by value for clarity
func (s *SQLStore) PutMetrics(ctx context.Context, m recipe.ModelMetrics) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal metrics: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO model_metrics (user_id, signal, body) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, signal) DO UPDATE SET body = excluded.body`,
		m.UserID, string(m.Signal), string(body))
	if err != nil {
		return fmt.Errorf("upsert metrics: %w", err)
	}
	return nil
}

// AppendInteraction implements InteractionStore.
func (s *SQLStore) AppendInteraction(ctx context.Context, rec recipe.InteractionRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interactions (id, user_id, signal, decision, ts, body) VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, string(rec.Signal), string(rec.Decision), rec.Timestamp.UnixNano(), string(body))
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// CountInteractions implements InteractionStore.
func (s *SQLStore) CountInteractions(ctx context.Context, userID string, signal recipe.SignalType) (int, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interactions WHERE user_id = $1 AND signal = $2`,
		userID, string(signal)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return int(n), nil
}

// RecentInteractions implements InteractionStore.
func (s *SQLStore) RecentInteractions(ctx context.Context, userID string, signals []recipe.SignalType, n int) ([]recipe.InteractionRecord, error) {
	if len(signals) == 0 {
		return nil, nil
	}

	args := []any{userID}
	for _, sig := range signals {
		args = append(args, string(sig))
	}
	query := `SELECT body FROM interactions WHERE user_id = $1 AND signal IN (` +
		placeholders(2, len(signals)) + `) ORDER BY ts DESC, id DESC`
	if n > 0 {
		args = append(args, n)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // read-only cursor

	var out []recipe.InteractionRecord
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		var rec recipe.InteractionRecord
		if err := json.Unmarshal([]byte(body), &rec); err != nil {
			return nil, fmt.Errorf("decode interaction: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// InteractionKeys implements InteractionStore.
func (s *SQLStore) InteractionKeys(ctx context.Context) ([]Key, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT user_id, signal FROM interactions ORDER BY user_id, signal`)
	if err != nil {
		return nil, fmt.Errorf("query interaction keys: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // read-only cursor

	var keys []Key
	for rows.Next() {
		var k Key
		var sig string
		if err := rows.Scan(&k.UserID, &sig); err != nil {
			return nil, fmt.Errorf("scan interaction key: %w", err)
		}
		k.Signal = recipe.SignalType(sig)
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) queryJSON(ctx context.Context, v any, query string, args ...any) error {
	var body string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func (s *SQLStore) scanRecipes(ctx context.Context, query string, args ...any) ([]recipe.Recipe, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // read-only cursor

	var out []recipe.Recipe
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		var r recipe.Recipe
		if err := json.Unmarshal([]byte(body), &r); err != nil {
			return nil, fmt.Errorf("decode recipe: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// placeholders returns "$start, $start+1, ..." for n parameters.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

var _ Store = (*SQLStore)(nil)
