// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package storage

import (
	"context"
	"testing"
)

func TestSQLStore_DuckDBContract(t *testing.T) {
	s, err := OpenSQLStore(context.Background(), DriverDuckDB, "", DefaultSQLOptions())
	if err != nil {
		t.Fatalf("OpenSQLStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	runStoreContract(t, s)
}

func TestOpenSQLStore_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := OpenSQLStore(context.Background(), "sqlite", "", DefaultSQLOptions()); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	if got := placeholders(2, 3); got != "$2, $3, $4" {
		t.Errorf("placeholders = %q", got)
	}
}
