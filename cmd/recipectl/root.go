// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tomtom215/recipebox/internal/fixtures"
	"github.com/tomtom215/recipebox/internal/recommend"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recipectl",
		Short:         "Offline tools for the Recipebox engine",
		Long:          `Score, warn and train against YAML fixture files, and inspect weight snapshots.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log engine activity to stderr")

	rootCmd.AddCommand(
		NewSimilarityCmd(),
		NewWarnCmd(),
		NewTrainCmd(),
		NewSnapshotsCmd(),
	)
	return rootCmd
}

// session is an in-memory engine loaded from a fixture file.
type session struct {
	file   *fixtures.File
	store  *storage.MemoryStore
	engine *recommend.Engine
}

func newSession(cmd *cobra.Command, path string, cfg *recommend.Config, opts ...recommend.Option) (*session, error) {
	f, err := fixtures.Load(path)
	if err != nil {
		return nil, err
	}

	store := storage.NewMemoryStore()
	if _, err := fixtures.SeedRecipes(cmd.Context(), store, f.Recipes); err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(cfg, recommend.StoresFrom(store), cmdLogger(cmd), opts...)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return &session{file: f, store: store, engine: engine}, nil
}

func cmdLogger(cmd *cobra.Command) zerolog.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	}
	return zerolog.Nop()
}

func wantJSON(cmd *cobra.Command) bool {
	asJSON, _ := cmd.Flags().GetBool("json")
	return asJSON
}

func outputJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
