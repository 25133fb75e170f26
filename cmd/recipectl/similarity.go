// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/recipebox/internal/recommend/scoring"
)

var errNoInput = errors.New("fixture has no input recipe")

func NewSimilarityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "similarity <fixture.yaml>",
		Aliases: []string{"sim"},
		Short:   "Score the input recipe against every fixture recipe",
		Long: `Score the fixture's input recipe against each of its recipes using the
fixture weights, or the default similarity weights when none are given.`,
		Args: cobra.ExactArgs(1),
		RunE: runSimilarity,
	}
	cmd.Flags().Bool("explain", false, "Show the per-feature breakdown")
	return cmd
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args[0], nil)
	if err != nil {
		return err
	}
	if s.file.Input == nil {
		return errNoInput
	}

	matches := make([]scoring.Match, 0, len(s.file.Recipes))
	for i := range s.file.Recipes {
		c := s.file.Recipes[i]
		res := s.engine.ComputeSimilarity(*s.file.Input, c, s.file.Weights)
		matches = append(matches, scoring.MatchFor(c, res))
	}
	scoring.SortMatches(matches)

	if wantJSON(cmd) {
		return outputJSON(cmd, matches)
	}

	explain, _ := cmd.Flags().GetBool("explain")
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tID\tTITLE")
	for _, m := range matches {
		fmt.Fprintf(tw, "%.3f\t%s\t%s\n", m.Score, m.RecipeID, m.Title)
		if explain {
			for _, c := range m.Breakdown {
				fmt.Fprintf(tw, "\t  %s\t%.3f x %.3f = %.3f\n", c.Feature, c.Value, c.Weight, c.Contribution)
			}
		}
	}
	return tw.Flush()
}

func NewWarnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warn <fixture.yaml>",
		Short: "Check the input recipe for likely duplicates",
		Long: `Compare the fixture's input recipe with its recipes and print the
duplicate warning the server would return.`,
		Args: cobra.ExactArgs(1),
		RunE: runWarn,
	}
	cmd.Flags().Float64("threshold", 0, "Reporting threshold (0 uses the default)")
	return cmd
}

func runWarn(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args[0], nil)
	if err != nil {
		return err
	}
	if s.file.Input == nil {
		return errNoInput
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("threshold must be in [0,1], got %v", threshold)
	}

	w := s.engine.GenerateWarning(*s.file.Input, s.file.Recipes, s.file.Weights, threshold)

	if wantJSON(cmd) {
		return outputJSON(cmd, map[string]any{
			"warning":  w,
			"compared": len(s.file.Recipes),
		})
	}

	out := cmd.OutOrStdout()
	if w == nil {
		fmt.Fprintf(out, "No similar recipes among %d compared.\n", len(s.file.Recipes))
		return nil
	}
	fmt.Fprintf(out, "%s (%.3f): %s\n", w.Level, w.Score, w.Message)
	for _, m := range w.Matches {
		fmt.Fprintf(out, "  %.3f  %s  %s\n", m.Score, m.RecipeID, m.Title)
	}
	return nil
}
