// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <fixture.yaml>",
		Short: "Replay fixture interactions and fit weights",
		Long: `Replay the fixture's interactions through online learning, then run a
batch fit for one user and signal and print the resulting weights.`,
		Args: cobra.ExactArgs(1),
		RunE: runTrain,
	}
	cmd.Flags().String("user", "", "User to train (defaults to the first interaction's user)")
	cmd.Flags().String("signal", string(recipe.SignalLike), "Signal to train (similarity, like or save)")
	cmd.Flags().String("snapshots-dir", "", "Write a weight snapshot to this directory")
	cmd.Flags().Int("keep", 5, "Snapshots to keep per user and signal")
	return cmd
}

// trainOutput is the result of a train run.
type trainOutput struct {
	Recorded int                       `json:"recorded"`
	Rejected int                       `json:"rejected"`
	Online   recipe.WeightVector       `json:"online_weights"`
	Result   *recommend.TrainResult    `json:"result"`
	Snapshot *storage.SnapshotMetadata `json:"snapshot,omitempty"`
}

func runTrain(cmd *cobra.Command, args []string) error {
	signal := recipe.SignalType(mustString(cmd, "signal"))
	if !signal.Learned() {
		return fmt.Errorf("signal %q has no learned weights", signal)
	}

	var opts []recommend.Option
	var snapshots *storage.SnapshotStore
	if dir := mustString(cmd, "snapshots-dir"); dir != "" {
		keep, _ := cmd.Flags().GetInt("keep")
		var err error
		snapshots, err = storage.NewSnapshotStore(dir, keep)
		if err != nil {
			return err
		}
		opts = append(opts, recommend.WithSnapshots(snapshots))
	}

	// Batch runs happen once at the end instead of on the queue.
	cfg := recommend.DefaultConfig()
	cfg.Training.BatchEnabled = false

	s, err := newSession(cmd, args[0], cfg, opts...)
	if err != nil {
		return err
	}

	user := mustString(cmd, "user")
	if user == "" && len(s.file.Interactions) > 0 {
		user = s.file.Interactions[0].UserID
	}
	if user == "" {
		return fmt.Errorf("no user given and the fixture has no interactions")
	}

	out := trainOutput{}
	for _, fi := range s.file.Interactions {
		o := s.engine.RecordInteraction(cmd.Context(), fi.ToInteraction())
		if !o.Recorded {
			out.Rejected++
			fmt.Fprintf(cmd.ErrOrStderr(), "skipped interaction: %v\n", o.Err)
			continue
		}
		out.Recorded++
	}
	out.Online = s.engine.GetWeights(cmd.Context(), user, signal)

	res, err := s.engine.Train(cmd.Context(), user, signal)
	if err != nil {
		return fmt.Errorf("train %s/%s: %w", user, signal, err)
	}
	out.Result = res

	if snapshots != nil {
		if _, meta, err := snapshots.Load(cmd.Context(), user, signal, 0); err == nil {
			out.Snapshot = &meta
		}
	}

	if wantJSON(cmd) {
		return outputJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	m := res.Metrics
	fmt.Fprintf(w, "Recorded %d interactions (%d rejected)\n", out.Recorded, out.Rejected)
	fmt.Fprintf(w, "Trained %s/%s with %s on %d samples: mse=%.4f r2=%.4f\n",
		user, signal, m.Method, m.Samples, m.MSE, m.R2)
	for _, f := range res.Weights.Keys() {
		fmt.Fprintf(w, "  %-14s %.4f\n", f, res.Weights[f])
	}
	if out.Snapshot != nil {
		fmt.Fprintf(w, "Snapshot v%d written\n", out.Snapshot.Version)
	}
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
