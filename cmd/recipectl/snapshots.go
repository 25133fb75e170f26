// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

func NewSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshots",
		Aliases: []string{"snap"},
		Short:   "Inspect weight snapshots",
		Long:    `List, show, restore and delete the versioned weight snapshots written after batch training.`,
	}
	cmd.PersistentFlags().String("dir", "/data/recipebox/snapshots", "Snapshot directory")
	cmd.AddCommand(newSnapshotsListCmd(), newSnapshotsShowCmd(), newSnapshotsRestoreCmd(), newSnapshotsDeleteCmd())
	return cmd
}

func openSnapshots(cmd *cobra.Command) (*storage.SnapshotStore, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		return nil, errors.New("--dir is required")
	}
	// keep=0 never prunes; this tool only reads and deletes.
	return storage.NewSnapshotStore(dir, 0)
}

func snapshotKey(args []string) (string, recipe.SignalType, error) {
	user, signal := args[0], recipe.SignalType(args[1])
	if !recipe.ValidID(user) {
		return "", "", fmt.Errorf("invalid user id %q", user)
	}
	if !signal.Learned() {
		return "", "", fmt.Errorf("signal %q has no learned weights", signal)
	}
	return user, signal, nil
}

func newSnapshotsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the latest snapshot of every user and signal",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openSnapshots(cmd)
			if err != nil {
				return err
			}
			metas, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list snapshots: %w", err)
			}
			if wantJSON(cmd) {
				return outputJSON(cmd, metas)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USER\tSIGNAL\tVERSION\tMETHOD\tSAMPLES\tTRAINED")
			for _, m := range metas {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
					m.UserID, m.Signal, m.Version, m.Method, m.Samples, m.TrainedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newSnapshotsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <user> <signal>",
		Short: "Show the weights and metrics of a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, signal, err := snapshotKey(args)
			if err != nil {
				return err
			}
			store, err := openSnapshots(cmd)
			if err != nil {
				return err
			}
			version, _ := cmd.Flags().GetInt("version")
			snap, meta, err := store.Load(cmd.Context(), user, signal, version)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no snapshot for %s/%s", user, signal)
			}
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}

			if wantJSON(cmd) {
				return outputJSON(cmd, map[string]any{
					"metadata": meta,
					"weights":  snap.Weights,
					"metrics":  snap.Metrics,
				})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s/%s v%d (%s, %d samples, mse=%.4f r2=%.4f)\n",
				meta.UserID, meta.Signal, meta.Version, meta.Method, meta.Samples, snap.Metrics.MSE, snap.Metrics.R2)
			fmt.Fprintf(w, "trained %s, checksum %s\n", meta.TrainedAt.Format(time.RFC3339), meta.Checksum)
			for _, f := range snap.Weights.Keys() {
				fmt.Fprintf(w, "  %-14s %.4f\n", f, snap.Weights[f])
			}
			if vs := store.Versions(meta.UserID, meta.Signal); len(vs) > 1 {
				fmt.Fprintf(w, "versions: %v\n", vs)
			}
			return nil
		},
	}
	cmd.Flags().Int("version", 0, "Snapshot version (0 is the latest)")
	return cmd
}

// newSnapshotsRestoreCmd writes a snapshot's weights and metrics back into
// a Badger store, the default durable driver of the server. The server
// must be stopped: Badger allows a single process per directory.
func newSnapshotsRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <user> <signal>",
		Short: "Restore snapshot weights into a Badger store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, signal, err := snapshotKey(args)
			if err != nil {
				return err
			}
			badgerPath, _ := cmd.Flags().GetString("badger-path")
			if badgerPath == "" {
				return errors.New("--badger-path is required")
			}
			snaps, err := openSnapshots(cmd)
			if err != nil {
				return err
			}
			version, _ := cmd.Flags().GetInt("version")
			snap, meta, err := snaps.Load(cmd.Context(), user, signal, version)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no snapshot for %s/%s", user, signal)
			}
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}

			if err := restoreSnapshot(cmd, badgerPath, user, signal, snap); err != nil {
				return err
			}

			if wantJSON(cmd) {
				return outputJSON(cmd, meta)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s/%s v%d into %s\n", user, signal, meta.Version, badgerPath)
			return nil
		},
	}
	cmd.Flags().Int("version", 0, "Snapshot version (0 is the latest)")
	cmd.Flags().String("badger-path", "", "Badger store directory of the server")
	return cmd
}

func restoreSnapshot(cmd *cobra.Command, path, user string, signal recipe.SignalType, snap storage.Snapshot) (err error) {
	store, err := storage.OpenBadgerStore(path)
	if err != nil {
		return fmt.Errorf("open badger store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close badger store: %w", cerr)
		}
	}()

	m := snap.Metrics
	m.UserID, m.Signal = user, signal
	if err := store.PutWeights(cmd.Context(), user, signal, snap.Weights); err != nil {
		return fmt.Errorf("restore weights: %w", err)
	}
	if err := store.PutMetrics(cmd.Context(), m); err != nil {
		return fmt.Errorf("restore metrics: %w", err)
	}
	return nil
}

func newSnapshotsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <user> <signal>",
		Short: "Delete one snapshot version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, signal, err := snapshotKey(args)
			if err != nil {
				return err
			}
			version, _ := cmd.Flags().GetInt("version")
			if version < 1 {
				return errors.New("--version is required")
			}
			store, err := openSnapshots(cmd)
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), user, signal, version); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return fmt.Errorf("no snapshot %s/%s v%d", user, signal, version)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s v%d\n", user, signal, version)
			return nil
		},
	}
	cmd.Flags().Int("version", 0, "Snapshot version to delete")
	return cmd
}
