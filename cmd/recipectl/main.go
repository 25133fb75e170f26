// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Command recipectl runs the recipe engine offline against YAML fixture
// files and inspects weight snapshots written by the server.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	if err := fang.Execute(context.Background(), NewRootCmd(version)); err != nil {
		os.Exit(1)
	}
}
