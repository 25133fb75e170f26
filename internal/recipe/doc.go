// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package recipe defines the domain types shared by the similarity and
// recommendation packages: recipes, feature and weight vectors, interaction
// records and model metrics.
//
// The package is a leaf: it imports nothing from the rest of the module so
// that extraction, scoring, learning and storage can all depend on it
// without cycles.
package recipe
