// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package features turns pairs of recipes into similarity feature vectors.
//
// There is exactly one extractor. Every value it produces lies in [0, 1]
// and every pairwise function is symmetric:
//
//   - title: token-sorted Levenshtein ratio of the normalized titles
//   - ingredients: Jaccard over normalized ingredient sets
//   - cuisine: case-insensitive equality, missing never matches
//   - time: ready times within a tolerance (default 15 minutes)
//   - tags, cooking_style, dietary: Jaccard overlap
//   - season: the candidate is in season for the current month
//
// SearchMatch implements the tiered containment heuristic used for live
// search-as-you-type. It is deliberately asymmetric (search term versus
// stored title) and is never part of a feature vector.
//
// Profile features compare a candidate against an accumulated history
// profile instead of a single recipe; the ranking package builds the
// profile and this package scores against it.
package features
