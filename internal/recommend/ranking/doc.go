// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package ranking orders candidate recipes for a user.
//
// # Personalized mode
//
// A history profile is built from the user's recent like, save and view
// interactions. Each recipe contributes with weight
//
//	exp(-lambda * daysAgo) * strength
//
// where strength is 2 for saves and 1 for likes and views. Every
// candidate is compared against the profile, scored once under the
// user's "like" weights and once under the "save" weights, and the two
// scores are blended (0.6 like, 0.4 save by default). Results are sorted
// by blended score with candidate ID as a stable tie-break.
//
// # Fallback mode
//
// When the candidate source yields nothing, recipes from the recipe
// store are ranked with a degraded heuristic: cuisine, tag and dietary
// matches against the same profile, weighted equally, with no learned
// weights involved. Items are flagged Degraded.
package ranking
