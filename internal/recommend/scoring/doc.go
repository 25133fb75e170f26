// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package scoring combines feature vectors with weight vectors and turns
// similarity scores into duplicate warnings.
//
// Everything here is pure. Logging and metrics belong to the caller.
package scoring
