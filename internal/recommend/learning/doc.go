// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package learning adjusts per-user weight vectors from feedback.
//
// Two learners share the package:
//
//   - Online: one stochastic gradient step on squared error per
//     interaction, w += 2*lr*(target-predicted)*f, clamped into
//     [MinWeight, MaxWeight].
//   - Batch: linear least squares over the most recent samples. The
//     normal equations (with a bias column) are solved with a
//     Gauss-Jordan inverse; when the system is under-determined or the
//     pivot falls below tolerance the learner switches to plain gradient
//     descent. The fitted coefficients are clamped non-negative and
//     normalized to sum to 1.
//
// Neither learner touches storage or logs; both are pure functions of
// their inputs.
package learning
