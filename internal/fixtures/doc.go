// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

// Package fixtures loads recipes and labeled interactions from YAML files.
//
// The server uses fixtures to seed an empty recipe store (SEED_PATH) and
// recipectl uses them as input for offline similarity, warning and
// training runs.
//
// A fixture file looks like:
//
//	input:
//	  title: Chicken Tikka Masala
//	  ingredients: [chicken, yogurt, tomato]
//	  cuisine: indian
//	recipes:
//	  - id: r-001
//	    title: Chicken Tikka
//	    ingredients: [chicken, yogurt]
//	interactions:
//	  - user_id: u1
//	    decision: liked
//	    features: {title: 0.8, ingredients: 0.6}
package fixtures
