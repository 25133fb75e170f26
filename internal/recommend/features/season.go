// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package features

import (
	"strings"
	"time"
)

// Season is a meteorological season of the northern hemisphere.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
)

// SeasonOf maps a time to its season: Dec-Feb winter, Mar-May spring,
// Jun-Aug summer, Sep-Nov fall.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.December, time.January, time.February:
		return Winter
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	default:
		return Fall
	}
}

// InSeason reports whether seasons contains s. "autumn" is read as fall
// and "all"/"year-round" match every season.
func InSeason(seasons []string, s Season) bool {
	for _, raw := range seasons {
		switch v := strings.ToLower(strings.TrimSpace(raw)); v {
		case "all", "any", "year-round", "year round":
			return true
		case "autumn":
			if s == Fall {
				return true
			}
		default:
			if Season(v) == s {
				return true
			}
		}
	}
	return false
}
