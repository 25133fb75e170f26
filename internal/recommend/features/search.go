// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package features

import "strings"

// SearchMatch scores a typed search term against a stored title using the
// configured containment tiers, falling back to token Jaccard. The result
// is asymmetric: SearchMatch(a, b) need not equal SearchMatch(b, a).
func (e *Extractor) SearchMatch(term, title string) float64 {
	t, s := NormalizeText(term), NormalizeText(title)
	if t == "" || s == "" {
		return 0
	}

	tiers := e.cfg.Search
	switch {
	case t == s:
		return tiers.Exact
	case strings.Contains(s, t):
		return tiers.TermInTitle
	case strings.Contains(t, s):
		return tiers.TitleInTerm
	}

	termTokens, titleTokens := strings.Fields(t), strings.Fields(s)
	if partialContainment(termTokens, titleTokens, tiers.MinPartialTokenLen) {
		return tiers.Partial
	}
	return Jaccard(termTokens, titleTokens)
}

// partialContainment reports whether some sufficiently long term token is
// contained in a title token, or the other way round.
func partialContainment(termTokens, titleTokens []string, minLen int) bool {
	for _, tt := range termTokens {
		for _, st := range titleTokens {
			if len(tt) >= minLen && strings.Contains(st, tt) {
				return true
			}
			if len(st) >= minLen && strings.Contains(tt, st) {
				return true
			}
		}
	}
	return false
}
