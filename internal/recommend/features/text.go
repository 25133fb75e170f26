// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package features

import (
	"sort"
	"strings"
	"unicode"
)

// NormalizeText lower-cases s, drops every rune that is not a letter,
// digit or whitespace, and collapses whitespace runs to single spaces.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// titleKey is the comparison form of a title: normalized with its tokens
// sorted, so word order does not count as an edit.
func titleKey(s string) string {
	tokens := strings.Fields(NormalizeText(s))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TitleSimilarity returns 1 - lev/maxlen over the title keys of a and b.
// Equal keys score 1 and an empty key on either side scores 0.
func TitleSimilarity(a, b string) float64 {
	ka, kb := titleKey(a), titleKey(b)
	if ka == "" || kb == "" {
		return 0
	}
	if ka == kb {
		return 1
	}

	ra, rb := []rune(ka), []rune(kb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

// levenshtein computes the edit distance between a and b using two rows.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// NormalizeSet lower-cases and trims every value, dropping empties and
// duplicates.
func NormalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

// Jaccard returns |A∩B| / |A∪B| over normalized sets. Two empty sets are
// identical and score 1; exactly one empty set scores 0.
func Jaccard(a, b []string) float64 {
	return jaccardSets(NormalizeSet(a), NormalizeSet(b))
}

func jaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	var inter int
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Overlap is Jaccard for optional metadata: when neither side carries any
// values there is no evidence of overlap and the result is 0.
func Overlap(a, b []string) float64 {
	sa, sb := NormalizeSet(a), NormalizeSet(b)
	if len(sa) == 0 && len(sb) == 0 {
		return 0
	}
	return jaccardSets(sa, sb)
}
