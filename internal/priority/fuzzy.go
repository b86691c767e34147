// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package priority

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// DefaultThreshold is the largest Levenshtein distance at which a broken
// reference is reported as a likely typo of an entity name.
const DefaultThreshold = 2

// Closest returns the candidate with the smallest Levenshtein distance to
// text, provided that distance is within threshold. Ties prefer the shorter
// candidate, then the lexically smaller one, so the answer does not depend
// on candidate order.
func Closest(text string, candidates []string, threshold int) (string, int, bool) {
	best, bestDist := "", -1
	for _, c := range candidates {
		if c == text {
			continue
		}
		if abs(utf8.RuneCountInString(c)-utf8.RuneCountInString(text)) > threshold {
			continue
		}
		d := edlib.LevenshteinDistance(text, c)
		if d > threshold {
			continue
		}
		if bestDist < 0 || better(c, d, best, bestDist) {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 {
		return "", 0, false
	}
	return best, bestDist, true
}

func better(c string, d int, best string, bestDist int) bool {
	if d != bestDist {
		return d < bestDist
	}
	if lc, lb := utf8.RuneCountInString(c), utf8.RuneCountInString(best); lc != lb {
		return lc < lb
	}
	return c < best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
