package search

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/sahilm/fuzzy"
)

// Similarity scores for each way a query token can match a vocabulary token
const (
	simExact     = 1.0
	simPrefix    = 0.9
	simSubstring = 0.75
	simTypoCap   = 0.85
	simSubseq    = 0.6
)

// maxEdits is the edit-distance budget for a query token of n runes
func maxEdits(n int) int {
	switch {
	case n <= 3:
		return 0
	case n <= 5:
		return 1
	default:
		return 2
	}
}

// similarity compares a folded query token with a vocabulary token.
// Returns 0 when they do not match.
func similarity(q, v string) float64 {
	if q == v {
		return simExact
	}
	if strings.HasPrefix(v, q) {
		return simPrefix
	}

	ql := utf8.RuneCountInString(q)
	vl := utf8.RuneCountInString(v)
	if ql >= 3 && strings.Contains(v, q) {
		return simSubstring
	}

	if budget := maxEdits(ql); budget > 0 && abs(ql-vl) <= budget {
		if d := levenshtein.ComputeDistance(q, v); d <= budget {
			longest := max(ql, vl)
			return min(simTypoCap, 1-float64(d)/float64(longest))
		}
	}

	if ql >= 3 && ql <= vl {
		if matches := fuzzy.Find(q, []string{v}); len(matches) > 0 {
			return simSubseq * float64(ql) / float64(vl)
		}
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
