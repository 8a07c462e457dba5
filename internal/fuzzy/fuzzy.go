// Package fuzzy provides the near-equality primitive used by the query
// parser and location resolver: a plain Levenshtein edit distance plus the
// tolerance rules the callers share.
package fuzzy

import (
	"strings"
	"unicode"
)

// Distance returns the Levenshtein edit distance between a and b
// (unit-cost insert, delete, substitute), case-insensitive.
func Distance(a, b string) int {
	left := []rune(strings.ToLower(a))
	right := []rune(strings.ToLower(b))
	if len(left) == 0 {
		return len(right)
	}
	if len(right) == 0 {
		return len(left)
	}

	prev := make([]int, len(right)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(left); i++ {
		diagonal := prev[0]
		prev[0] = i
		for j := 1; j <= len(right); j++ {
			tmp := prev[j]
			cost := 1
			if left[i-1] == right[j-1] {
				cost = 0
			}
			prev[j] = min(prev[j]+1, min(prev[j-1]+1, diagonal+cost))
			diagonal = tmp
		}
	}
	return prev[len(right)]
}

// WithinTolerance reports whether a and b are at most max edits apart.
func WithinTolerance(a, b string, max int) bool {
	return Distance(a, b) <= max
}

// KeywordMatch reports whether token is the given connector keyword, allowing
// a single edit. Non-letter characters in the token are stripped first.
func KeywordMatch(token, keyword string) bool {
	normalized := stripNonLetters(strings.ToLower(token))
	keyword = strings.ToLower(keyword)
	if normalized == "" || keyword == "" {
		return false
	}
	if normalized == keyword {
		return true
	}
	return Distance(normalized, keyword) <= 1
}

// AliasMatch reports whether value approximately equals alias. Tolerance
// scales with the alias length: two edits from eight characters, one edit
// from five, exact below that.
func AliasMatch(value, alias string) bool {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	normalizedAlias := strings.ToLower(strings.TrimSpace(alias))
	if normalizedValue == "" || normalizedAlias == "" {
		return false
	}
	if normalizedValue == normalizedAlias {
		return true
	}

	distance := Distance(normalizedValue, normalizedAlias)
	switch {
	case len(normalizedAlias) >= 8:
		return distance <= 2
	case len(normalizedAlias) >= 5:
		return distance <= 1
	default:
		return false
	}
}

func stripNonLetters(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
