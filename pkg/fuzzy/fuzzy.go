// Package fuzzy provides typo-tolerant matching for short search queries
package fuzzy

import (
	"strings"
)

// Distance is the Levenshtein edit distance between a and b, compared rune by
// rune after lowercasing
func Distance(a, b string) int {
	r1 := []rune(normalize(a))
	r2 := []rune(normalize(b))
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

// Threshold is the edit budget allowed for a query of that length
func Threshold(query string) int {
	n := len([]rune(strings.TrimSpace(query)))
	switch {
	case n <= 3:
		return 0
	case n <= 5:
		return 1
	case n >= 8:
		return 3
	default:
		return 2
	}
}

// Match reports whether query occurs in text as a substring, as a word
// prefix, or within Threshold(query) edits of one of its words
func Match(query, text string) bool {
	query = normalize(query)
	text = normalize(text)
	if query == "" {
		return false
	}
	if strings.Contains(text, query) {
		return true
	}

	threshold := Threshold(query)
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,;:!?()[]{}\"'")
		if strings.HasPrefix(word, query) {
			return true
		}
		if threshold > 0 && Distance(query, word) <= threshold {
			return true
		}
	}
	return false
}

// MatchAny reports whether Match holds for any of texts
func MatchAny(query string, texts ...string) bool {
	for _, t := range texts {
		if Match(query, t) {
			return true
		}
	}
	return false
}

// normalize lowercases and collapses whitespace
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
