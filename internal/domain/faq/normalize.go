package faq

import (
	"strings"
	"unicode"
)

// normalizeQuestion produces the canonical form used to bucket dashboard searches.
func normalizeQuestion(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		if unicode.IsSpace(r) {
			if !lastSpace {
				builder.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		// treat punctuation as space
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	normalized := strings.TrimSpace(builder.String())
	return strings.Join(strings.Fields(normalized), " ")
}

// slugWords lowercases q, drops every rune that is not a letter, digit or
// whitespace (so "What's" becomes "whats") and returns at most limit words.
func slugWords(q string, limit int) []string {
	var builder strings.Builder
	builder.Grow(len(q))
	for _, r := range strings.ToLower(q) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			builder.WriteRune(r)
		}
	}
	words := strings.Fields(builder.String())
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

// sameQuestion is the duplicate guard's notion of question equality.
func sameQuestion(a, b string) bool {
	return strings.ToLower(strings.TrimSpace(a)) == strings.ToLower(strings.TrimSpace(b))
}
