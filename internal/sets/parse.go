// Package sets implements the power set and set equality operations served
// by setlab. Everything here is pure and safe for concurrent use.
package sets

import (
	"strings"
	"unicode"
)

// Separator splits elements in user input.
const Separator = ","

// Parse splits input on commas, trims white space around each token and
// drops tokens that end up empty. Order and duplicates are preserved.
func Parse(input string) []string {
	tokens := make([]string, 0, strings.Count(input, Separator)+1)
	for _, part := range strings.Split(input, Separator) {
		if token := strings.TrimFunc(part, isSpace); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// isSpace reports Unicode white space plus the ASCII file, group, record
// and unit separators (U+001C..U+001F), which browsers and shells pass
// through untouched but which users never mean as element content.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
