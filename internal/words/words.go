// Package words rearranges a sentence so that its words run from shortest to
// longest.
package words

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Arrange orders the words of sentence by length, keeping the original order
// among words of equal length. Trailing periods are dropped from the input;
// the result starts with a capital letter and ends with exactly one period.
// The first input word is lowercased before sorting so that its capital does
// not travel with it.
func Arrange(sentence string) string {
	words := strings.Fields(strings.TrimRight(sentence, "."))
	if len(words) == 0 {
		return "."
	}
	words[0] = strings.ToLower(words[0])

	slices.SortStableFunc(words, func(a, b string) int {
		return utf8.RuneCountInString(a) - utf8.RuneCountInString(b)
	})

	words[0] = capitalize(words[0])
	return strings.Join(words, " ") + "."
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError && size <= 1 {
		return strings.ToLower(w)
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}
