package detection

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeLabel capitalizes each whitespace-separated word of a detector
// label and joins the words with single spaces ("salad green" -> "Salad Green").
// Only the first rune of a word is upper-cased and the remainder is lower-cased,
// so "SW pink" becomes "Sw Pink" and "coca-cola" stays "Coca-cola".
func NormalizeLabel(label string) string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return ""
	}
	// Casers carry state and must not be shared between goroutines.
	lower := cases.Lower(language.Und)
	for i, word := range words {
		words[i] = capitalize(lower, word)
	}
	return strings.Join(words, " ")
}

func capitalize(lower cases.Caser, word string) string {
	first, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToTitle(first)) + lower.String(word[size:])
}
