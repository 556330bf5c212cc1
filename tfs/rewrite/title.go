package rewrite

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase lowercases every whitespace-separated word and capitalizes its
// first letter. Unlike cases.Title it does not start a new word after
// punctuation, so "ac-dc" becomes "Ac-dc" and "2.mp3" stays as is.
func TitleCase(s string) string {
	// Casers keep state and are not safe for concurrent use.
	lower := cases.Lower(language.Und)
	upper := cases.Upper(language.Und)

	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			b.WriteRune(r)
			startOfWord = true
			continue
		}
		if startOfWord {
			b.WriteString(upper.String(string(r)))
			startOfWord = false
			continue
		}
		b.WriteString(lower.String(string(r)))
	}
	return b.String()
}
