// Package normalize provides text normalization for matching book titles
// and authors across sources.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text trims, lowercases, and collapses runs of whitespace to one space.
// Full-width and compatibility forms are folded first (NFKC), so "Ｄｕｎｅ"
// and "Dune" normalize identically.
func Text(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Fold is Text with combining marks stripped: "Émile Zola" -> "emile zola".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return Text(folded)
}

// Key builds the dedupe key for a title/author pair. Punctuation and
// whitespace are dropped; letters and digits of every script are kept.
// An empty title and author yield an empty key.
func Key(title, author string) string {
	raw := Fold(title) + "|" + Fold(author)
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, raw)
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// ContainsCJK reports whether s contains any Han characters.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
