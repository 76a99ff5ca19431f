package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s, strips diacritics and trims surrounding
// whitespace, so "Implementación" and "implementacion" compare equal.
// Applied identically to queries and candidate fields.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		// transform only fails on broken input; fall back to the raw string
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
