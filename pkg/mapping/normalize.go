package mapping

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents decomposes characters and removes combining marks, so "Prénom"
// folds to "Prenom".
var foldAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// NormKey normalizes a field name for matching: accents folded, lowercased,
// everything but ASCII letters and digits stripped.
func NormKey(name string) string {
	folded, _, err := transform.String(foldAccents, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Singular treats a trailing "s" as optional, so "emails" matches "email".
func Singular(normed string) string {
	if strings.HasSuffix(normed, "s") {
		return normed[:len(normed)-1]
	}
	return normed
}

// SameKey reports whether two field names normalize to the same key.
func SameKey(a, b string) bool {
	return NormKey(a) == NormKey(b)
}
