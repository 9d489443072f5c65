package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds generated slugs, in bytes.
const MaxSlugLength = 96

// Slugify lowercases s, folds diacritics and joins alphanumeric runs with "-".
func Slugify(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			if b.Len() >= MaxSlugLength {
				break
			}
			continue
		}
		pendingDash = true
	}
	return strings.TrimRight(b.String(), "-")
}

// ValidSlug reports whether s is already in Slugify's output form.
func ValidSlug(s string) bool {
	return s != "" && Slugify(s) == s
}
