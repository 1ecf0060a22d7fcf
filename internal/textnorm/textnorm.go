// Package textnorm compares product names ignoring accents and case.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks is the Combining Diacritical Marks block (U+0300..U+036F).
var combiningMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

// Fold decomposes s, drops combining diacritical marks and recomposes
// whatever is left. Case is preserved.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(combiningMarks)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key is the lookup key used for catalog matching and duplicate detection.
func Key(s string) string {
	return strings.ToLower(Fold(strings.TrimSpace(s)))
}

// Equal reports whether a and b name the same product.
func Equal(a, b string) bool { return Key(a) == Key(b) }
