// internal/printer/normalize.go
package printer

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// foldings maps common runes outside Latin-1 to a printable Latin-1 stand-in.
var foldings = map[rune]string{
	'\u2018': "'", '\u2019': "'", '\u201A': "'", '\u2032': "'",
	'\u201C': "\"", '\u201D': "\"", '\u201E': "\"", '\u2033': "\"",
	'\u2013': "-", '\u2014': "-", '\u2212': "-",
	'\u2026': "...",
	'\u2022': "*",
	'\u20AC': "EUR",
	'\u2122': "TM",
	'\u2002': " ", '\u2003': " ", '\u2009': " ", '\u202F': " ",
}

// Normalize maps text into the Latin-1 repertoire the printers are configured
// for. Latin-1 runes (accented letters included) pass through unchanged, a few
// typographic runes are folded, anything else becomes '?'.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r <= 0xFF:
			b.WriteRune(r)
		default:
			if f, ok := foldings[r]; ok {
				b.WriteString(f)
			} else {
				b.WriteByte('?')
			}
		}
	}
	return b.String()
}

// EncodeLatin1 converts normalized text to its one-byte-per-rune wire form.
func EncodeLatin1(s string) ([]byte, error) {
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(Normalize(s)))
}
