// Package slug normalises book names and references into the ASCII forms
// the reference grammar and the identifier index operate on.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// identifierPattern is the only shape a book identifier may take: an optional
// single leading digit followed by letters.
var identifierPattern = regexp.MustCompile(`^(?:\d)?[a-z]+$`)

// IdentifierPattern returns the expression book identifiers must match.
func IdentifierPattern() string {
	return identifierPattern.String()
}

// Identifier converts a book name such as "1 Corinthians" or "Song of Solomon"
// into its identifier ("1corinthians", "songofsolomon"). Accents are removed
// and every character that is not an ASCII letter or digit is dropped.
func Identifier(s string) string {
	return strings.Map(func(r rune) rune {
		if isASCIIAlnum(r) {
			return r
		}
		return -1
	}, fold(s))
}

// IsIdentifier reports whether s has the shape of a book identifier.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// Reference prepares a human-typed reference for the grammar: accents and
// whitespace are removed and letters lowercased. A period directly after a
// letter ends an abbreviated book name ("Gen. 1:1") and is dropped. Other
// punctuation is kept so the grammar can reject it.
func Reference(s string) string {
	var b strings.Builder
	var prev rune
	for _, r := range fold(s) {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '.' && unicode.IsLetter(prev):
			prev = r
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// fold decomposes s to NFD, strips non-spacing marks and lowercases it.
func fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(result)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
