package clean

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Text returns the normalized form of s: NFKC, punctuation joined or
// stripped, whitespace collapsed, case-folded. Text is idempotent.
func Text(s string) string {
	s = norm.NFKC.String(s)

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); {
		r := runes[i]
		if isWord(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
			i++
			continue
		}

		// Punctuation run [i, j).
		j := i
		for j < len(runes) && !isWord(runes[j]) && !unicode.IsSpace(runes[j]) {
			j++
		}
		joined := i > 0 && isWord(runes[i-1]) && j < len(runes) && isWord(runes[j])
		if !joined {
			b.WriteByte(' ')
		}
		i = j
	}

	out := strings.ReplaceAll(b.String(), "_", " ")
	out = strings.Join(strings.Fields(out), " ")
	return cases.Fold().String(out)
}

// Words returns the normalized words of s in order.
func Words(s string) []string {
	return strings.Fields(Text(s))
}

// Letters returns the normalized target letters of s with all spaces
// removed.
func Letters(s string) []rune {
	return []rune(strings.ReplaceAll(Text(s), " ", ""))
}

// isWord reports whether r belongs to a word: letters, numbers, combining
// marks and the underscore.
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
