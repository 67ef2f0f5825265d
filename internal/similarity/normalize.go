// Package similarity detects near-duplicate game titles.
package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var articles = []string{"the", "a", "an"}

// Normalize folds a title for comparison: NFKC, lower case, punctuation removed,
// whitespace collapsed and a single leading English article dropped.
func Normalize(name string) string {
	s := strings.ToLower(norm.NFKC.String(name))

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case isWord(r):
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}
	out := b.String()

	for _, a := range articles {
		if rest, ok := strings.CutPrefix(out, a+" "); ok {
			return rest
		}
	}
	return out
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
