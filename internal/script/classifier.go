// Package script classifies which writing systems a string uses.
//
// The predicates are heuristics for telling Japanese titles apart from Chinese
// and English ones; they are not a language identifier.
package script

import "strings"

// Glyphs used in Chinese orthography (traditional and simplified) but not in Japanese.
var chineseOnly = map[rune]bool{
	'們': true, '個': true, '動': true,
	'们': true, '个': true, '动': true,
}

// English phrases that merely point at a Japanese edition.
var japanReferences = []string{"japanese", "japan edition", "japan version"}

// IsKana reports whether r is hiragana or katakana.
func IsKana(r rune) bool {
	return (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF)
}

// IsKanji reports whether r is a CJK unified ideograph.
func IsKanji(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FAF
}

// IsCJK reports whether r is kana or kanji.
func IsCJK(r rune) bool {
	return IsKana(r) || IsKanji(r)
}

// HasKana reports whether s contains hiragana or katakana.
func HasKana(s string) bool {
	return strings.ContainsFunc(s, IsKana)
}

// HasKanji reports whether s contains a CJK ideograph.
func HasKanji(s string) bool {
	return strings.ContainsFunc(s, IsKanji)
}

// HasCJK reports whether s contains kana or kanji.
func HasCJK(s string) bool {
	return strings.ContainsFunc(s, IsCJK)
}

// HasKanjiOnly reports whether s has ideographs and no kana.
func HasKanjiOnly(s string) bool {
	return HasKanji(s) && !HasKana(s)
}

// HasHanZh reports whether s contains a glyph specific to Chinese.
func HasHanZh(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return chineseOnly[r] })
}

// IsEnglishJapanReference reports whether s only refers to Japan in Latin script,
// e.g. "Japanese Edition".
func IsEnglishJapanReference(s string) bool {
	if HasCJK(s) {
		return false
	}
	lower := strings.ToLower(s)
	for _, ref := range japanReferences {
		if strings.Contains(lower, ref) {
			return true
		}
	}
	return false
}

// IsValidLocalizedName reports whether s can be used as a Japanese title.
func IsValidLocalizedName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || !HasCJK(s) || IsEnglishJapanReference(s) {
		return false
	}
	return !HasHanZh(s)
}
