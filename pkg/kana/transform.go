package kana

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const kanaShift = 'ァ' - 'ぁ'

// ToKatakana shifts hiragana (ぁ through ゖ, plus ゝゞ) into the katakana block.
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if ('ぁ' <= r && r <= 'ゖ') || r == 'ゝ' || r == 'ゞ' {
			return r + kanaShift
		}
		return r
	}, s)
}

// ToHiragana is the inverse of ToKatakana; katakana without a hiragana
// counterpart (ヷ, ヺ, ...) is left alone.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if ('ァ' <= r && r <= 'ヶ') || r == 'ヽ' || r == 'ヾ' {
			return r - kanaShift
		}
		return r
	}, s)
}

// ToFullWidth widens ASCII and half-width forms.
func ToFullWidth(s string) string {
	return width.Widen.String(s)
}

// ToHalfWidth narrows full-width letters and katakana. Voiced kana are
// decomposed first so ガ becomes ｶﾞ rather than staying wide.
func ToHalfWidth(s string) string {
	return width.Narrow.String(norm.NFD.String(s))
}

// ToUpper uppercases Latin letters; kana is unaffected.
func ToUpper(s string) string {
	return cases.Upper(language.Und).String(s)
}
