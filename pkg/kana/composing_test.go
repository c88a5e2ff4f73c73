package kana

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRomajiToHiragana(t *testing.T) {
	testCases := []struct {
		input       string
		expected    string
		description string
	}{
		{"ka", "か", "Basic syllable"},
		{"kanji", "かんじ", "n before consonant"},
		{"kan", "かn", "Trailing n stays pending"},
		{"konnnichiha", "こんにちは", "nn then ni"},
		{"gakkou", "がっこう", "Sokuon from doubled consonant"},
		{"shashin", "しゃしn", "Digraphs"},
		{"toukyou", "とうきょう", "Youon"},
		{"ra-men", "らーめn", "Long vowel mark"},
		{"KA", "か", "Uppercase is folded"},
		{"q", "q", "Unconvertible letter is kept"},
		{"", "", "Empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, RomajiToHiragana(tc.input))
		})
	}
}

func TestConvertTargetMixesStyles(t *testing.T) {
	text := FromKana("か").Append("nji", Roman2Kana)
	assert.Equal(t, "かんじ", text.ConvertTarget())
	assert.False(t, text.SingleStyle())
	assert.True(t, FromRoman("abc").AllStyle(Roman2Kana))
}

func TestDifferenceSuffix(t *testing.T) {
	testCases := []struct {
		previous    string
		current     string
		expected    InputDelta
		description string
	}{
		{"か", "かん", InputDelta{Deleted: 0, Added: 1}, "Append one"},
		{"かんじ", "かん", InputDelta{Deleted: 1, Added: 0}, "Delete one"},
		{"かんじ", "かんだ", InputDelta{Deleted: 1, Added: 1}, "Replace tail"},
		{"かんじ", "かんじ", InputDelta{Deleted: 0, Added: 0}, "Unchanged"},
		{"あいう", "かいう", InputDelta{Deleted: 3, Added: 3}, "Edit at head"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			delta := FromKana(tc.current).DifferenceSuffix(FromKana(tc.previous))
			assert.Equal(t, tc.expected, delta)
		})
	}
}

func TestInputHasSuffix(t *testing.T) {
	previous := FromKana("へんかんする")
	assert.True(t, previous.InputHasSuffix(FromKana("する")))
	assert.False(t, previous.InputHasSuffix(FromKana("へんかん")))
	assert.False(t, previous.InputHasSuffix(ComposingText{}))
}

func TestEqualComparesStyle(t *testing.T) {
	assert.True(t, FromKana("あ").Equal(FromKana("あ")))
	assert.False(t, FromKana("a").Equal(FromRoman("a")))
}

func TestInputCountRomaji(t *testing.T) {
	text := FromRoman("kanji")
	require.Equal(t, "かんじ", text.ConvertTarget())

	assert.Equal(t, 0, text.InputCount(0))
	assert.Equal(t, 2, text.InputCount(1))
	// "kan" still reads かn, so ん is only settled by the j
	assert.Equal(t, 4, text.InputCount(2))
	assert.Equal(t, 5, text.InputCount(3))
	assert.Equal(t, []int{0, 2, 4, 5}, text.Boundaries())
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := FromKana("か")
	grown := base.Append("ん", Direct)
	shrunk := grown.DeleteLast(1)

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, grown.Len())
	assert.True(t, shrunk.Equal(base))
}

func TestKanaTransforms(t *testing.T) {
	assert.Equal(t, "カンジ", ToKatakana("かんじ"))
	assert.Equal(t, "かんじ", ToHiragana("カンジ"))
	assert.Equal(t, "ａｂｃ", ToFullWidth("abc"))
	assert.Equal(t, "ABC", ToUpper("abc"))
	assert.Equal(t, "ｱ", ToHalfWidth("ア"))
}

// boundariesByPrefix converts every prefix on its own.
func boundariesByPrefix(t ComposingText) []int {
	full := []rune(t.ConvertTarget())
	bounds := make([]int, len(full)+1)
	n := 0
	for k := 1; k <= len(full); k++ {
		for n < t.Len() {
			partial := []rune(t.Prefix(n).ConvertTarget())
			if len(partial) >= k && string(partial[:k]) == string(full[:k]) {
				break
			}
			n++
		}
		bounds[k] = n
	}
	return bounds
}

func TestBoundariesMatchPrefixConversion(t *testing.T) {
	testCases := []struct {
		text        ComposingText
		description string
	}{
		{FromKana("かんじをへんかんする"), "Kana only"},
		{FromRoman("konnnichihagakkoudesu"), "Romaji only"},
		{FromRoman("kan"), "Pending n"},
		{FromKana("か").Append("nji", Roman2Kana).Append("を", Direct).Append("hennkann", Roman2Kana), "Mixed runs"},
		{FromRoman("ra-mennq").Append("ー", Direct), "Unconvertible letter then kana"},
		{ComposingText{}, "Empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			want := boundariesByPrefix(tc.text)
			assert.Equal(t, want, tc.text.Boundaries())
			for k := range want {
				assert.Equal(t, want[k], tc.text.InputCount(k), "rune %d", k)
			}
		})
	}
}
