package convert

import (
	"testing"

	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarekiCandidates(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{"2019ねん", []string{"令和元年", "平成31年"}},
		{"1989ねん", []string{"平成元年", "昭和64年"}},
		{"2024ねん", []string{"令和6年"}},
		{"1900ねん", []string{"明治33年"}},
		{"1800ねん", nil},
		{"2019", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := warekiCandidates(kana.FromKana(tc.input))
			if tc.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.expected, texts(got))
			for _, c := range got {
				assert.Equal(t, dicdata.PValue(dateValue), c.Value)
				assert.Equal(t, dicdata.MIDYear, c.LastMID)
			}
		})
	}

	romaji := warekiCandidates(kana.FromKana("2019").Append("nenn", kana.Roman2Kana))
	assert.Equal(t, []string{"令和元年", "平成31年"}, texts(romaji))
	assert.Equal(t, 8, romaji[0].CorrespondingCount)
}

func TestSeirekiCandidates(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{"へいせい31ねん", []string{"2019年"}},
		{"れいわがんねん", []string{"2019年"}},
		{"しょうわ64ねん", []string{"1989年"}},
		{"たいしょう20ねん", nil},
		{"へいせい0ねん", nil},
		{"へいせい", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := seirekiCandidates(kana.FromKana(tc.input))
			if tc.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.expected, texts(got))
		})
	}
}

func TestEmailCandidates(t *testing.T) {
	got := emailCandidates(kana.FromKana("taro@g"))
	assert.Equal(t, []string{"taro@gmail.com"}, texts(got))
	assert.Equal(t, dicdata.PValue(emailValue), got[0].Value)

	assert.Len(t, emailCandidates(kana.FromKana("taro@")), len(emailDomains))
	assert.Equal(t, []string{"taro@yahoo.co.jp"}, texts(emailCandidates(kana.FromKana("taro@Yahoo"))))
	assert.Empty(t, emailCandidates(kana.FromKana("taro")))
	assert.Empty(t, emailCandidates(kana.FromKana("taro@x")))
}

func TestVersionCandidates(t *testing.T) {
	opts := DefaultOptions()
	assert.Empty(t, versionCandidates(kana.FromKana("ばーじょん"), opts))

	opts.AppVersion = "1.2.0"
	got := versionCandidates(kana.FromKana("ばーじょん"), opts)
	require.Len(t, got, 1)
	assert.Equal(t, "kanaserve Version 1.2.0", got[0].Text)
	assert.Equal(t, dicdata.PValue(versionValue), got[0].Value)

	assert.Empty(t, versionCandidates(kana.FromKana("ばーじょ"), opts))
}

func TestUnicodeCandidates(t *testing.T) {
	assert.Equal(t, []string{"あ"}, texts(unicodeCandidates(kana.FromKana("U+3042"))))
	assert.Equal(t, []string{"あ"}, texts(unicodeCandidates(kana.FromKana("u3042"))))
	assert.Equal(t, []string{"😀"}, texts(unicodeCandidates(kana.FromKana("U+1F600"))))
	assert.Empty(t, unicodeCandidates(kana.FromKana("U+D800")))
	assert.Empty(t, unicodeCandidates(kana.FromKana("U+110000")))
	assert.Empty(t, unicodeCandidates(kana.FromKana("U+30")))
}

func TestTypographyCandidates(t *testing.T) {
	got := texts(typographyCandidates(kana.FromKana("Hi")))
	require.Len(t, got, len(letterStyles))
	assert.Equal(t, string([]rune{0x1D400 + 'H' - 'A', 0x1D41A + 'i' - 'a'}), got[0], "bold")
	assert.Equal(t, string([]rune{0x1D434 + 'H' - 'A', 0x1D44E + 'i' - 'a'}), got[1], "italic")
	assert.Equal(t, string([]rune{'ℍ', 0x1D552 + 'i' - 'a'}), got[2], "double-struck")

	italic := texts(typographyCandidates(kana.FromKana("h1")))[1]
	assert.Equal(t, "ℎ1", italic)
	doubleStruck := texts(typographyCandidates(kana.FromKana("C1")))[2]
	assert.Equal(t, string([]rune{'ℂ', 0x1D7D9}), doubleStruck)

	assert.Empty(t, typographyCandidates(kana.FromKana("かな")))
}

func TestWiseCandidatesOptIn(t *testing.T) {
	opts := DefaultOptions()
	assert.Empty(t, wiseCandidates(kana.FromKana("U+3042"), opts))
	assert.Empty(t, wiseCandidates(kana.FromKana("abc"), opts))

	opts.UnicodeCandidate = true
	opts.TypographyLetter = true
	assert.Equal(t, []string{"あ"}, texts(wiseCandidates(kana.FromKana("U+3042"), opts)))
	assert.Len(t, wiseCandidates(kana.FromKana("abc"), opts), len(letterStyles))
}
