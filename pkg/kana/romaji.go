package kana

import (
	"strings"
	"unicode/utf8"
)

// romajiTable maps lowercase romaji syllables to hiragana.
var romajiTable = buildRomajiTable()

// maxRomajiKey is the longest key in romajiTable ("xtsu").
const maxRomajiKey = 4

func buildRomajiTable() map[string]string {
	table := map[string]string{
		"a": "あ", "i": "い", "u": "う", "e": "え", "o": "お",
		"shi": "し", "chi": "ち", "tsu": "つ", "fu": "ふ", "ji": "じ",
		"xtu": "っ", "ltu": "っ", "xtsu": "っ", "ltsu": "っ",
		"xwa": "ゎ", "lwa": "ゎ", "xka": "ゕ", "xke": "ゖ",
		"nn": "ん", "n'": "ん", "xn": "ん",
		"ye": "いぇ", "wyi": "ゐ", "wye": "ゑ",
		"-": "ー", ",": "、", ".": "。", "[": "「", "]": "」", "~": "〜",
	}
	rows := []struct {
		head string
		kana [5]string
	}{
		{"k", [5]string{"か", "き", "く", "け", "こ"}},
		{"s", [5]string{"さ", "し", "す", "せ", "そ"}},
		{"t", [5]string{"た", "ち", "つ", "て", "と"}},
		{"n", [5]string{"な", "に", "ぬ", "ね", "の"}},
		{"h", [5]string{"は", "ひ", "ふ", "へ", "ほ"}},
		{"m", [5]string{"ま", "み", "む", "め", "も"}},
		{"y", [5]string{"や", "", "ゆ", "", "よ"}},
		{"r", [5]string{"ら", "り", "る", "れ", "ろ"}},
		{"w", [5]string{"わ", "うぃ", "う", "うぇ", "を"}},
		{"g", [5]string{"が", "ぎ", "ぐ", "げ", "ご"}},
		{"z", [5]string{"ざ", "じ", "ず", "ぜ", "ぞ"}},
		{"d", [5]string{"だ", "ぢ", "づ", "で", "ど"}},
		{"b", [5]string{"ば", "び", "ぶ", "べ", "ぼ"}},
		{"p", [5]string{"ぱ", "ぴ", "ぷ", "ぺ", "ぽ"}},
		{"f", [5]string{"ふぁ", "ふぃ", "ふ", "ふぇ", "ふぉ"}},
		{"v", [5]string{"ゔぁ", "ゔぃ", "ゔ", "ゔぇ", "ゔぉ"}},
		{"j", [5]string{"じゃ", "じ", "じゅ", "じぇ", "じょ"}},
		{"x", [5]string{"ぁ", "ぃ", "ぅ", "ぇ", "ぉ"}},
		{"l", [5]string{"ぁ", "ぃ", "ぅ", "ぇ", "ぉ"}},
		{"ky", [5]string{"きゃ", "きぃ", "きゅ", "きぇ", "きょ"}},
		{"gy", [5]string{"ぎゃ", "ぎぃ", "ぎゅ", "ぎぇ", "ぎょ"}},
		{"sy", [5]string{"しゃ", "しぃ", "しゅ", "しぇ", "しょ"}},
		{"sh", [5]string{"しゃ", "し", "しゅ", "しぇ", "しょ"}},
		{"zy", [5]string{"じゃ", "じぃ", "じゅ", "じぇ", "じょ"}},
		{"jy", [5]string{"じゃ", "じぃ", "じゅ", "じぇ", "じょ"}},
		{"ty", [5]string{"ちゃ", "ちぃ", "ちゅ", "ちぇ", "ちょ"}},
		{"cy", [5]string{"ちゃ", "ちぃ", "ちゅ", "ちぇ", "ちょ"}},
		{"ch", [5]string{"ちゃ", "ち", "ちゅ", "ちぇ", "ちょ"}},
		{"dy", [5]string{"ぢゃ", "ぢぃ", "ぢゅ", "ぢぇ", "ぢょ"}},
		{"ny", [5]string{"にゃ", "にぃ", "にゅ", "にぇ", "にょ"}},
		{"hy", [5]string{"ひゃ", "ひぃ", "ひゅ", "ひぇ", "ひょ"}},
		{"by", [5]string{"びゃ", "びぃ", "びゅ", "びぇ", "びょ"}},
		{"py", [5]string{"ぴゃ", "ぴぃ", "ぴゅ", "ぴぇ", "ぴょ"}},
		{"my", [5]string{"みゃ", "みぃ", "みゅ", "みぇ", "みょ"}},
		{"ry", [5]string{"りゃ", "りぃ", "りゅ", "りぇ", "りょ"}},
		{"ts", [5]string{"つぁ", "つぃ", "つ", "つぇ", "つぉ"}},
		{"th", [5]string{"てゃ", "てぃ", "てゅ", "てぇ", "てょ"}},
		{"dh", [5]string{"でゃ", "でぃ", "でゅ", "でぇ", "でょ"}},
		{"wh", [5]string{"うぁ", "うぃ", "う", "うぇ", "うぉ"}},
		{"xy", [5]string{"ゃ", "ぃ", "ゅ", "ぇ", "ょ"}},
		{"ly", [5]string{"ゃ", "ぃ", "ゅ", "ぇ", "ょ"}},
	}
	const vowels = "aiueo"
	for _, row := range rows {
		for i, v := range vowels {
			if row.kana[i] == "" {
				continue
			}
			key := row.head + string(v)
			if _, exists := table[key]; !exists {
				table[key] = row.kana[i]
			}
		}
	}
	return table
}

func isVowel(c byte) bool {
	return c == 'a' || c == 'i' || c == 'u' || c == 'e' || c == 'o'
}

func isConsonant(c byte) bool {
	return 'a' <= c && c <= 'z' && !isVowel(c)
}

// RomajiToHiragana converts romanized input to hiragana. Letters that do
// not (yet) form a syllable are kept as typed, so "kan" gives "かn"
// until the next keystroke resolves the trailing n.
func RomajiToHiragana(s string) string {
	lower := asciiLower(s)
	var b strings.Builder
	b.Grow(len(lower) * 3)
	for i := 0; i < len(lower); {
		c := lower[i]
		// sokuon: doubled consonant other than n
		if i+1 < len(lower) && c == lower[i+1] && isConsonant(c) && c != 'n' {
			b.WriteString("っ")
			i++
			continue
		}
		// n before a consonant that cannot start an n-syllable
		if c == 'n' && i+1 < len(lower) && isConsonant(lower[i+1]) && lower[i+1] != 'y' && lower[i+1] != 'n' {
			b.WriteString("ん")
			i++
			continue
		}
		matched := false
		for l := min(maxRomajiKey, len(lower)-i); l > 0; l-- {
			if kana, ok := romajiTable[lower[i:i+l]]; ok {
				b.WriteString(kana)
				i += l
				matched = true
				break
			}
		}
		if !matched {
			r, size := utf8.DecodeRuneInString(lower[i:])
			b.WriteRune(r)
			i += size
		}
	}
	return b.String()
}

// asciiLower lowercases ASCII letters only, keeping byte offsets stable.
func asciiLower(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + 'a' - 'A'
		}
		return r
	}, s)
}
