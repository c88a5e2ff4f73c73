package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/kanaserve/internal/utils"
	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/kana"
)

type era struct {
	name  string
	ruby  string
	start int
	// last is the final year of the era, 0 while it is current.
	last int
}

// eras is ordered oldest first. Consecutive eras share their boundary year.
var eras = []era{
	{"明治", "めいじ", 1868, 1912},
	{"大正", "たいしょう", 1912, 1926},
	{"昭和", "しょうわ", 1926, 1989},
	{"平成", "へいせい", 1989, 2019},
	{"令和", "れいわ", 2019, 0},
}

var (
	gregorianPattern = regexp.MustCompile(`^([0-9]{1,4})ねん$`)
	eraPattern       = regexp.MustCompile(`^(めいじ|たいしょう|しょうわ|へいせい|れいわ)([0-9]{1,2}|がん)ねん$`)
	emailPattern     = regexp.MustCompile(`^([A-Za-z0-9._%+-]+)@([A-Za-z0-9.-]*)$`)
	unicodePattern   = regexp.MustCompile(`^[uU]\+?([0-9a-fA-F]{4,6})$`)
)

var emailDomains = []string{
	"gmail.com",
	"icloud.com",
	"yahoo.co.jp",
	"outlook.com",
	"docomo.ne.jp",
	"ezweb.ne.jp",
	"softbank.ne.jp",
}

// wiseCandidates builds the structural candidates. Date and email
// conversions always run; typography and unicode are opt-in.
func wiseCandidates(input kana.ComposingText, opts Options) []candidate.Candidate {
	var result []candidate.Candidate
	result = append(result, warekiCandidates(input)...)
	result = append(result, seirekiCandidates(input)...)
	result = append(result, emailCandidates(input)...)
	if opts.TypographyLetter {
		result = append(result, typographyCandidates(input)...)
	}
	if opts.UnicodeCandidate {
		result = append(result, unicodeCandidates(input)...)
	}
	result = append(result, versionCandidates(input, opts)...)
	return result
}

func wiseCandidate(input kana.ComposingText, text string, mid dicdata.MID, value dicdata.PValue) candidate.Candidate {
	ruby := kana.ToKatakana(input.ConvertTarget())
	data := dicdata.New(text, ruby, dicdata.CIDNumber, mid, value)
	return candidate.Single(text, value, input.Len(), data)
}

// warekiCandidates converts "2019ねん" to the Japanese era years it falls
// in, newest era first ("令和元年", "平成31年").
func warekiCandidates(input kana.ComposingText) []candidate.Candidate {
	m := gregorianPattern.FindStringSubmatch(input.ConvertTarget())
	if m == nil {
		return nil
	}
	year, err := strconv.Atoi(m[1])
	if err != nil || year < eras[0].start {
		return nil
	}
	var result []candidate.Candidate
	for i := len(eras) - 1; i >= 0; i-- {
		e := eras[i]
		if year < e.start || (e.last != 0 && year > e.last) {
			continue
		}
		n := year - e.start + 1
		text := e.name + strconv.Itoa(n) + "年"
		if n == 1 {
			text = e.name + "元年"
		}
		result = append(result, wiseCandidate(input, text, dicdata.MIDYear, dateValue))
	}
	return result
}

// seirekiCandidates converts "へいせい31ねん" or "れいわがんねん" to the
// Gregorian year.
func seirekiCandidates(input kana.ComposingText) []candidate.Candidate {
	m := eraPattern.FindStringSubmatch(input.ConvertTarget())
	if m == nil {
		return nil
	}
	n := 1
	if m[2] != "がん" {
		var err error
		if n, err = strconv.Atoi(m[2]); err != nil || n < 1 {
			return nil
		}
	}
	for _, e := range eras {
		if e.ruby != m[1] {
			continue
		}
		year := e.start + n - 1
		if e.last != 0 && year > e.last {
			return nil
		}
		return []candidate.Candidate{wiseCandidate(input, strconv.Itoa(year)+"年", dicdata.MIDYear, dateValue)}
	}
	return nil
}

// emailCandidates completes the domain of a typed address.
func emailCandidates(input kana.ComposingText) []candidate.Candidate {
	m := emailPattern.FindStringSubmatch(input.Characters())
	if m == nil {
		return nil
	}
	local, typed := m[1], strings.ToLower(m[2])
	var result []candidate.Candidate
	for _, domain := range emailDomains {
		if strings.HasPrefix(domain, typed) {
			result = append(result, wiseCandidate(input, local+"@"+domain, dicdata.MIDGeneral, emailValue))
		}
	}
	return result
}

// versionCandidates answers "ばーじょん" with the running version.
func versionCandidates(input kana.ComposingText, opts Options) []candidate.Candidate {
	if opts.AppVersion == "" || input.ConvertTarget() != "ばーじょん" {
		return nil
	}
	name := opts.AppName
	if name == "" {
		name = "kanaserve"
	}
	text := fmt.Sprintf("%s Version %s", name, opts.AppVersion)
	return []candidate.Candidate{wiseCandidate(input, text, dicdata.MIDGeneral, versionValue)}
}

// unicodeCandidates turns "U+3042" into the character it names.
func unicodeCandidates(input kana.ComposingText) []candidate.Candidate {
	m := unicodePattern.FindStringSubmatch(input.Characters())
	if m == nil {
		return nil
	}
	code, err := strconv.ParseInt(m[1], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return nil
	}
	return []candidate.Candidate{wiseCandidate(input, string(rune(code)), dicdata.MIDGeneral, unicodeValue)}
}

type letterStyle struct {
	upper, lower, digit rune
	// exceptions maps letters whose styled form lives outside the block.
	exceptions map[rune]rune
}

var letterStyles = []letterStyle{
	// bold
	{upper: 0x1D400, lower: 0x1D41A, digit: 0x1D7CE},
	// italic
	{upper: 0x1D434, lower: 0x1D44E, exceptions: map[rune]rune{'h': 'ℎ'}},
	// double-struck
	{upper: 0x1D538, lower: 0x1D552, digit: 0x1D7D8, exceptions: map[rune]rune{
		'C': 'ℂ', 'H': 'ℍ', 'N': 'ℕ', 'P': 'ℙ', 'Q': 'ℚ', 'R': 'ℝ', 'Z': 'ℤ',
	}},
	// monospace
	{upper: 0x1D670, lower: 0x1D68A, digit: 0x1D7F6},
	// sans-serif
	{upper: 0x1D5A0, lower: 0x1D5BA, digit: 0x1D7E2},
}

func (s letterStyle) apply(text string) string {
	var b strings.Builder
	for _, r := range text {
		if mapped, ok := s.exceptions[r]; ok {
			b.WriteRune(mapped)
			continue
		}
		switch {
		case 'A' <= r && r <= 'Z':
			b.WriteRune(s.upper + r - 'A')
		case 'a' <= r && r <= 'z':
			b.WriteRune(s.lower + r - 'a')
		case '0' <= r && r <= '9' && s.digit != 0:
			b.WriteRune(s.digit + r - '0')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// typographyCandidates renders ASCII letters and digits in mathematical
// letter styles.
func typographyCandidates(input kana.ComposingText) []candidate.Candidate {
	text := input.Characters()
	if !utils.OnlyASCIIAlphanumeric(text) {
		return nil
	}
	result := make([]candidate.Candidate, 0, len(letterStyles))
	for _, style := range letterStyles {
		result = append(result, wiseCandidate(input, style.apply(text), dicdata.MIDGeneral, typographyValue))
	}
	return result
}
