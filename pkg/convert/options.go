package convert

import "strings"

// KeyboardLanguage is the language of the active keyboard.
type KeyboardLanguage uint8

const (
	LanguageNone KeyboardLanguage = iota
	LanguageJapanese
	LanguageEnglish
	LanguageGreek
)

// Tag is the completion backend language tag.
func (l KeyboardLanguage) Tag() string {
	switch l {
	case LanguageEnglish:
		return "en-US"
	case LanguageGreek:
		return "el"
	case LanguageJapanese:
		return "ja-JP"
	default:
		return ""
	}
}

func (l KeyboardLanguage) String() string {
	switch l {
	case LanguageJapanese:
		return "ja_JP"
	case LanguageEnglish:
		return "en_US"
	case LanguageGreek:
		return "el_GR"
	default:
		return "none"
	}
}

// ParseKeyboardLanguage accepts keyboard names ("en_US") and backend tags ("en-US").
func ParseKeyboardLanguage(s string) (KeyboardLanguage, bool) {
	switch strings.ReplaceAll(strings.ToLower(s), "-", "_") {
	case "", "none":
		return LanguageNone, true
	case "ja", "ja_jp":
		return LanguageJapanese, true
	case "en", "en_us":
		return LanguageEnglish, true
	case "el", "el_gr":
		return LanguageGreek, true
	}
	return LanguageNone, false
}

// Options configures one conversion request.
type Options struct {
	// NBest is the search width kept at every lattice position.
	NBest int
	// TypographyLetter adds bold, italic and similar letter styles.
	TypographyLetter bool
	// UnicodeCandidate converts U+XXXX input to the character.
	UnicodeCandidate bool
	FullWidthRoman   bool
	HalfWidthKana    bool
	// RequireJapanesePrediction adds predictive continuations.
	RequireJapanesePrediction bool
	// RequireEnglishPrediction adds English word completions.
	RequireEnglishPrediction bool
	// EnglishInRoman2Kana offers the typed letters as an English word when
	// everything was typed as romaji.
	EnglishInRoman2Kana bool
	KeyboardLanguage    KeyboardLanguage
	// AppName and AppVersion feed the version candidate; an empty version
	// disables it.
	AppName    string
	AppVersion string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		NBest:                     10,
		RequireJapanesePrediction: true,
		EnglishInRoman2Kana:       true,
		KeyboardLanguage:          LanguageJapanese,
		AppName:                   "kanaserve",
	}
}
