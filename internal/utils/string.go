package utils

import (
	"unicode"
	"unicode/utf8"
)

// OnlyRomanAlphabet reports whether s is non-empty and made of ASCII letters only.
func OnlyRomanAlphabet(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

// OnlyLetters reports whether s is non-empty and every rune is a Unicode letter.
func OnlyLetters(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// OnlyASCIIAlphanumeric reports whether s is non-empty ASCII letters and digits.
func OnlyASCIIAlphanumeric(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf || !(unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))) {
			return false
		}
	}
	return true
}

// IsRepetitive checks if a string is one character repeated 3+ times ("aaa", "www").
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}
	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}
