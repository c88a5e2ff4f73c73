package utils

import (
	"strings"
)

// SuggestionFilter drops repeated words and the typed word itself.
// Not safe for concurrent use.
type SuggestionFilter struct {
	seenWords map[string]bool
	inputWord string
}

// NewSuggestionFilter creates a filter that already excludes the given input word
func NewSuggestionFilter(input string) *SuggestionFilter {
	lowerInput := strings.ToLower(input)
	return &SuggestionFilter{
		seenWords: map[string]bool{lowerInput: true},
		inputWord: lowerInput,
	}
}

// ShouldInclude reports whether word is new, case-insensitively, and marks it seen.
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	lowerWord := strings.ToLower(word)
	if f.seenWords[lowerWord] {
		return false
	}
	f.seenWords[lowerWord] = true
	return true
}
