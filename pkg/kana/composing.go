// Package kana models the typed input sequence and its phonetic conversion target.
package kana

import (
	"strings"
	"unicode/utf8"
)

// InputStyle tells how a typed element reaches the conversion target.
type InputStyle uint8

const (
	// Direct elements are kana (or symbols) typed as-is.
	Direct InputStyle = iota
	// Roman2Kana elements are romaji letters converted through the romaji table.
	Roman2Kana
)

func (s InputStyle) String() string {
	switch s {
	case Direct:
		return "direct"
	case Roman2Kana:
		return "roman2kana"
	default:
		return "unknown"
	}
}

// InputElement is one keystroke.
type InputElement struct {
	Character rune
	Style     InputStyle
}

// ComposingText is the input sequence being composed. Values are treated
// as immutable; every edit returns a new ComposingText.
type ComposingText struct {
	Input []InputElement
}

// InputDelta is a tail-anchored difference: Deleted trailing elements of
// the previous sequence were replaced by Added new ones.
type InputDelta struct {
	Deleted int
	Added   int
}

// FromKana builds a sequence of direct elements.
func FromKana(s string) ComposingText {
	return fromString(s, Direct)
}

// FromRoman builds a sequence of romaji elements.
func FromRoman(s string) ComposingText {
	return fromString(s, Roman2Kana)
}

func fromString(s string, style InputStyle) ComposingText {
	input := make([]InputElement, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		input = append(input, InputElement{Character: r, Style: style})
	}
	return ComposingText{Input: input}
}

// Len is the number of input elements.
func (t ComposingText) Len() int {
	return len(t.Input)
}

// IsEmpty reports whether nothing has been typed.
func (t ComposingText) IsEmpty() bool {
	return len(t.Input) == 0
}

// Append returns a copy with s typed at the tail in the given style.
func (t ComposingText) Append(s string, style InputStyle) ComposingText {
	added := fromString(s, style)
	input := make([]InputElement, 0, len(t.Input)+len(added.Input))
	input = append(input, t.Input...)
	input = append(input, added.Input...)
	return ComposingText{Input: input}
}

// DeleteLast returns a copy with the last n elements removed.
func (t ComposingText) DeleteLast(n int) ComposingText {
	n = max(0, min(n, len(t.Input)))
	return t.Prefix(len(t.Input) - n)
}

// Prefix returns a copy of the first n elements.
func (t ComposingText) Prefix(n int) ComposingText {
	n = max(0, min(n, len(t.Input)))
	input := make([]InputElement, n)
	copy(input, t.Input[:n])
	return ComposingText{Input: input}
}

// Characters returns the typed characters as they were entered.
func (t ComposingText) Characters() string {
	var b strings.Builder
	for _, e := range t.Input {
		b.WriteRune(e.Character)
	}
	return b.String()
}

// SingleStyle reports whether every element uses the same input style.
func (t ComposingText) SingleStyle() bool {
	for _, e := range t.Input {
		if e.Style != t.Input[0].Style {
			return false
		}
	}
	return true
}

// AllStyle reports whether every element uses style.
func (t ComposingText) AllStyle(style InputStyle) bool {
	for _, e := range t.Input {
		if e.Style != style {
			return false
		}
	}
	return true
}

// ConvertTarget is the hiragana form matched against the dictionary.
func (t ComposingText) ConvertTarget() string {
	var b strings.Builder
	var roman strings.Builder
	flush := func() {
		if roman.Len() > 0 {
			b.WriteString(RomajiToHiragana(roman.String()))
			roman.Reset()
		}
	}
	for _, e := range t.Input {
		if e.Style == Roman2Kana {
			roman.WriteRune(e.Character)
			continue
		}
		flush()
		b.WriteRune(e.Character)
	}
	flush()
	return b.String()
}

// Equal reports structural equality of the two sequences.
func (t ComposingText) Equal(other ComposingText) bool {
	if len(t.Input) != len(other.Input) {
		return false
	}
	for i := range t.Input {
		if t.Input[i] != other.Input[i] {
			return false
		}
	}
	return true
}

// InputHasSuffix reports whether t's input ends with all of other's input.
// This is what remains typed after the leading clause of t was committed.
func (t ComposingText) InputHasSuffix(other ComposingText) bool {
	if len(other.Input) == 0 || len(other.Input) > len(t.Input) {
		return false
	}
	offset := len(t.Input) - len(other.Input)
	for i, e := range other.Input {
		if t.Input[offset+i] != e {
			return false
		}
	}
	return true
}

// DifferenceSuffix compares t against the previous sequence: everything
// after the common prefix counts as deleted from previous and added in t.
func (t ComposingText) DifferenceSuffix(previous ComposingText) InputDelta {
	common := 0
	for common < len(t.Input) && common < len(previous.Input) && t.Input[common] == previous.Input[common] {
		common++
	}
	return InputDelta{
		Deleted: len(previous.Input) - common,
		Added:   len(t.Input) - common,
	}
}

// InputCount returns the smallest number of leading input elements whose
// conversion already yields the first runeCount runes of the full target.
func (t ComposingText) InputCount(runeCount int) int {
	if runeCount <= 0 {
		return 0
	}
	for n, m := range t.prefixMatches() {
		if m >= runeCount {
			return n
		}
	}
	return len(t.Input)
}

// Boundaries returns InputCount for every rune boundary of the target,
// indexes 0 through the target length.
func (t ComposingText) Boundaries() []int {
	matches := t.prefixMatches()
	size := 0
	if len(matches) > 0 {
		size = matches[len(matches)-1]
	}
	bounds := make([]int, size+1)
	n := 0
	for k := 1; k <= size; k++ {
		for n < len(t.Input) && matches[n] < k {
			n++
		}
		bounds[k] = n
	}
	return bounds
}

// prefixMatches returns, for every prefix length n, how many leading runes
// of the prefix's conversion agree with the full target. Elements before
// the romaji run a prefix ends in convert as they do in the full input, so
// only that trailing run is converted again.
func (t ComposingText) prefixMatches() []int {
	full := []rune(t.ConvertTarget())
	matches := make([]int, len(t.Input)+1)
	settled := 0
	for i := 0; i < len(t.Input); {
		if t.Input[i].Style != Roman2Kana {
			settled++
			i++
			matches[i] = settled
			continue
		}
		runStart := i
		for i < len(t.Input) && t.Input[i].Style == Roman2Kana {
			i++
		}
		var run strings.Builder
		for j := runStart; j < i; j++ {
			run.WriteRune(t.Input[j].Character)
			partial := []rune(RomajiToHiragana(run.String()))
			matches[j+1] = settled + commonPrefix(partial, full[settled:])
		}
		settled += utf8.RuneCountInString(RomajiToHiragana(run.String()))
	}
	return matches
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func (t ComposingText) String() string {
	return "ComposingText(" + t.Characters() + " -> " + t.ConvertTarget() + ")"
}
