package convert

import (
	"strings"

	"github.com/bastiangx/kanaserve/internal/utils"
	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/lattice"
)

// dictionaryCandidates turns every node starting the input into a word
// candidate.
func dictionaryCandidates(layers lattice.Layers) []candidate.Candidate {
	if len(layers) == 0 {
		return nil
	}
	result := make([]candidate.Candidate, 0, len(layers[0]))
	for _, n := range layers[0] {
		result = append(result, candidate.Candidate{
			Text:               n.Data.Word,
			Value:              n.Value(),
			CorrespondingCount: n.InputRange.Count(),
			LastMID:            n.Data.MID,
			Data:               []dicdata.DicdataElement{n.Data},
		})
	}
	return result
}

// clauseCandidates keeps only the first clause of every decomposition.
func clauseCandidates(decompositions []lattice.CandidateData) []candidate.Candidate {
	result := make([]candidate.Candidate, 0, len(decompositions))
	for _, d := range decompositions {
		if c, ok := d.FirstClause(); ok {
			result = append(result, c)
		}
	}
	return result
}

// sentenceCandidates converts every decomposition as a whole.
func sentenceCandidates(decompositions []lattice.CandidateData) []candidate.Candidate {
	result := make([]candidate.Candidate, len(decompositions))
	for i, d := range decompositions {
		result[i] = d.Sentence()
	}
	return result
}

// predictionCandidates widens the final clause of the best decomposition
// one clause at a time and asks the builder how each widened clause could
// continue. Rounds without continuations do not count.
func (c *Converter) predictionCandidates(decompositions []lattice.CandidateData, input kana.ComposingText) []candidate.Candidate {
	if len(decompositions) == 0 {
		return nil
	}
	prepart := decompositions[0]
	best := prepart.Value()
	for _, d := range decompositions[1:] {
		if v := d.Value(); v > best {
			prepart, best = d, v
		}
	}

	var result []candidate.Candidate
	var last *lattice.ClauseUnit
	for rounds := 0; rounds < predictionRounds && !prepart.IsEmpty(); {
		rest, unit, _ := prepart.PopLast()
		if last != nil {
			unit = unit.Merge(*last)
		}
		prepart, last = rest, &unit

		predictions := c.builder.PredictiveContinuations(input, prepart, unit, predictionNBest)
		if len(predictions) > 0 {
			result = append(result, predictions...)
			rounds++
		}
	}
	return result
}

// foreignCandidates completes the typed letters as a word of lang. The
// literal input comes first at penalty, completions follow at evenly
// decreasing values. Nothing is produced until lang has warmed up; the
// first call for a cold language starts the warm-up.
func (c *Converter) foreignCandidates(input kana.ComposingText, lang KeyboardLanguage, penalty dicdata.PValue) []candidate.Candidate {
	ruby := input.Characters()
	if !input.SingleStyle() {
		return nil
	}
	switch lang {
	case LanguageEnglish:
		if !utils.OnlyRomanAlphabet(ruby) {
			return nil
		}
	case LanguageGreek:
		if !utils.OnlyLetters(ruby) {
			return nil
		}
	default:
		return nil
	}
	if c.completer == nil {
		return nil
	}
	switch c.warmup.State(lang) {
	case StateUninitialized:
		c.warmup.Prepare(lang)
		return nil
	case StateWarming:
		return nil
	}

	completions := c.completer.Completions(ruby, lang.Tag())
	if len(completions) == 0 {
		return nil
	}
	count := input.Len()
	result := make([]candidate.Candidate, 0, len(completions)+1)
	result = append(result, foreignCandidate(ruby, penalty, count))

	value := foreignPenalty + penalty
	delta := foreignSpread / dicdata.PValue(len(completions))
	for _, word := range completions {
		result = append(result, foreignCandidate(word, value, count))
		value += delta
	}
	return result
}

func foreignCandidate(word string, value dicdata.PValue, count int) candidate.Candidate {
	data := dicdata.New(word, word, dicdata.CIDProperNoun, dicdata.MIDGeneral, value)
	return candidate.Single(word, value, count, data)
}

// topLevelCandidates may be ranked among the leading results.
func (c *Converter) topLevelCandidates(input kana.ComposingText, opts Options) []candidate.Candidate {
	if !input.AllStyle(kana.Roman2Kana) || !opts.EnglishInRoman2Kana {
		return nil
	}
	return c.foreignCandidates(input, LanguageEnglish, topLevelForeignPenalty)
}

// katakanaScore is smaller for text that looks like a loanword.
func katakanaScore(katakana string) dicdata.PValue {
	var score dicdata.PValue = 1
	for _, r := range katakana {
		for _, group := range katakanaLikelihood {
			if strings.ContainsRune(group.chars, r) {
				score *= group.factor
				break
			}
		}
	}
	return score
}

// scriptVariantCandidates writes the whole target in other scripts.
// Katakana, hiragana and uppercase are always produced.
func scriptVariantCandidates(input kana.ComposingText, opts Options) []candidate.Candidate {
	ruby := kana.ToKatakana(input.ConvertTarget())
	count := input.Len()
	variant := func(word string, value, dataValue dicdata.PValue) candidate.Candidate {
		data := dicdata.New(word, ruby, dicdata.CIDProperNoun, dicdata.MIDGeneral, dataValue)
		return candidate.Single(word, value, count, data)
	}

	katakanaValue := katakanaBaseValue * katakanaScore(ruby)
	result := []candidate.Candidate{
		variant(ruby, katakanaValue, katakanaValue),
		variant(kana.ToHiragana(ruby), hiraganaValue, hiraganaValue),
		variant(kana.ToUpper(ruby), uppercaseValue, variantDataValue),
	}
	if opts.FullWidthRoman {
		result = append(result, variant(kana.ToFullWidth(ruby), fullWidthValue, variantDataValue))
	}
	if opts.HalfWidthKana {
		result = append(result, variant(kana.ToHalfWidth(ruby), halfWidthKanaValue, variantDataValue))
	}
	return result
}
