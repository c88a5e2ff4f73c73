package convert

import (
	"sort"
	"strings"

	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/lattice"
)

// assemble ranks everything generated for one request. The main list is
// the leading prefix (sentences, predictions, foreign and top-level
// candidates) followed by first clauses, structural candidates and single
// words. The first-clause list is returned separately as well.
func (c *Converter) assemble(input kana.ComposingText, result lattice.Result, opts Options) (main, firstClause []candidate.Candidate) {
	decompositions := result.CandidateData()
	if len(decompositions) == 0 {
		fallback := uniqueCandidates(concat(scriptVariantCandidates(input, opts), wiseCandidates(input, opts)), nil)
		return fallback, fallback
	}

	wholeSentences := uniqueCandidates(sentenceCandidates(decompositions), nil)
	sentences := topByValue(wholeSentences, sentenceLimit)

	var predictions []candidate.Candidate
	if opts.RequireJapanesePrediction {
		predictions = topByValue(uniqueCandidates(c.predictionCandidates(decompositions, input), nil), predictionLimit)
	}

	var foreign []candidate.Candidate
	if opts.RequireEnglishPrediction || opts.KeyboardLanguage == LanguageEnglish {
		foreign = append(foreign, c.foreignCandidates(input, LanguageEnglish, foreignPenalty)...)
	}
	if opts.KeyboardLanguage == LanguageGreek {
		foreign = append(foreign, c.foreignCandidates(input, LanguageGreek, foreignPenalty)...)
	}

	core := sortByValue(uniqueCandidates(concat(sentences, predictions), nil))
	zeroHint := c.zeroHintCandidates(core)
	topLevel := c.topLevelCandidates(input, opts)

	prefix := topByValue(uniqueCandidates(concat(core, foreign, zeroHint, topLevel), nil), prefixLimit)
	prefix = ensureExactMatch(prefix, kana.ToKatakana(input.ConvertTarget()), sentences, wholeSentences)

	seen := make(map[string]bool)
	addTexts(seen, prefix)
	clauses := topByValue(uniqueCandidates(clauseCandidates(decompositions), seen), clauseLimit)
	addTexts(seen, clauses)
	wise := uniqueCandidates(wiseCandidates(input, opts), seen)
	addTexts(seen, wise)

	words := uniqueCandidates(concat(dictionaryCandidates(result.Layers), scriptVariantCandidates(input, opts)), seen)
	sort.SliceStable(words, func(i, j int) bool {
		if words[i].CorrespondingCount != words[j].CorrespondingCount {
			return words[i].CorrespondingCount > words[j].CorrespondingCount
		}
		return words[i].Value > words[j].Value
	})

	return concat(prefix, clauses, wise, words), clauses
}

// ensureExactMatch makes sure one of the leading entries reads exactly as
// typed. A match further down the prefix is moved up; otherwise the first
// match among the top sentences, then among all sentences, is inserted.
func ensureExactMatch(prefix []candidate.Candidate, ruby string, sentences, wholeSentences []candidate.Candidate) []candidate.Candidate {
	exact := func(c candidate.Candidate) bool {
		return c.Ruby() == ruby
	}
	for i := 0; i < len(prefix) && i < exactMatchWindow; i++ {
		if exact(prefix[i]) {
			return prefix
		}
	}

	result := append([]candidate.Candidate(nil), prefix...)
	for i := exactMatchWindow; i < len(result); i++ {
		if exact(result[i]) {
			found := result[i]
			result = append(result[:i], result[i+1:]...)
			return insertAt(result, min(len(result), exactMatchSlot), found)
		}
	}
	for _, list := range [][]candidate.Candidate{sentences, wholeSentences} {
		for _, s := range list {
			if !exact(s) {
				continue
			}
			kept := result[:0]
			for _, r := range result {
				if r.Text != s.Text {
					kept = append(kept, r)
				}
			}
			return insertAt(kept, min(len(kept), exactMatchSlot), s)
		}
	}
	return result
}

func insertAt(list []candidate.Candidate, i int, c candidate.Candidate) []candidate.Candidate {
	list = append(list, candidate.Candidate{})
	copy(list[i+1:], list[i:])
	list[i] = c
	return list
}

// zeroHintCandidates continues the core candidates without any typed
// input. The builder proposes continuations and the re-scoring model
// rewards those whose first character it predicts. Without a model there
// are none.
func (c *Converter) zeroHintCandidates(core []candidate.Candidate) []candidate.Candidate {
	if c.rescorer == nil || len(core) == 0 {
		return nil
	}
	predictions := c.builder.ZeroHintPredictions(core, zeroHintLimit)
	predicted := make(map[string]map[rune]bool)
	for i, p := range predictions {
		last, ok := p.LastData()
		if !ok || last.Word == "" {
			continue
		}
		left := strings.TrimSuffix(p.Text, last.Word)
		scores, ok := predicted[left]
		if !ok {
			scores = make(map[rune]bool)
			for _, cs := range c.rescorer.PredictNextCharacter(left, zeroHintLimit) {
				scores[cs.Character] = true
			}
			predicted[left] = scores
		}
		first := []rune(last.Word)[0]
		if scores[first] {
			predictions[i].Value += zeroHintBonus
		}
	}
	return sortByValue(predictions)
}
