package lattice

import (
	"sort"

	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/kana"
)

// PredictiveContinuations completes last with dictionary words whose
// reading extends it, keeping prepart as converted.
func (b *Builder) PredictiveContinuations(input kana.ComposingText, prepart CandidateData, last ClauseUnit, nBest int) []candidate.Candidate {
	if last.Ruby == "" {
		return nil
	}
	base := prepart.Value()
	text := prepart.Text()
	var prev *dicdata.DicdataElement
	if n := len(prepart.Data); n > 0 {
		prev = &prepart.Data[n-1]
	}

	var result []candidate.Candidate
	for _, e := range b.store.Predict(last.Ruby, max(1, nBest)) {
		data := make([]dicdata.DicdataElement, 0, len(prepart.Data)+1)
		data = append(data, prepart.Data...)
		data = append(data, e)
		result = append(result, candidate.Candidate{
			Text:               text + e.Word,
			Value:              base + e.Value + b.connect(prev, e),
			CorrespondingCount: input.Len(),
			LastMID:            e.MID,
			Data:               data,
		})
	}
	return result
}

// ZeroHintPredictions appends the likeliest following particles and
// auxiliaries to each seed, without any typed input for them. The result
// is sorted by value and holds at most nBest distinct texts.
func (b *Builder) ZeroHintPredictions(seeds []candidate.Candidate, nBest int) []candidate.Candidate {
	nBest = max(1, nBest)
	followers := b.store.Followers(nBest)
	if len(followers) == 0 {
		return nil
	}

	var result []candidate.Candidate
	for _, seed := range seeds {
		last, hasLast := seed.LastData()
		for _, f := range followers {
			var conn dicdata.PValue
			if hasLast {
				conn = b.connect(&last, f)
			} else {
				conn = b.connect(nil, f)
			}
			data := make([]dicdata.DicdataElement, 0, len(seed.Data)+1)
			data = append(data, seed.Data...)
			data = append(data, f)
			result = append(result, candidate.Candidate{
				Text:               seed.Text + f.Word,
				Value:              seed.Value + f.Value + conn,
				CorrespondingCount: seed.CorrespondingCount,
				LastMID:            f.MID,
				Data:               data,
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Value > result[j].Value
	})
	seen := make(map[string]bool, len(result))
	out := result[:0]
	for _, c := range result {
		if seen[c.Text] {
			continue
		}
		seen[c.Text] = true
		out = append(out, c)
		if len(out) == nBest {
			break
		}
	}
	return out
}
