package convert

import (
	"sort"

	"github.com/bastiangx/kanaserve/pkg/candidate"
)

// uniqueCandidates keeps one candidate per text in order of first
// occurrence. On a collision the higher value wins, then the larger
// CorrespondingCount. Empty texts and texts in seen are dropped.
func uniqueCandidates(candidates []candidate.Candidate, seen map[string]bool) []candidate.Candidate {
	result := make([]candidate.Candidate, 0, len(candidates))
	index := make(map[string]int, len(candidates))
	for _, c := range candidates {
		if c.Text == "" || seen[c.Text] {
			continue
		}
		i, ok := index[c.Text]
		if !ok {
			index[c.Text] = len(result)
			result = append(result, c)
			continue
		}
		kept := result[i]
		if c.Value > kept.Value || (c.Value == kept.Value && c.CorrespondingCount > kept.CorrespondingCount) {
			result[i] = c
		}
	}
	return result
}

// sortByValue sorts in place, highest value first, keeping ties in order.
func sortByValue(candidates []candidate.Candidate) []candidate.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Value > candidates[j].Value
	})
	return candidates
}

// topByValue returns at most n candidates, highest value first. The input
// is not modified.
func topByValue(candidates []candidate.Candidate, n int) []candidate.Candidate {
	sorted := sortByValue(append([]candidate.Candidate(nil), candidates...))
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func concat(lists ...[]candidate.Candidate) []candidate.Candidate {
	size := 0
	for _, l := range lists {
		size += len(l)
	}
	out := make([]candidate.Candidate, 0, size)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func addTexts(seen map[string]bool, candidates []candidate.Candidate) {
	for _, c := range candidates {
		seen[c.Text] = true
	}
}
