package convert

import (
	"fmt"
	"testing"
	"time"

	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(text, ruby string, value dicdata.PValue) candidate.Candidate {
	return candidate.Single(text, value, len([]rune(ruby)), dicdata.New(text, ruby, dicdata.CIDNoun, dicdata.MIDGeneral, value))
}

func TestUniqueCandidates(t *testing.T) {
	input := []candidate.Candidate{
		{Text: "a", Value: -5, CorrespondingCount: 1},
		{Text: "b", Value: -3, CorrespondingCount: 1},
		{Text: "a", Value: -4, CorrespondingCount: 1},
		{Text: "", Value: 0, CorrespondingCount: 1},
		{Text: "b", Value: -3, CorrespondingCount: 2},
		{Text: "c", Value: -1, CorrespondingCount: 1},
	}

	got := uniqueCandidates(input, map[string]bool{"c": true})
	require.Len(t, got, 2)
	assert.Equal(t, candidate.Candidate{Text: "a", Value: -4, CorrespondingCount: 1}, got[0])
	assert.Equal(t, candidate.Candidate{Text: "b", Value: -3, CorrespondingCount: 2}, got[1])
}

func TestUniqueCandidatesKeepsBest(t *testing.T) {
	var input []candidate.Candidate
	for i := 0; i < 60; i++ {
		input = append(input, candidate.Candidate{
			Text:               fmt.Sprintf("w%d", i%7),
			Value:              dicdata.PValue(-(i * 7 % 11)),
			CorrespondingCount: i % 4,
		})
	}

	best := make(map[string]candidate.Candidate)
	for _, c := range input {
		b, ok := best[c.Text]
		if !ok || c.Value > b.Value || (c.Value == b.Value && c.CorrespondingCount > b.CorrespondingCount) {
			best[c.Text] = c
		}
	}

	got := uniqueCandidates(input, nil)
	require.Len(t, got, len(best))
	for i, c := range got {
		assert.Equal(t, fmt.Sprintf("w%d", i), c.Text, "first occurrence order")
		assert.Equal(t, best[c.Text], c)
	}
}

func TestTopByValueDoesNotModifyInput(t *testing.T) {
	input := []candidate.Candidate{{Text: "x", Value: -3}, {Text: "y", Value: -1}, {Text: "z", Value: -2}}
	got := topByValue(input, 2)
	assert.Equal(t, []string{"y", "z"}, texts(got))
	assert.Equal(t, []string{"x", "y", "z"}, texts(input))
}

func TestEnsureExactMatch(t *testing.T) {
	x1, x2, x3, x5 := cand("x1", "カ", -1), cand("x2", "カナ", -2), cand("x3", "カナ", -3), cand("x5", "カナ", -5)
	exact := cand("e", "カン", -4)
	sentence := cand("s", "カン", -6)
	whole := cand("w", "カン", -9)

	testCases := []struct {
		prefix      []candidate.Candidate
		sentences   []candidate.Candidate
		whole       []candidate.Candidate
		expected    []string
		description string
	}{
		{[]candidate.Candidate{x1, exact, x2}, nil, nil, []string{"x1", "e", "x2"}, "Already within the window"},
		{[]candidate.Candidate{x1, x2, x3, exact, x5}, nil, nil, []string{"x1", "x2", "e", "x3", "x5"}, "Moved up"},
		{[]candidate.Candidate{x1, x2, x3}, []candidate.Candidate{x1, sentence}, nil, []string{"x1", "x2", "s", "x3"}, "Taken from sentences"},
		{[]candidate.Candidate{x1}, nil, []candidate.Candidate{whole}, []string{"x1", "w"}, "Taken from all sentences"},
		{[]candidate.Candidate{x1, x2, x3}, nil, nil, []string{"x1", "x2", "x3"}, "Nothing to insert"},
		{
			[]candidate.Candidate{cand("s", "カナ", -1), x2, x3, x5},
			[]candidate.Candidate{sentence}, nil,
			[]string{"x2", "x3", "s", "x5"},
			"Same text with another reading is replaced",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := ensureExactMatch(tc.prefix, "カン", tc.sentences, tc.whole)
			assert.Equal(t, tc.expected, texts(got))
		})
	}
}

func TestFinalize(t *testing.T) {
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	input := []candidate.Candidate{
		{Text: "「」", CorrespondingCount: 3},
		{Text: "{{}}", CorrespondingCount: 3},
		{Text: `<date format="2006年1月2日"/>`, CorrespondingCount: 10},
		{Text: "漢字", CorrespondingCount: 2, Actions: []candidate.CompleteAction{candidate.MoveCursor(5)}},
	}

	got := finalize(input, 3, now)
	require.Len(t, got, 4)
	assert.Equal(t, []candidate.CompleteAction{candidate.MoveCursor(-1)}, got[0].Actions)
	assert.Equal(t, []candidate.CompleteAction{candidate.MoveCursor(-2)}, got[1].Actions)
	assert.Equal(t, "2025年1月2日", got[2].Text)
	assert.Equal(t, 3, got[2].CorrespondingCount)
	assert.Nil(t, got[3].Actions)

	assert.Equal(t, `<date format="2006年1月2日"/>`, input[2].Text)
	assert.Equal(t, 10, input[2].CorrespondingCount)
}
