package zenz

import (
	"errors"
	"testing"

	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/stretchr/testify/assert"
)

type fakeContext struct {
	lastInput string
	resets    int
}

func (f *fakeContext) EvaluateCandidate(input string, c candidate.Candidate, wantRich bool) EvaluationResult {
	f.lastInput = input
	if wantRich {
		return EvaluationResult{Kind: KindWholeResult, Text: c.Text}
	}
	return EvaluationResult{Kind: KindPass, Score: -1.5}
}

func (f *fakeContext) PredictNextCharacter(leftContext string, count int) []CharScore {
	return []CharScore{{Character: 'を', Value: -0.5}}[:min(count, 1)]
}

func (f *fakeContext) Reset() error {
	f.resets++
	return errors.New("reset failed")
}

func TestZenzWithoutContext(t *testing.T) {
	z := New(nil)

	result := z.EvaluateCandidate("かんじ", candidate.Candidate{Text: "漢字"}, true)
	assert.Equal(t, KindError, result.Kind)
	assert.Equal(t, "error", result.Kind.String())
	assert.Nil(t, z.PredictNextCharacter("漢字", 3))
	z.EndSession()
}

func TestZenzDelegates(t *testing.T) {
	ctx := &fakeContext{}
	z := New(ctx)

	result := z.EvaluateCandidate("かんじ", candidate.Candidate{Text: "漢字"}, false)
	assert.Equal(t, KindPass, result.Kind)
	assert.Equal(t, "カンジ", ctx.lastInput)

	rich := z.EvaluateCandidate("かんじ", candidate.Candidate{Text: "漢字"}, true)
	assert.Equal(t, KindWholeResult, rich.Kind)
	assert.Equal(t, "漢字", rich.Text)

	assert.Equal(t, []CharScore{{Character: 'を', Value: -0.5}}, z.PredictNextCharacter("漢字", 3))
	assert.Empty(t, z.PredictNextCharacter("漢字", 0))

	z.EndSession()
	assert.Equal(t, 1, ctx.resets)
}
