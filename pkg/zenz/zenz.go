// Package zenz defines the optional re-scoring backend: a language model
// that judges whole candidates and predicts following characters.
package zenz

import (
	"sync"

	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/charmbracelet/log"
)

// EvaluationKind tells how the model judged a candidate.
type EvaluationKind uint8

const (
	// KindError means the model was unavailable or failed.
	KindError EvaluationKind = iota
	// KindPass means the candidate is acceptable as is.
	KindPass
	// KindFixRequired means the model prefers a different prefix.
	KindFixRequired
	// KindWholeResult means the model produced its own full conversion.
	KindWholeResult
)

func (k EvaluationKind) String() string {
	switch k {
	case KindPass:
		return "pass"
	case KindFixRequired:
		return "fix_required"
	case KindWholeResult:
		return "whole_result"
	default:
		return "error"
	}
}

// EvaluationResult is the model's verdict on one candidate.
type EvaluationResult struct {
	Kind EvaluationKind
	// Score is the model log-probability of the candidate, for KindPass.
	Score float32
	// Prefix is the text the model insists on, for KindFixRequired.
	Prefix string
	// Text is the model's own conversion, for KindWholeResult.
	Text string
	// Alternatives holds extra texts when rich evaluation was requested.
	Alternatives []string
}

// CharScore is one predicted next character.
type CharScore struct {
	Character rune
	Value     float32
}

// Rescorer is the contract the converter consumes.
type Rescorer interface {
	EvaluateCandidate(target string, c candidate.Candidate, wantRich bool) EvaluationResult
	PredictNextCharacter(leftContext string, count int) []CharScore
}

// Context is a loaded model.
type Context interface {
	EvaluateCandidate(input string, c candidate.Candidate, wantRich bool) EvaluationResult
	PredictNextCharacter(leftContext string, count int) []CharScore
	Reset() error
}

// Zenz wraps an optional model context. A Zenz without a context answers
// every evaluation with KindError and predicts nothing.
type Zenz struct {
	mu  sync.Mutex
	ctx Context
}

var _ Rescorer = (*Zenz)(nil)

// New wraps ctx, which may be nil.
func New(ctx Context) *Zenz {
	return &Zenz{ctx: ctx}
}

// EvaluateCandidate asks the model about c as a conversion of target. The
// target is passed to the model in katakana.
func (z *Zenz) EvaluateCandidate(target string, c candidate.Candidate, wantRich bool) EvaluationResult {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.ctx == nil {
		return EvaluationResult{Kind: KindError}
	}
	return z.ctx.EvaluateCandidate(kana.ToKatakana(target), c, wantRich)
}

// PredictNextCharacter returns up to count likely characters after
// leftContext.
func (z *Zenz) PredictNextCharacter(leftContext string, count int) []CharScore {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.ctx == nil {
		return nil
	}
	return z.ctx.PredictNextCharacter(leftContext, count)
}

// EndSession clears the model's cached state.
func (z *Zenz) EndSession() {
	z.mu.Lock()
	defer z.mu.Unlock()
	if z.ctx == nil {
		return
	}
	if err := z.ctx.Reset(); err != nil {
		log.Warnf("Failed to reset model context: %v", err)
	}
}
