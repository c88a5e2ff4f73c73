package convert

import (
	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/lattice"
	"github.com/google/uuid"
)

// LearningState remembers the last commit so the next one can be learned
// as its continuation.
type LearningState struct {
	LastCommitted *candidate.Candidate
	// LastData is the final element of the last commit.
	LastData *dicdata.DicdataElement
}

// Session is the conversion state of one composition: the input the node
// layers were built for, a clause committed out of the middle of it, and
// the learning state. A Session must not be used by two requests at once.
type Session struct {
	ID uuid.UUID

	previous  *kana.ComposingText
	layers    lattice.Layers
	nBest     int
	completed *candidate.Candidate
	learning  LearningState
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{ID: uuid.New()}
}

// Reset drops the cached layers and the learning state. The ID is kept.
func (s *Session) Reset() {
	s.previous = nil
	s.layers = nil
	s.nBest = 0
	s.completed = nil
	s.learning = LearningState{}
}

// Previous returns the input the cached layers belong to.
func (s *Session) Previous() (kana.ComposingText, bool) {
	if s.previous == nil {
		return kana.ComposingText{}, false
	}
	return *s.previous, true
}

// Layers returns the cached node layers.
func (s *Session) Layers() lattice.Layers {
	return s.layers
}

// Learning returns the current learning state.
func (s *Session) Learning() LearningState {
	return s.learning
}

// HasCompleted reports whether a committed clause is waiting to be
// consumed by the next request.
func (s *Session) HasCompleted() bool {
	return s.completed != nil
}

func (s *Session) store(input kana.ComposingText, result lattice.Result) {
	copied := input.Prefix(input.Len())
	s.previous = &copied
	s.layers = result.Layers
	s.nBest = result.NBest
}
