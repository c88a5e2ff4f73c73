// Package candidate holds fully formed conversion results.
package candidate

import (
	"strings"

	"github.com/bastiangx/kanaserve/pkg/dicdata"
)

// ActionKind is a side effect applied after a candidate is selected.
type ActionKind uint8

const (
	// ActionMoveCursor moves the caret by Offset characters.
	ActionMoveCursor ActionKind = iota
)

// CompleteAction is a post-selection action.
type CompleteAction struct {
	Kind   ActionKind
	Offset int
}

// MoveCursor returns a caret movement action; negative offsets move left.
func MoveCursor(offset int) CompleteAction {
	return CompleteAction{Kind: ActionMoveCursor, Offset: offset}
}

// Candidate is one conversion result.
type Candidate struct {
	Text               string
	Value              dicdata.PValue
	CorrespondingCount int
	LastMID            dicdata.MID
	Data               []dicdata.DicdataElement
	Actions            []CompleteAction
}

// Ruby concatenates the readings of the backing elements.
func (c Candidate) Ruby() string {
	var b strings.Builder
	for _, d := range c.Data {
		b.WriteString(d.Ruby)
	}
	return b.String()
}

// LastData returns the final backing element, if any.
func (c Candidate) LastData() (dicdata.DicdataElement, bool) {
	if len(c.Data) == 0 {
		return dicdata.DicdataElement{}, false
	}
	return c.Data[len(c.Data)-1], true
}

// WithActions returns a copy carrying actions; the receiver is not modified.
func (c Candidate) WithActions(actions ...CompleteAction) Candidate {
	out := c
	if len(actions) == 0 {
		out.Actions = nil
		return out
	}
	out.Actions = append([]CompleteAction(nil), actions...)
	return out
}

// Single builds a candidate backed by exactly one element.
func Single(text string, value dicdata.PValue, count int, data dicdata.DicdataElement) Candidate {
	return Candidate{
		Text:               text,
		Value:              value,
		CorrespondingCount: count,
		LastMID:            data.MID,
		Data:               []dicdata.DicdataElement{data},
	}
}
