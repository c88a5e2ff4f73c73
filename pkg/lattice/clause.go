package lattice

import (
	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/dicdata"
)

// ClauseUnit is one phrase of a decomposition: a content word followed by
// any particles or auxiliaries attached to it.
type ClauseUnit struct {
	Text       string
	Ruby       string
	InputRange Range
	MID        dicdata.MID
	Value      dicdata.PValue
	// Elements is how many dictionary elements make up the clause.
	Elements int
}

// Merge returns u extended by next, which must directly follow it.
func (u ClauseUnit) Merge(next ClauseUnit) ClauseUnit {
	return ClauseUnit{
		Text:       u.Text + next.Text,
		Ruby:       u.Ruby + next.Ruby,
		InputRange: Range{Start: u.InputRange.Start, End: next.InputRange.End},
		MID:        next.MID,
		Value:      u.Value + next.Value,
		Elements:   u.Elements + next.Elements,
	}
}

// CandidateData is a full decomposition of one path.
type CandidateData struct {
	Clauses []ClauseUnit
	Data    []dicdata.DicdataElement
}

// IsEmpty reports whether there are no clauses left.
func (d CandidateData) IsEmpty() bool {
	return len(d.Clauses) == 0
}

// Value sums the clause values.
func (d CandidateData) Value() dicdata.PValue {
	var v dicdata.PValue
	for _, c := range d.Clauses {
		v += c.Value
	}
	return v
}

// Text concatenates the clause texts.
func (d CandidateData) Text() string {
	text := ""
	for _, c := range d.Clauses {
		text += c.Text
	}
	return text
}

// PopLast splits off the final clause. The receiver is not modified.
func (d CandidateData) PopLast() (CandidateData, ClauseUnit, bool) {
	if len(d.Clauses) == 0 {
		return d, ClauseUnit{}, false
	}
	last := d.Clauses[len(d.Clauses)-1]
	keep := max(0, len(d.Data)-last.Elements)
	rest := CandidateData{
		Clauses: append([]ClauseUnit(nil), d.Clauses[:len(d.Clauses)-1]...),
		Data:    append([]dicdata.DicdataElement(nil), d.Data[:keep]...),
	}
	return rest, last, true
}

// Sentence converts the whole decomposition into one candidate.
func (d CandidateData) Sentence() candidate.Candidate {
	c := candidate.Candidate{
		Text:  d.Text(),
		Value: d.Value(),
		Data:  append([]dicdata.DicdataElement(nil), d.Data...),
	}
	if n := len(d.Clauses); n > 0 {
		c.CorrespondingCount = d.Clauses[n-1].InputRange.End
		c.LastMID = d.Clauses[n-1].MID
	}
	return c
}

// FirstClause converts only the leading clause into a candidate.
func (d CandidateData) FirstClause() (candidate.Candidate, bool) {
	if len(d.Clauses) == 0 {
		return candidate.Candidate{}, false
	}
	first := d.Clauses[0]
	n := min(first.Elements, len(d.Data))
	return candidate.Candidate{
		Text:               first.Text,
		Value:              first.Value,
		CorrespondingCount: first.InputRange.Count(),
		LastMID:            first.MID,
		Data:               append([]dicdata.DicdataElement(nil), d.Data[:n]...),
	}, true
}

// CandidateData extracts one decomposition per N-best path, best first.
func (r Result) CandidateData() []CandidateData {
	if r.Best == nil {
		return nil
	}
	result := make([]CandidateData, 0, len(r.Best.Prevs))
	for _, tail := range r.Best.Prevs {
		result = append(result, r.decompose(tail))
	}
	return result
}

func (r Result) decompose(tail *RegisteredNode) CandidateData {
	var path []*RegisteredNode
	for n := tail; n != nil; n = n.Prev {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	var out CandidateData
	var base dicdata.PValue
	for _, n := range path {
		out.Data = append(out.Data, n.Data)
		if len(out.Clauses) == 0 || !n.Data.IsFunctional() {
			if len(out.Clauses) > 0 {
				base += out.Clauses[len(out.Clauses)-1].Value
			}
			out.Clauses = append(out.Clauses, ClauseUnit{
				InputRange: Range{Start: r.bound(n.Start), End: r.bound(n.Start)},
				MID:        n.Data.MID,
			})
		}
		c := &out.Clauses[len(out.Clauses)-1]
		c.Text += n.Data.Word
		c.Ruby += n.Data.Ruby
		c.InputRange.End = r.bound(n.End)
		c.Value = n.Total - base
		c.Elements++
	}
	return out
}

func (r Result) bound(pos int) int {
	if pos < len(r.Bounds) {
		return r.Bounds[pos]
	}
	if len(r.Bounds) > 0 {
		return r.Bounds[len(r.Bounds)-1]
	}
	return pos
}
