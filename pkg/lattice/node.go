// Package lattice builds the scored morpheme graph over a conversion target
// and extracts best-path clause decompositions from it.
package lattice

import (
	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/kana"
)

// Range is a half-open range of input element indexes.
type Range struct {
	Start int
	End   int
}

// Count is the number of input elements covered.
func (r Range) Count() int {
	return r.End - r.Start
}

// RegisteredNode is one entry of an N-best path: the element, where it
// sits in the target and the path it extends. Registered nodes are never
// mutated once created, so paths are shared freely between builds.
type RegisteredNode struct {
	Data  dicdata.DicdataElement
	Start int
	End   int
	Prev  *RegisteredNode
	Total dicdata.PValue
}

// Node spans target runes [Start, End) and keeps the N best paths that
// end with it.
type Node struct {
	Data       dicdata.DicdataElement
	Start      int
	End        int
	InputRange Range
	Prevs      []*RegisteredNode
}

// Value is the best path score ending at this node, or the entry value
// when no path reaches it.
func (n *Node) Value() dicdata.PValue {
	if len(n.Prevs) == 0 {
		return n.Data.Value
	}
	return n.Prevs[0].Total
}

// clone copies the node; paths are shared unless dropPaths is set.
func (n *Node) clone(dropPaths bool) *Node {
	out := *n
	if dropPaths {
		out.Prevs = nil
	}
	return &out
}

// Layers holds the nodes grouped by start rune position.
type Layers [][]*Node

// Count returns the total number of nodes.
func (l Layers) Count() int {
	total := 0
	for _, layer := range l {
		total += len(layer)
	}
	return total
}

// Previous is the cached state of the last build.
type Previous struct {
	Input  kana.ComposingText
	Layers Layers
	// NBest is the width the cached paths were computed with.
	NBest int
}

// Result is the outcome of a build. Best is the end-of-sentence node whose
// Prevs are the N best complete paths.
type Result struct {
	Best   *Node
	Layers Layers
	// Bounds maps target rune positions to input element counts.
	Bounds []int
	NBest  int
}
