package lattice

import (
	"sort"
	"unicode/utf8"

	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/dictionary"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/charmbracelet/log"
)

const (
	// wordPenalty is charged for every node so fewer, longer words win ties.
	wordPenalty dicdata.PValue = -1
	// bosFunctionalPenalty is charged when a sentence opens with a particle
	// or auxiliary.
	bosFunctionalPenalty dicdata.PValue = -5
	// unknownValue scores the single-kana node added where the dictionary
	// has no one-character entry.
	unknownValue dicdata.PValue = -20
)

// GraphBuilder turns input into node layers. Every incremental operation
// must return the same layers as BuildFull for the same input.
type GraphBuilder interface {
	BuildFull(input kana.ComposingText, nBest int) Result
	RebuildUnchanged(nBest int, previous Previous) Result
	ExtendAfterCompletion(input kana.ComposingText, completed candidate.Candidate, nBest int, previous Previous) Result
	ShrinkTail(deleted int, nBest int, previous Previous) Result
	ReplaceTail(input kana.ComposingText, deleted, added int, nBest int, previous Previous) Result
	GrowTail(input kana.ComposingText, added int, nBest int, previous Previous) Result
	PredictiveContinuations(input kana.ComposingText, prepart CandidateData, last ClauseUnit, nBest int) []candidate.Candidate
	ZeroHintPredictions(seeds []candidate.Candidate, nBest int) []candidate.Candidate
}

// Builder is an N-best Viterbi GraphBuilder over a dictionary store.
type Builder struct {
	store *dictionary.Store
}

var _ GraphBuilder = (*Builder)(nil)

// NewBuilder creates a builder reading from store.
func NewBuilder(store *dictionary.Store) *Builder {
	return &Builder{store: store}
}

// plan describes what a build may take over from a previous one.
type plan struct {
	// carried holds nodes to reuse, indexed by their start in the new target.
	carried Layers
	// lookupAfter: only nodes ending past this position are looked up.
	lookupAfter int
	// settled: carried nodes ending at or before it keep their paths.
	settled int
}

// BuildFull computes every layer from scratch.
func (b *Builder) BuildFull(input kana.ComposingText, nBest int) Result {
	return b.build(input, nBest, plan{})
}

// RebuildUnchanged replays the previous layers for identical input.
func (b *Builder) RebuildUnchanged(nBest int, previous Previous) Result {
	n := utf8.RuneCountInString(previous.Input.ConvertTarget())
	return b.build(previous.Input, nBest, plan{carried: previous.Layers, lookupAfter: n, settled: settledPaths(previous, nBest, n)})
}

// ExtendAfterCompletion handles input left over after its leading clause
// was committed. The remaining nodes are shifted to the front and only
// their paths are recomputed.
func (b *Builder) ExtendAfterCompletion(input kana.ComposingText, completed candidate.Candidate, nBest int, previous Previous) Result {
	cut := completed.CorrespondingCount
	if cut <= 0 || cut > previous.Input.Len() {
		log.Debugf("Completed clause count %d does not fit previous input, rebuilding", cut)
		return b.BuildFull(input, nBest)
	}
	head := []rune(previous.Input.Prefix(cut).ConvertTarget())
	prevTarget := []rune(previous.Input.ConvertTarget())
	target := []rune(input.ConvertTarget())
	if len(head)+len(target) != len(prevTarget) || string(prevTarget[len(head):]) != string(target) {
		log.Debugf("Remaining target %q is not the tail of %q, rebuilding", string(target), string(prevTarget))
		return b.BuildFull(input, nBest)
	}

	shift := len(head)
	carried := make(Layers, len(target))
	for i := shift; i < len(previous.Layers) && i-shift < len(carried); i++ {
		for _, n := range previous.Layers[i] {
			moved := n.clone(true)
			moved.Start -= shift
			moved.End -= shift
			carried[i-shift] = append(carried[i-shift], moved)
		}
	}
	return b.build(input, nBest, plan{carried: carried, lookupAfter: len(target), settled: 0})
}

// ShrinkTail handles deleted trailing input elements.
func (b *Builder) ShrinkTail(deleted int, nBest int, previous Previous) Result {
	input := previous.Input.DeleteLast(deleted)
	return b.buildFromCommonPrefix(input, nBest, previous)
}

// ReplaceTail handles deleted trailing elements replaced by added ones.
func (b *Builder) ReplaceTail(input kana.ComposingText, deleted, added int, nBest int, previous Previous) Result {
	if previous.Input.Len()-deleted != input.Len()-added {
		log.Debugf("Tail replace -%d+%d does not match lengths %d and %d, rebuilding",
			deleted, added, previous.Input.Len(), input.Len())
		return b.BuildFull(input, nBest)
	}
	return b.buildFromCommonPrefix(input, nBest, previous)
}

// GrowTail handles elements appended to the previous input.
func (b *Builder) GrowTail(input kana.ComposingText, added int, nBest int, previous Previous) Result {
	if previous.Input.Len()+added != input.Len() {
		log.Debugf("Tail append +%d does not match lengths %d and %d, rebuilding",
			added, previous.Input.Len(), input.Len())
		return b.BuildFull(input, nBest)
	}
	return b.buildFromCommonPrefix(input, nBest, previous)
}

// buildFromCommonPrefix reuses every node that ends inside the part of the
// target shared with the previous input. Romaji can rewrite more than the
// edited tail ("kan" reads かn, "kanj" reads かんj), so the shared part is
// measured on the target, not on the input.
func (b *Builder) buildFromCommonPrefix(input kana.ComposingText, nBest int, previous Previous) Result {
	prevTarget := []rune(previous.Input.ConvertTarget())
	target := []rune(input.ConvertTarget())
	common := 0
	for common < len(prevTarget) && common < len(target) && prevTarget[common] == target[common] {
		common++
	}

	carried := make(Layers, min(common, len(previous.Layers)))
	for i := range carried {
		for _, n := range previous.Layers[i] {
			if n.End <= common {
				carried[i] = append(carried[i], n)
			}
		}
	}
	return b.build(input, nBest, plan{carried: carried, lookupAfter: common, settled: settledPaths(previous, nBest, common)})
}

// settledPaths returns settled, or 0 when the cached paths were kept for
// another N-best width and must all be recomputed.
func settledPaths(previous Previous, nBest, settled int) int {
	if previous.NBest != max(1, nBest) {
		return 0
	}
	return settled
}

func (b *Builder) build(input kana.ComposingText, nBest int, p plan) Result {
	nBest = max(1, nBest)
	target := []rune(input.ConvertTarget())
	bounds := input.Boundaries()
	size := len(target)

	layers := make(Layers, size)
	for i := 0; i < size; i++ {
		var layer []*Node
		if i < len(p.carried) {
			for _, n := range p.carried[i] {
				if n.End > size {
					continue
				}
				c := n.clone(n.End > p.settled)
				c.InputRange = Range{Start: bounds[c.Start], End: bounds[c.End]}
				layer = append(layer, c)
			}
		}
		layer = append(layer, b.lookup(target, i, p.lookupAfter, bounds)...)
		sortLayer(layer)
		layers[i] = layer
	}

	endAt := make([][]*Node, size+1)
	for i := 0; i < size; i++ {
		for _, n := range layers[i] {
			if n.Prevs == nil {
				n.Prevs = b.paths(n, endAt[i], nBest)
			}
			endAt[n.End] = append(endAt[n.End], n)
		}
	}

	eos := &Node{
		Data:       dicdata.DicdataElement{CID: dicdata.CIDEOS, MID: dicdata.MIDEOS},
		Start:      size,
		End:        size,
		InputRange: Range{Start: bounds[size], End: bounds[size]},
	}
	for _, n := range endAt[size] {
		eos.Prevs = append(eos.Prevs, n.Prevs...)
	}
	sortPaths(eos.Prevs)
	if len(eos.Prevs) > nBest {
		eos.Prevs = eos.Prevs[:nBest]
	}
	return Result{Best: eos, Layers: layers, Bounds: bounds, NBest: nBest}
}

// lookup returns the nodes starting at i that end after lookupAfter.
func (b *Builder) lookup(target []rune, i, lookupAfter int, bounds []int) []*Node {
	var nodes []*Node
	hasSingle := false
	for _, e := range b.store.Lookup(string(target[i:])) {
		end := i + utf8.RuneCountInString(e.Ruby)
		if end == i+1 {
			hasSingle = true
		}
		if end <= lookupAfter || end > len(target) {
			continue
		}
		nodes = append(nodes, &Node{
			Data:       e,
			Start:      i,
			End:        end,
			InputRange: Range{Start: bounds[i], End: bounds[end]},
		})
	}
	if !hasSingle && i+1 > lookupAfter {
		ch := string(target[i])
		nodes = append(nodes, &Node{
			Data:       dicdata.New(ch, kana.ToKatakana(ch), dicdata.CIDNoun, dicdata.MIDGeneral, unknownValue),
			Start:      i,
			End:        i + 1,
			InputRange: Range{Start: bounds[i], End: bounds[i+1]},
		})
	}
	return nodes
}

// paths computes the N best paths ending with n from the nodes ending
// where n starts.
func (b *Builder) paths(n *Node, before []*Node, nBest int) []*RegisteredNode {
	var paths []*RegisteredNode
	if n.Start == 0 {
		paths = append(paths, &RegisteredNode{
			Data:  n.Data,
			Start: n.Start,
			End:   n.End,
			Total: n.Data.Value + b.connect(nil, n.Data),
		})
	}
	for _, m := range before {
		for _, prev := range m.Prevs {
			paths = append(paths, &RegisteredNode{
				Data:  n.Data,
				Start: n.Start,
				End:   n.End,
				Prev:  prev,
				Total: prev.Total + n.Data.Value + b.connect(&prev.Data, n.Data),
			})
		}
	}
	sortPaths(paths)
	if len(paths) > nBest {
		paths = paths[:nBest]
	}
	return paths
}

// connect scores the edge between prev (nil for sentence start) and next.
func (b *Builder) connect(prev *dicdata.DicdataElement, next dicdata.DicdataElement) dicdata.PValue {
	v := wordPenalty
	if prev == nil {
		if next.IsFunctional() {
			v += bosFunctionalPenalty
		}
		return v
	}
	return v + b.store.BigramBonus(*prev, next)
}

// sortLayer orders nodes so a layer assembled from reused and looked-up
// nodes matches a freshly built one.
func sortLayer(layer []*Node) {
	sort.SliceStable(layer, func(i, j int) bool {
		a, b := layer[i], layer[j]
		if a.End != b.End {
			return a.End < b.End
		}
		if a.Data.Value != b.Data.Value {
			return a.Data.Value > b.Data.Value
		}
		if a.Data.Word != b.Data.Word {
			return a.Data.Word < b.Data.Word
		}
		if a.Data.CID != b.Data.CID {
			return a.Data.CID < b.Data.CID
		}
		return a.Data.MID < b.Data.MID
	})
}

func sortPaths(paths []*RegisteredNode) {
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].Total > paths[j].Total
	})
}
