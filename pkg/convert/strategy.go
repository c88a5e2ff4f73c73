package convert

import (
	"fmt"

	"github.com/bastiangx/kanaserve/pkg/kana"
)

// StrategyKind selects how node layers are recomputed.
type StrategyKind uint8

const (
	FullRebuild StrategyKind = iota
	NoChange
	PostCompletionExtend
	TailDelete
	TailReplace
	TailAppend
)

func (k StrategyKind) String() string {
	switch k {
	case NoChange:
		return "no_change"
	case PostCompletionExtend:
		return "post_completion_extend"
	case TailDelete:
		return "tail_delete"
	case TailReplace:
		return "tail_replace"
	case TailAppend:
		return "tail_append"
	default:
		return "full_rebuild"
	}
}

// Strategy is the classified difference between two inputs. Deleted is
// set for TailDelete and TailReplace, Added for TailReplace and TailAppend.
type Strategy struct {
	Kind    StrategyKind
	Deleted int
	Added   int
}

func (s Strategy) String() string {
	switch s.Kind {
	case TailDelete:
		return fmt.Sprintf("%s(-%d)", s.Kind, s.Deleted)
	case TailReplace:
		return fmt.Sprintf("%s(-%d+%d)", s.Kind, s.Deleted, s.Added)
	case TailAppend:
		return fmt.Sprintf("%s(+%d)", s.Kind, s.Added)
	default:
		return s.Kind.String()
	}
}

// Classify picks the cheapest recomputation for current given the input
// the cached layers were built for. hasCompleted tells whether a clause
// was committed since then. The first matching rule wins.
func Classify(previous *kana.ComposingText, current kana.ComposingText, hasCompleted bool) Strategy {
	if previous == nil {
		return Strategy{Kind: FullRebuild}
	}
	if previous.Equal(current) {
		return Strategy{Kind: NoChange}
	}
	if hasCompleted && previous.InputHasSuffix(current) {
		return Strategy{Kind: PostCompletionExtend}
	}

	delta := current.DifferenceSuffix(*previous)
	switch {
	case delta.Deleted > 0 && delta.Added == 0:
		return Strategy{Kind: TailDelete, Deleted: delta.Deleted}
	case delta.Deleted > 0 && delta.Added > 0:
		return Strategy{Kind: TailReplace, Deleted: delta.Deleted, Added: delta.Added}
	case delta.Deleted == 0 && delta.Added > 0:
		return Strategy{Kind: TailAppend, Added: delta.Added}
	default:
		return Strategy{Kind: FullRebuild}
	}
}
