// Package convert turns typed input into ranked kana-kanji conversion
// candidates, reusing the previous request's lattice where the input only
// changed at its tail.
package convert

import (
	"time"

	"github.com/bastiangx/kanaserve/internal/logger"
	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/lattice"
	"github.com/bastiangx/kanaserve/pkg/zenz"
	"github.com/charmbracelet/log"
)

// Completer completes foreign words. Warm loads a language up front and
// may be slow; Completions must be fast once a language is warm.
type Completer interface {
	Completions(partial, lang string) []string
	Warm(lang string) error
}

// Learner records committed candidates.
type Learner interface {
	UpdateLearningData(c candidate.Candidate, previous *dicdata.DicdataElement)
}

// Result is the answer to one request.
type Result struct {
	Main        []candidate.Candidate
	FirstClause []candidate.Candidate
}

// Converter runs conversion requests against sessions. The Converter
// itself holds no per-composition state and may be shared; each Session
// must be used by one request at a time.
type Converter struct {
	builder   lattice.GraphBuilder
	completer Completer
	rescorer  zenz.Rescorer
	learner   Learner
	warmup    *Warmup
	now       func() time.Time
	logger    *log.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithCompleter enables foreign-language completions.
func WithCompleter(completer Completer) Option {
	return func(c *Converter) {
		c.completer = completer
	}
}

// WithRescorer enables zero-hint predictions and evaluation.
func WithRescorer(rescorer zenz.Rescorer) Option {
	return func(c *Converter) {
		c.rescorer = rescorer
	}
}

// WithLearner receives commits.
func WithLearner(learner Learner) Option {
	return func(c *Converter) {
		c.learner = learner
	}
}

// WithClock replaces the clock used for template expansion.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// New creates a converter over builder and starts its warm-up worker.
// Call Close when done.
func New(builder lattice.GraphBuilder, opts ...Option) *Converter {
	c := &Converter{
		builder: builder,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.New("convert")
	}
	c.warmup = NewWarmup(c.warmLanguage)
	return c
}

func (c *Converter) warmLanguage(lang KeyboardLanguage) error {
	if c.completer == nil {
		return errNoCompleter
	}
	return c.completer.Warm(lang.Tag())
}

// Close stops the warm-up worker.
func (c *Converter) Close() {
	c.warmup.Close()
}

// ResetState ends the composition: cached layers, any pending completed
// clause and the learning state are dropped.
func (c *Converter) ResetState(s *Session) {
	s.Reset()
}

// PrepareLanguage starts warming the completion backend for lang. The
// returned channel is closed when the warm-up has finished; callers are
// free to ignore it.
func (c *Converter) PrepareLanguage(lang KeyboardLanguage) <-chan struct{} {
	return c.warmup.Prepare(lang)
}

// LanguageState reports the warm-up state of lang.
func (c *Converter) LanguageState(lang KeyboardLanguage) LanguageState {
	return c.warmup.State(lang)
}

// SetCompletedData records that cand was committed out of the current
// input, leaving its tail to be converted by the next request.
func (c *Converter) SetCompletedData(s *Session, cand candidate.Candidate) {
	s.completed = &cand
}

// NotifyCommit learns cand as following the previous commit.
func (c *Converter) NotifyCommit(s *Session, cand candidate.Candidate) {
	if c.learner != nil {
		c.learner.UpdateLearningData(cand, s.learning.LastData)
	}
	committed := cand
	s.learning.LastCommitted = &committed
	if last, ok := cand.LastData(); ok {
		s.learning.LastData = &last
	}
}

// RequestCandidates converts input. An empty conversion target yields
// two empty lists and leaves the session untouched.
func (c *Converter) RequestCandidates(s *Session, input kana.ComposingText, opts Options) Result {
	if input.ConvertTarget() == "" {
		return Result{Main: []candidate.Candidate{}, FirstClause: []candidate.Candidate{}}
	}
	start := time.Now()

	strategy := Classify(s.previous, input, s.completed != nil)
	c.logger.Debug("Classified input", "session", s.ID, "strategy", strategy, "input", input.Characters())

	result := c.buildLattice(s, input, strategy, opts.NBest)
	s.store(input, result)
	c.logger.Debug("Lattice built", "session", s.ID, "nodes", result.Layers.Count(), "elapsed", time.Since(start))

	main, firstClause := c.assemble(input, result, opts)
	now := c.now()
	out := Result{
		Main:        finalize(main, input.Len(), now),
		FirstClause: finalize(firstClause, input.Len(), now),
	}
	c.logger.Debug("Candidates ready", "session", s.ID, "main", len(out.Main), "elapsed", time.Since(start))
	return out
}

func (c *Converter) buildLattice(s *Session, input kana.ComposingText, strategy Strategy, nBest int) lattice.Result {
	var previous lattice.Previous
	if s.previous != nil {
		previous = lattice.Previous{Input: *s.previous, Layers: s.layers, NBest: s.nBest}
	}

	switch strategy.Kind {
	case NoChange:
		return c.builder.RebuildUnchanged(nBest, previous)
	case PostCompletionExtend:
		completed := *s.completed
		s.completed = nil
		return c.builder.ExtendAfterCompletion(input, completed, nBest, previous)
	case TailDelete:
		return c.builder.ShrinkTail(strategy.Deleted, nBest, previous)
	case TailReplace:
		return c.builder.ReplaceTail(input, strategy.Deleted, strategy.Added, nBest, previous)
	case TailAppend:
		return c.builder.GrowTail(input, strategy.Added, nBest, previous)
	default:
		return c.builder.BuildFull(input, nBest)
	}
}

// Evaluate asks the re-scoring model about cand as a conversion of target.
// Without a model the result kind is zenz.KindError.
func (c *Converter) Evaluate(target string, cand candidate.Candidate, wantRich bool) zenz.EvaluationResult {
	if c.rescorer == nil {
		return zenz.EvaluationResult{Kind: zenz.KindError}
	}
	return c.rescorer.EvaluateCandidate(target, cand, wantRich)
}

// PredictNextCharacter returns the model's guesses for what follows
// leftContext, or nil without a model.
func (c *Converter) PredictNextCharacter(leftContext string, count int) []zenz.CharScore {
	if c.rescorer == nil {
		return nil
	}
	return c.rescorer.PredictNextCharacter(leftContext, count)
}
