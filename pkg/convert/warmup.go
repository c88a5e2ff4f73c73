package convert

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

// LanguageState is where a language is in its backend warm-up.
type LanguageState uint8

const (
	StateUninitialized LanguageState = iota
	StateWarming
	StateReady
)

func (s LanguageState) String() string {
	switch s {
	case StateWarming:
		return "warming"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// WarmFunc pays the completion backend's start-up cost for a language.
type WarmFunc func(lang KeyboardLanguage) error

var (
	errWarmupClosed = errors.New("warm-up worker closed")
	errNoCompleter  = errors.New("no completion backend")
)

// Warmup runs language warm-ups on one background goroutine. Callers never
// block: Prepare queues the language and returns a channel closed once the
// language leaves StateWarming.
type Warmup struct {
	warm WarmFunc

	mu      sync.Mutex
	states  map[KeyboardLanguage]LanguageState
	waiters map[KeyboardLanguage][]chan struct{}
	pending []KeyboardLanguage
	closed  bool

	signal    chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewWarmup starts the worker. A nil warm makes every warm-up fail.
func NewWarmup(warm WarmFunc) *Warmup {
	w := &Warmup{
		warm: warm,
		states: map[KeyboardLanguage]LanguageState{
			LanguageNone:     StateReady,
			LanguageJapanese: StateReady,
		},
		waiters: make(map[KeyboardLanguage][]chan struct{}),
		signal:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// State returns the current state of lang.
func (w *Warmup) State(lang KeyboardLanguage) LanguageState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.states[lang]
}

// Prepare queues lang for warm-up unless it is ready or already warming.
// The returned channel is closed when lang is no longer warming, whether
// the warm-up succeeded or not.
func (w *Warmup) Prepare(lang KeyboardLanguage) <-chan struct{} {
	ch := make(chan struct{})

	w.mu.Lock()
	switch w.states[lang] {
	case StateReady:
		w.mu.Unlock()
		close(ch)
		return ch
	case StateWarming:
		w.waiters[lang] = append(w.waiters[lang], ch)
		w.mu.Unlock()
		return ch
	}
	if w.closed {
		w.mu.Unlock()
		close(ch)
		return ch
	}
	w.states[lang] = StateWarming
	w.waiters[lang] = append(w.waiters[lang], ch)
	w.pending = append(w.pending, lang)
	w.mu.Unlock()

	select {
	case w.signal <- struct{}{}:
	default:
	}
	return ch
}

// Close stops the worker after the warm-up in progress, if any. Languages
// still queued go back to StateUninitialized. Close is idempotent.
func (w *Warmup) Close() {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.done)
		w.wg.Wait()

		w.mu.Lock()
		defer w.mu.Unlock()
		for _, lang := range w.pending {
			w.finish(lang, errWarmupClosed)
		}
		w.pending = nil
	})
}

func (w *Warmup) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case <-w.signal:
		}

		for {
			w.mu.Lock()
			if w.closed || len(w.pending) == 0 {
				w.mu.Unlock()
				break
			}
			lang := w.pending[0]
			w.pending = w.pending[1:]
			w.mu.Unlock()

			err := w.call(lang)

			w.mu.Lock()
			w.finish(lang, err)
			w.mu.Unlock()
		}
	}
}

func (w *Warmup) call(lang KeyboardLanguage) (err error) {
	if w.warm == nil {
		return errNoCompleter
	}
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Warm-up of %s panicked: %v", lang, r)
			err = errors.New("warm-up panicked")
		}
	}()
	return w.warm(lang)
}

// finish records the outcome of a warm-up; w.mu must be held.
func (w *Warmup) finish(lang KeyboardLanguage, err error) {
	if err != nil {
		log.Warnf("Warm-up of %s failed: %v", lang, err)
		w.states[lang] = StateUninitialized
	} else {
		log.Debugf("Warm-up of %s done", lang)
		w.states[lang] = StateReady
	}
	for _, ch := range w.waiters[lang] {
		close(ch)
	}
	delete(w.waiters, lang)
}
