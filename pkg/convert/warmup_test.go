package convert

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("warm-up did not finish")
	}
}

func TestWarmupBuiltinLanguagesReady(t *testing.T) {
	defer goleak.VerifyNone(t)
	w := NewWarmup(func(KeyboardLanguage) error { return nil })
	defer w.Close()

	assert.Equal(t, StateReady, w.State(LanguageNone))
	assert.Equal(t, StateReady, w.State(LanguageJapanese))
	assert.Equal(t, StateUninitialized, w.State(LanguageEnglish))
	waitClosed(t, w.Prepare(LanguageJapanese))
}

func TestWarmupStates(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	w := NewWarmup(func(lang KeyboardLanguage) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	})
	defer w.Close()

	first := w.Prepare(LanguageEnglish)
	<-started
	assert.Equal(t, StateWarming, w.State(LanguageEnglish))

	second := w.Prepare(LanguageEnglish)
	select {
	case <-second:
		t.Fatal("waiter released while warming")
	default:
	}

	close(release)
	waitClosed(t, first)
	waitClosed(t, second)
	assert.Equal(t, StateReady, w.State(LanguageEnglish))
	assert.Equal(t, int32(1), calls.Load())

	waitClosed(t, w.Prepare(LanguageEnglish))
	assert.Equal(t, int32(1), calls.Load())
}

func TestWarmupConcurrentPrepare(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int32
	w := NewWarmup(func(KeyboardLanguage) error {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	defer w.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-w.Prepare(LanguageGreek)
		}()
	}
	wg.Wait()

	assert.Equal(t, StateReady, w.State(LanguageGreek))
	assert.Equal(t, int32(1), calls.Load())
}

func TestWarmupFailureCanRetry(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls atomic.Int32
	w := NewWarmup(func(KeyboardLanguage) error {
		if calls.Add(1) == 1 {
			return errors.New("word list missing")
		}
		return nil
	})
	defer w.Close()

	waitClosed(t, w.Prepare(LanguageEnglish))
	assert.Equal(t, StateUninitialized, w.State(LanguageEnglish))

	waitClosed(t, w.Prepare(LanguageEnglish))
	assert.Equal(t, StateReady, w.State(LanguageEnglish))
}

func TestWarmupRecoversPanic(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := NewWarmup(func(KeyboardLanguage) error {
		panic("broken backend")
	})
	defer w.Close()

	waitClosed(t, w.Prepare(LanguageEnglish))
	assert.Equal(t, StateUninitialized, w.State(LanguageEnglish))

	// the worker survives and still serves requests
	waitClosed(t, w.Prepare(LanguageGreek))
	assert.Equal(t, StateUninitialized, w.State(LanguageGreek))
}

func TestWarmupNilFunc(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := NewWarmup(nil)
	defer w.Close()

	waitClosed(t, w.Prepare(LanguageEnglish))
	assert.Equal(t, StateUninitialized, w.State(LanguageEnglish))
}

func TestWarmupClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := NewWarmup(func(KeyboardLanguage) error { return nil })
	w.Close()
	w.Close()

	waitClosed(t, w.Prepare(LanguageEnglish))
	assert.Equal(t, StateUninitialized, w.State(LanguageEnglish))
}

func TestWarmupCloseReleasesWaiters(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	w := NewWarmup(func(lang KeyboardLanguage) error {
		if lang == LanguageEnglish {
			close(started)
			<-release
		}
		return nil
	})

	english := w.Prepare(LanguageEnglish)
	<-started
	greek := w.Prepare(LanguageGreek)

	closed := make(chan struct{})
	go func() {
		w.Close()
		close(closed)
	}()
	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.closed
	}, time.Second, time.Millisecond)
	close(release)

	waitClosed(t, closed)
	waitClosed(t, english)
	waitClosed(t, greek)
	assert.Equal(t, StateReady, w.State(LanguageEnglish))
	assert.Equal(t, StateUninitialized, w.State(LanguageGreek))
}
