//go:build test

package convert

import (
	"runtime"
	"testing"

	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/charmbracelet/log"
)

var typingPatterns = []string{
	"henkansuru",
	"kanjiwokaku",
	"kanjigakanji",
	"kannji",
}

// heapAfterGC returns the live heap once garbage has been collected.
func heapAfterGC() uint64 {
	runtime.GC()
	runtime.GC()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.HeapAlloc
}

// typeAndErase types every pattern key by key and deletes it again, so the
// session walks through append, delete and replace requests.
func typeAndErase(c *Converter, s *Session) {
	for _, pattern := range typingPatterns {
		text := kana.ComposingText{}
		for _, r := range pattern {
			text = text.Append(string(r), kana.Roman2Kana)
			c.RequestCandidates(s, text, DefaultOptions())
		}
		for !text.IsEmpty() {
			text = text.DeleteLast(1)
			c.RequestCandidates(s, text, DefaultOptions())
		}
		c.ResetState(s)
	}
}

func TestSessionMemoryStable(t *testing.T) {
	log.SetLevel(log.ErrorLevel)
	c, _ := newTestConverter(t)
	s := NewSession()

	// warm caches and the allocator first
	typeAndErase(c, s)
	before := heapAfterGC()

	for i := 0; i < 200; i++ {
		typeAndErase(c, s)
	}
	after := heapAfterGC()

	const allowed = 4 << 20
	if after > before && after-before > allowed {
		t.Errorf("heap grew by %d bytes over 200 rounds (before %d, after %d)", after-before, before, after)
	}
	t.Logf("heap before %d, after %d", before, after)
}

func TestManySessionsReleased(t *testing.T) {
	log.SetLevel(log.ErrorLevel)
	c, _ := newTestConverter(t)

	before := heapAfterGC()
	for i := 0; i < 500; i++ {
		s := NewSession()
		c.RequestCandidates(s, kana.FromRoman("kanjiwokaku"), DefaultOptions())
	}
	after := heapAfterGC()

	const allowed = 2 << 20
	if after > before && after-before > allowed {
		t.Errorf("heap grew by %d bytes after discarding 500 sessions", after-before)
	}
}
