// Package dictionary loads the Japanese reading dictionary and the
// per-language word chunks used for foreign completions.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/unicode/norm"
)

const (
	learnStep  dicdata.PValue = 1.0
	learnCap   dicdata.PValue = 3.0
	bigramStep dicdata.PValue = 0.5
	bigramCap  dicdata.PValue = 2.0
)

// Store indexes entries by katakana reading. Lookups are safe for
// concurrent use with learning updates.
type Store struct {
	mu        sync.RWMutex
	trie      *patricia.Trie
	entries   int
	followers []dicdata.DicdataElement
	learned   map[string]dicdata.PValue
	bigrams   map[string]dicdata.PValue
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		trie:    patricia.NewTrie(),
		learned: make(map[string]dicdata.PValue),
		bigrams: make(map[string]dicdata.PValue),
	}
}

// Add inserts an entry. Entries with an empty reading are ignored.
func (s *Store) Add(e dicdata.DicdataElement) {
	e.Ruby = kana.ToKatakana(e.Ruby)
	if e.Ruby == "" {
		return
	}
	if e.Word == "" {
		e.Word = e.Ruby
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := patricia.Prefix(e.Ruby)
	if item := s.trie.Get(key); item != nil {
		s.trie.Set(key, append(item.([]dicdata.DicdataElement), e))
	} else {
		s.trie.Insert(key, []dicdata.DicdataElement{e})
	}
	s.entries++

	if e.IsFunctional() {
		s.followers = append(s.followers, e)
		sort.SliceStable(s.followers, func(i, j int) bool {
			return s.followers[i].Value > s.followers[j].Value
		})
	}
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

// Lookup returns every entry whose reading is a prefix of text, learning
// bonus applied. text may be hiragana or katakana.
func (s *Store) Lookup(text string) []dicdata.DicdataElement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []dicdata.DicdataElement
	err := s.trie.VisitPrefixes(patricia.Prefix(kana.ToKatakana(text)), func(_ patricia.Prefix, item patricia.Item) error {
		for _, e := range item.([]dicdata.DicdataElement) {
			result = append(result, s.boosted(e))
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting dictionary prefixes: %v", err)
	}
	return result
}

// Predict returns up to limit entries whose reading strictly extends
// prefix, best first.
func (s *Store) Predict(prefix string, limit int) []dicdata.DicdataElement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := kana.ToKatakana(prefix)
	if key == "" {
		return nil
	}
	var result []dicdata.DicdataElement
	err := s.trie.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
		if string(p) == key {
			return nil
		}
		for _, e := range item.([]dicdata.DicdataElement) {
			result = append(result, s.boosted(e))
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting dictionary subtree: %v", err)
		return nil
	}
	sortByValue(result)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// Followers returns up to limit particle/auxiliary entries, best first.
func (s *Store) Followers(limit int) []dicdata.DicdataElement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.followers)
	if limit > 0 && n > limit {
		n = limit
	}
	result := make([]dicdata.DicdataElement, n)
	for i := range result {
		result[i] = s.boosted(s.followers[i])
	}
	return result
}

// UpdateLearningData raises the score of every element of a committed
// candidate and of each adjacent pair, starting from previous (the last
// element of the commit before this one), up to fixed caps.
func (s *Store) UpdateLearningData(c candidate.Candidate, previous *dicdata.DicdataElement) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := previous
	for i := range c.Data {
		d := c.Data[i]
		s.learned[d.Key()] = min(learnCap, s.learned[d.Key()]+learnStep)
		if prev != nil {
			key := bigramKey(*prev, d)
			s.bigrams[key] = min(bigramCap, s.bigrams[key]+bigramStep)
		}
		prev = &d
	}
	log.Debugf("Learned %d elements from %q", len(c.Data), c.Text)
}

// BigramBonus is the learned bonus for next directly following prev.
func (s *Store) BigramBonus(prev, next dicdata.DicdataElement) dicdata.PValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bigrams[bigramKey(prev, next)]
}

func (s *Store) boosted(e dicdata.DicdataElement) dicdata.DicdataElement {
	e.Value += s.learned[e.Key()]
	return e
}

func bigramKey(prev, next dicdata.DicdataElement) string {
	return prev.Key() + "\x01" + next.Key()
}

func sortByValue(elements []dicdata.DicdataElement) {
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Value > elements[j].Value
	})
}

// LoadTSVFile loads a dictionary file, see LoadTSV for the format.
func (s *Store) LoadTSVFile(path string) (int, error) {
	if err := ValidateFileFormat(path, FormatTSV); err != nil {
		return 0, err
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open dictionary %s: %w", path, err)
	}
	defer file.Close()

	n, err := s.LoadTSV(file)
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded %d dictionary entries from %s", n, path)
	return n, nil
}

// LoadTSV reads tab-separated lines `ruby word cid mid value`. The word may
// be empty (the reading is used), cid is a class name such as "noun" or
// "particle", mid is numeric. Blank lines and lines starting with # are
// skipped. Text is NFKC-normalised.
func (s *Store) LoadTSV(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	lineNo, count := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e, err := parseTSVLine(line)
		if err != nil {
			return count, fmt.Errorf("line %d: %w", lineNo, err)
		}
		s.Add(e)
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return count, nil
}

func parseTSVLine(line string) (dicdata.DicdataElement, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 5 {
		return dicdata.DicdataElement{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}
	cid, ok := dicdata.ParseCID(fields[2])
	if !ok {
		return dicdata.DicdataElement{}, fmt.Errorf("unknown class %q", fields[2])
	}
	mid, err := strconv.ParseUint(fields[3], 10, 16)
	if err != nil {
		return dicdata.DicdataElement{}, fmt.Errorf("invalid mid %q: %w", fields[3], err)
	}
	value, err := strconv.ParseFloat(fields[4], 32)
	if err != nil {
		return dicdata.DicdataElement{}, fmt.Errorf("invalid value %q: %w", fields[4], err)
	}
	ruby := norm.NFKC.String(fields[0])
	word := norm.NFKC.String(fields[1])
	return dicdata.New(word, ruby, cid, dicdata.MID(mid), dicdata.PValue(value)), nil
}
