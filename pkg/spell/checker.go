// Package spell completes partial foreign-language words from per-language
// frequency word lists.
package spell

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/kanaserve/internal/utils"
	"github.com/bastiangx/kanaserve/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Suggestion is one completion with its frequency score.
type Suggestion struct {
	Word      string
	Frequency int
}

// Options tunes completion output.
type Options struct {
	// MaxWords caps how many words are loaded per language; 0 loads all.
	MaxWords int
	// Limit caps how many completions are returned.
	Limit int
	// MinFrequency drops rare words.
	MinFrequency int
	// MinFrequencyShort applies instead to prefixes of two characters or
	// fewer and to repetitive prefixes like "aaa".
	MinFrequencyShort int
}

// DefaultOptions mirrors the [dict] defaults of the config file.
func DefaultOptions() Options {
	return Options{
		MaxWords:          50000,
		Limit:             8,
		MinFrequency:      20,
		MinFrequencyShort: 24,
	}
}

// Checker holds one completion trie per language tag. Languages are
// loaded by Warm; until then Completions returns nil for them.
type Checker struct {
	mu      sync.RWMutex
	dirs    map[string]string
	tries   map[string]*patricia.Trie
	pending map[string]map[string]int
	opts    Options
}

// NewChecker creates a checker for the languages in dirs, which maps a
// language tag such as "en-US" to a directory of dict_*.bin chunks.
func NewChecker(dirs map[string]string, opts Options) *Checker {
	copied := make(map[string]string, len(dirs))
	for lang, dir := range dirs {
		copied[lang] = dir
	}
	return &Checker{
		dirs:    copied,
		tries:   make(map[string]*patricia.Trie),
		pending: make(map[string]map[string]int),
		opts:    opts,
	}
}

// Supported reports whether lang has a configured word list.
func (c *Checker) Supported(lang string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.dirs[lang]
	return ok
}

// Loaded reports whether lang is ready to complete.
func (c *Checker) Loaded(lang string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tries[lang]
	return ok
}

// Warm loads the word list for lang. Loading an already loaded language
// is a no-op.
func (c *Checker) Warm(lang string) error {
	c.mu.RLock()
	dir, ok := c.dirs[lang]
	_, loaded := c.tries[lang]
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	if !ok {
		return fmt.Errorf("no word list configured for %q", lang)
	}

	loader := dictionary.NewChunkLoader(dir, c.opts.MaxWords)
	if err := loader.LoadAll(); err != nil {
		return fmt.Errorf("failed to load %s words: %w", lang, err)
	}
	stats := loader.Stats()
	log.Debugf("Loaded %d %s words from %d/%d chunks", stats.TotalWords, lang, stats.LoadedChunks, stats.AvailableChunks)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tries[lang]; ok {
		return nil
	}
	trie := loader.Trie()
	for word, frequency := range c.pending[lang] {
		trie.Set(patricia.Prefix(word), frequency)
	}
	delete(c.pending, lang)
	c.tries[lang] = trie
	return nil
}

// AddWord inserts a word for lang. Words added before the language is
// loaded are kept and merged in by Warm.
func (c *Checker) AddWord(lang, word string, frequency int) {
	word = strings.ToLower(word)
	c.mu.Lock()
	defer c.mu.Unlock()
	if trie, ok := c.tries[lang]; ok {
		trie.Set(patricia.Prefix(word), frequency)
		return
	}
	if c.pending[lang] == nil {
		c.pending[lang] = make(map[string]int)
	}
	c.pending[lang][word] = frequency
}

// Completions returns words extending partial in lang, most frequent
// first, re-applying the capitalisation typed so far. It returns nil when
// lang is not loaded.
func (c *Checker) Completions(partial, lang string) []string {
	suggestions := c.Complete(partial, lang)
	if suggestions == nil {
		return nil
	}
	words := make([]string, len(suggestions))
	for i, s := range suggestions {
		words[i] = s.Word
	}
	return words
}

// Complete is Completions with frequencies.
func (c *Checker) Complete(partial, lang string) []Suggestion {
	if partial == "" {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	trie, ok := c.tries[lang]
	if !ok {
		return nil
	}

	lowerPrefix := strings.ToLower(partial)
	capitalPositions := make([]bool, 0, len(partial))
	for _, r := range partial {
		capitalPositions = append(capitalPositions, r >= 'A' && r <= 'Z')
	}

	minFrequency := c.opts.MinFrequency
	if len([]rune(lowerPrefix)) <= 2 || utils.IsRepetitive(lowerPrefix) {
		minFrequency = c.opts.MinFrequencyShort
	}

	filter := utils.NewSuggestionFilter(lowerPrefix)
	suggestions := []Suggestion{}
	err := trie.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		freq, ok := item.(int)
		if !ok {
			log.Errorf("Unknown item type: %T for word %s", item, word)
			return nil
		}
		if freq < minFrequency || !filter.ShouldInclude(word) {
			return nil
		}
		suggestions = append(suggestions, Suggestion{
			Word:      applyCapitalization(word, capitalPositions),
			Frequency: freq,
		})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Frequency != suggestions[j].Frequency {
			return suggestions[i].Frequency > suggestions[j].Frequency
		}
		return suggestions[i].Word < suggestions[j].Word
	})
	if c.opts.Limit > 0 && len(suggestions) > c.opts.Limit {
		suggestions = suggestions[:c.opts.Limit]
	}
	return suggestions
}

// applyCapitalization uppercases the letters of word at the positions the
// user typed in uppercase.
func applyCapitalization(word string, capitalPositions []bool) string {
	runes := []rune(word)
	for i := 0; i < len(runes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] && runes[i] >= 'a' && runes[i] <= 'z' {
			runes[i] = runes[i] - 'a' + 'A'
		}
	}
	return string(runes)
}
