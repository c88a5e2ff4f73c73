package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// ChunkLoader reads a directory of dict_NNNN.bin word chunks into a trie.
//
// Chunk layout (little endian): int32 word count, then per word a uint16
// byte length, the UTF-8 bytes and a uint16 rank (1 is most frequent).
type ChunkLoader struct {
	dirPath      string
	maxWords     int
	loadedChunks map[int]bool
	trie         *patricia.Trie
	totalWords   int
	maxFrequency int
	errorCount   map[int]int
	maxRetries   int
	mu           sync.RWMutex
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ChunkID   int
	Filename  string
	WordCount int
}

// LoaderStats provides statistics about the loading process
type LoaderStats struct {
	TotalWords      int
	LoadedChunks    int
	AvailableChunks int
	MaxFrequency    int
}

// NewChunkLoader creates a loader for dirPath; maxWords 0 loads every chunk.
func NewChunkLoader(dirPath string, maxWords int) *ChunkLoader {
	return &ChunkLoader{
		dirPath:      dirPath,
		maxWords:     maxWords,
		loadedChunks: make(map[int]bool),
		trie:         patricia.NewTrie(),
		errorCount:   make(map[int]int),
		maxRetries:   3,
	}
}

// GetAvailableChunks scans the directory for available chunk files
func (cl *ChunkLoader) GetAvailableChunks() ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(cl.dirPath, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}
		wordCount, err := getChunkWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{ChunkID: chunkID, Filename: file, WordCount: wordCount})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkID < chunks[j].ChunkID
	})
	return chunks, nil
}

// getChunkWordCount reads the word count from a chunk file's header
func getChunkWordCount(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var wordCount int32
	if err := binary.Read(file, binary.LittleEndian, &wordCount); err != nil {
		return 0, err
	}
	return int(wordCount), nil
}

// LoadAll loads chunks in id order until maxWords is reached. A chunk that
// fails is retried up to maxRetries times before it is skipped; LoadAll
// only errors when nothing could be loaded.
func (cl *ChunkLoader) LoadAll() error {
	chunks, err := cl.GetAvailableChunks()
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunk files found in %s", cl.dirPath)
	}
	log.Debugf("Found %d chunk files in %s", len(chunks), cl.dirPath)

	loadedWords := 0
	for _, chunk := range chunks {
		if cl.maxWords > 0 && loadedWords >= cl.maxWords {
			break
		}
		for {
			err := cl.loadChunk(chunk)
			if err == nil {
				break
			}
			cl.errorCount[chunk.ChunkID]++
			if cl.errorCount[chunk.ChunkID] >= cl.maxRetries {
				log.Errorf("Chunk %d failed %d times, giving up: %v", chunk.ChunkID, cl.maxRetries, err)
				break
			}
			log.Debugf("Retrying chunk %d (attempt %d/%d)", chunk.ChunkID, cl.errorCount[chunk.ChunkID]+1, cl.maxRetries)
		}
		loadedWords += chunk.WordCount
	}

	if cl.Stats().LoadedChunks == 0 {
		return fmt.Errorf("no chunk in %s could be loaded", cl.dirPath)
	}
	return nil
}

// loadChunk loads a specific chunk into memory
func (cl *ChunkLoader) loadChunk(chunk ChunkInfo) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.loadedChunks[chunk.ChunkID] {
		return nil
	}
	if err := ValidateFileFormat(chunk.Filename, FormatChunk); err != nil {
		return err
	}

	file, err := os.Open(chunk.Filename)
	if err != nil {
		return fmt.Errorf("failed to open chunk file %s: %w", chunk.Filename, err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return fmt.Errorf("failed to read chunk header: %w", err)
	}

	count := 0
	for count < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read word length: %w", err)
		}
		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return fmt.Errorf("failed to read word: %w", err)
		}
		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return fmt.Errorf("failed to read rank: %w", err)
		}

		// rank 1 becomes 65535, rank 2 becomes 65534, ...
		score := int(65535 - rank + 1)
		cl.trie.Set(patricia.Prefix(strings.ToLower(string(wordBytes))), score)
		cl.totalWords++
		if score > cl.maxFrequency {
			cl.maxFrequency = score
		}
		count++
	}

	cl.loadedChunks[chunk.ChunkID] = true
	log.Debugf("Chunk %d loaded: %d words", chunk.ChunkID, count)
	return nil
}

// Trie returns the loaded words keyed in lowercase with their score.
func (cl *ChunkLoader) Trie() *patricia.Trie {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return cl.trie
}

// Stats reports what has been loaded so far.
func (cl *ChunkLoader) Stats() LoaderStats {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	available := 0
	if chunks, err := filepath.Glob(filepath.Join(cl.dirPath, "dict_*.bin")); err == nil {
		available = len(chunks)
	}
	return LoaderStats{
		TotalWords:      cl.totalWords,
		LoadedChunks:    len(cl.loadedChunks),
		AvailableChunks: available,
		MaxFrequency:    cl.maxFrequency,
	}
}

// WriteChunk writes words, most frequent first, as chunk id into dirPath.
func WriteChunk(dirPath string, id int, words []string) (string, error) {
	path := filepath.Join(dirPath, fmt.Sprintf("dict_%04d.bin", id))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chunk %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := binary.Write(w, binary.LittleEndian, int32(len(words))); err != nil {
		return "", err
	}
	for i, word := range words {
		if err := binary.Write(w, binary.LittleEndian, uint16(len(word))); err != nil {
			return "", err
		}
		if _, err := w.WriteString(word); err != nil {
			return "", err
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(min(i+1, 65535))); err != nil {
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush chunk %s: %w", path, err)
	}
	return path, nil
}
