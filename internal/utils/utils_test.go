package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringPredicates(t *testing.T) {
	testCases := []struct {
		input       string
		roman       bool
		letters     bool
		alnum       bool
		description string
	}{
		{"abc", true, true, true, "ASCII letters"},
		{"ABCxyz", true, true, true, "Mixed case"},
		{"abc1", false, false, true, "Digit"},
		{"αβγ", false, true, false, "Greek letters"},
		{"かな", false, true, false, "Kana"},
		{"a-b", false, false, false, "Punctuation"},
		{"", false, false, false, "Empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.roman, OnlyRomanAlphabet(tc.input))
			assert.Equal(t, tc.letters, OnlyLetters(tc.input))
			assert.Equal(t, tc.alnum, OnlyASCIIAlphanumeric(tc.input))
		})
	}
}

func TestIsRepetitive(t *testing.T) {
	assert.True(t, IsRepetitive("aaa"))
	assert.True(t, IsRepetitive("wwww"))
	assert.False(t, IsRepetitive("aa"))
	assert.False(t, IsRepetitive("aab"))
}

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("Hello")

	assert.False(t, f.ShouldInclude("hello"), "input word is excluded")
	assert.True(t, f.ShouldInclude("help"))
	assert.False(t, f.ShouldInclude("HELP"), "repeat is case-insensitive")
	assert.True(t, f.ShouldInclude("helm"))
}

func TestParseTOMLWithRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
max_candidates = 12

[convert]
keyboard_language = "en_US"
full_width_roman = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)

	server, ok := ExtractSection(data, "server")
	require.True(t, ok)
	n, ok := ExtractInt64(server, "max_candidates")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	convert, ok := ExtractSection(data, "convert")
	require.True(t, ok)
	lang, ok := ExtractString(convert, "keyboard_language")
	assert.True(t, ok)
	assert.Equal(t, "en_US", lang)
	wide, ok := ExtractBool(convert, "full_width_roman")
	assert.True(t, ok)
	assert.True(t, wide)

	_, ok = ExtractInt64(convert, "keyboard_language")
	assert.False(t, ok, "wrong type is not extracted")
	_, ok = ExtractSection(data, "cli")
	assert.False(t, ok)
}

func TestParseTOMLWithRecoveryBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nmax = "), 0644))

	_, err := ParseTOMLWithRecovery(path)
	assert.Error(t, err)

	_, err = ParseTOMLWithRecovery(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestSaveAndLoadTOMLFile(t *testing.T) {
	type section struct {
		Limit int    `toml:"limit"`
		Name  string `toml:"name"`
	}
	type document struct {
		Section section `toml:"section"`
	}

	dir := filepath.Join(t.TempDir(), "nested")
	require.NoError(t, EnsureDir(dir))
	path := filepath.Join(dir, "out.toml")

	require.NoError(t, SaveTOMLFile(document{Section: section{Limit: 5, Name: "kana"}}, path))
	assert.True(t, FileExists(path))

	var loaded document
	require.NoError(t, LoadTOMLFile(path, &loaded))
	assert.Equal(t, 5, loaded.Section.Limit)
	assert.Equal(t, "kana", loaded.Section.Name)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "created")

	result := CheckDirStatus(dir)
	assert.NoError(t, result.Error)
	assert.True(t, result.Exists)
	assert.True(t, result.Writable)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write check leaves nothing behind")
}

func TestSaveTOMLFileReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("old = true\n"), 0644))

	require.NoError(t, SaveTOMLFile(map[string]int{"limit": 3}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "limit = 3\n", string(data))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left")
}

func TestGetAbsolutePath(t *testing.T) {
	assert.Equal(t, "unknown", GetAbsolutePath(""))
	assert.Equal(t, "/etc/kanaserve.toml", GetAbsolutePath("/etc/kanaserve.toml"))
	assert.Equal(t, "/etc/kanaserve.toml", GetAbsolutePath("/etc/../etc/kanaserve.toml"))
	assert.True(t, filepath.IsAbs(GetAbsolutePath("relative.toml")))
}

func TestGetDataDirFindsDictionary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dict.tsv"), nil, 0644))

	pr := &PathResolver{executableDir: t.TempDir(), configDir: t.TempDir()}
	assert.Equal(t, dir, pr.GetDataDir(dir))
	assert.False(t, isValidDataDir(pr.executableDir))
}
