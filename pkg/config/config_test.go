package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/kanaserve/pkg/convert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigMatchesConvertDefaults(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, convert.DefaultOptions(), config.Convert.Options())
	assert.Equal(t, map[string]string{"en-US": "data/en"}, config.Dict.ChunkDirs())
	assert.Equal(t, 50000, config.Dict.SpellOptions().MaxWords)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
max_candidates = 16

[dict]
path = "/opt/kana/dict.tsv"
greek_dir = "/opt/kana/el"
min_frequency_threshold = 5

[convert]
n_best = 4
typography_letter = true
keyboard_language = "en_US"
app_version = "0.3.1"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 16, config.Server.MaxCandidates)
	assert.Equal(t, 120, config.Server.MaxInputLength)
	assert.Equal(t, "/opt/kana/dict.tsv", config.Dict.Path)
	assert.Equal(t, 5, config.Dict.SpellOptions().MinFrequency)
	assert.Equal(t, map[string]string{"en-US": "data/en", "el": "/opt/kana/el"}, config.Dict.ChunkDirs())

	opts := config.Convert.Options()
	assert.Equal(t, 4, opts.NBest)
	assert.True(t, opts.TypographyLetter)
	assert.True(t, opts.RequireJapanesePrediction)
	assert.Equal(t, convert.LanguageEnglish, opts.KeyboardLanguage)
	assert.Equal(t, "0.3.1", opts.AppVersion)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// max_candidates has the wrong type, so strict decoding fails
	path := writeConfig(t, `
[server]
max_candidates = "many"
max_input_length = 40

[convert]
unicode_candidate = true
japanese_prediction = false

[cli]
default_limit = 3
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 64, config.Server.MaxCandidates)
	assert.Equal(t, 40, config.Server.MaxInputLength)
	assert.True(t, config.Convert.UnicodeCandidate)
	assert.False(t, config.Convert.JapanesePrediction)
	assert.Equal(t, 3, config.CLI.DefaultLimit)
}

func TestLoadConfigUnparseable(t *testing.T) {
	path := writeConfig(t, "[server\nmax_candidates = ")

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestInitConfigCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	config, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, reloaded)
}

func TestUnknownKeyboardLanguage(t *testing.T) {
	conv := DefaultConfig().Convert
	conv.KeyboardLanguage = "klingon"
	assert.Equal(t, convert.LanguageJapanese, conv.Options().KeyboardLanguage)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[cli]\nshow_values = false\n")

	config, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.False(t, config.CLI.ShowValues)
	assert.Equal(t, path, GetActiveConfigPath(path))
}
