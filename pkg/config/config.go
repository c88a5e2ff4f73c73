/*
Package config manages TOML config for kanaserve.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/kanaserve/internal/utils"
	"github.com/bastiangx/kanaserve/pkg/convert"
	"github.com/bastiangx/kanaserve/pkg/spell"
	"github.com/charmbracelet/log"
)

const configFileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Dict    DictConfig    `toml:"dict"`
	Convert ConvertConfig `toml:"convert"`
	CLI     CliConfig     `toml:"cli"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	// MaxCandidates caps the main list in responses, 0 sends everything.
	MaxCandidates  int `toml:"max_candidates"`
	MaxInputLength int `toml:"max_input_length"`
}

// DictConfig holds dictionary and word list options.
type DictConfig struct {
	// Path is the Japanese reading dictionary (TSV).
	Path string `toml:"path"`
	// EnglishDir and GreekDir hold dict_*.bin chunks, empty disables the language.
	EnglishDir         string `toml:"english_dir"`
	GreekDir           string `toml:"greek_dir"`
	MaxWords           int    `toml:"max_words"`
	SuggestionLimit    int    `toml:"suggestion_limit"`
	MinFreqThreshold   int    `toml:"min_frequency_threshold"`
	MinFreqShortPrefix int    `toml:"min_frequency_short_prefix"`
}

// ConvertConfig holds the defaults of every conversion request.
type ConvertConfig struct {
	NBest               int    `toml:"n_best"`
	TypographyLetter    bool   `toml:"typography_letter"`
	UnicodeCandidate    bool   `toml:"unicode_candidate"`
	FullWidthRoman      bool   `toml:"full_width_roman"`
	HalfWidthKana       bool   `toml:"half_width_kana"`
	JapanesePrediction  bool   `toml:"japanese_prediction"`
	EnglishPrediction   bool   `toml:"english_prediction"`
	EnglishInRoman2Kana bool   `toml:"english_in_roman2kana"`
	KeyboardLanguage    string `toml:"keyboard_language"`
	AppVersion          string `toml:"app_version"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	ShowValues      bool `toml:"show_values"`
	ShowFirstClause bool `toml:"show_first_clause"`
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	resolver, err := utils.NewPathResolver()
	if err != nil {
		log.Errorf("Failed to resolve config directory: %v", err)
		return "", err
	}
	return resolver.GetConfigPath(configFileName), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/kanaserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	opts := convert.DefaultOptions()
	spellOpts := spell.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			MaxCandidates:  64,
			MaxInputLength: 120,
		},
		Dict: DictConfig{
			Path:               "data/dict.tsv",
			EnglishDir:         "data/en",
			GreekDir:           "",
			MaxWords:           spellOpts.MaxWords,
			SuggestionLimit:    spellOpts.Limit,
			MinFreqThreshold:   spellOpts.MinFrequency,
			MinFreqShortPrefix: spellOpts.MinFrequencyShort,
		},
		Convert: ConvertConfig{
			NBest:               opts.NBest,
			TypographyLetter:    opts.TypographyLetter,
			UnicodeCandidate:    opts.UnicodeCandidate,
			FullWidthRoman:      opts.FullWidthRoman,
			HalfWidthKana:       opts.HalfWidthKana,
			JapanesePrediction:  opts.RequireJapanesePrediction,
			EnglishPrediction:   opts.RequireEnglishPrediction,
			EnglishInRoman2Kana: opts.EnglishInRoman2Kana,
			KeyboardLanguage:    opts.KeyboardLanguage.String(),
		},
		CLI: CliConfig{
			DefaultLimit:    10,
			ShowValues:      true,
			ShowFirstClause: false,
		},
	}
}

// Options turns the [convert] section into request options. An unknown
// keyboard language falls back to Japanese.
func (c ConvertConfig) Options() convert.Options {
	opts := convert.DefaultOptions()
	if c.NBest > 0 {
		opts.NBest = c.NBest
	}
	opts.TypographyLetter = c.TypographyLetter
	opts.UnicodeCandidate = c.UnicodeCandidate
	opts.FullWidthRoman = c.FullWidthRoman
	opts.HalfWidthKana = c.HalfWidthKana
	opts.RequireJapanesePrediction = c.JapanesePrediction
	opts.RequireEnglishPrediction = c.EnglishPrediction
	opts.EnglishInRoman2Kana = c.EnglishInRoman2Kana
	opts.AppVersion = c.AppVersion
	if lang, ok := convert.ParseKeyboardLanguage(c.KeyboardLanguage); ok {
		opts.KeyboardLanguage = lang
	} else {
		log.Warnf("Unknown keyboard language %q, using %s", c.KeyboardLanguage, opts.KeyboardLanguage)
	}
	return opts
}

// ChunkDirs maps completion language tags to their configured chunk directories.
func (d DictConfig) ChunkDirs() map[string]string {
	dirs := make(map[string]string)
	if d.EnglishDir != "" {
		dirs[convert.LanguageEnglish.Tag()] = d.EnglishDir
	}
	if d.GreekDir != "" {
		dirs[convert.LanguageGreek.Tag()] = d.GreekDir
	}
	return dirs
}

// SpellOptions returns the completion thresholds of the [dict] section.
func (d DictConfig) SpellOptions() spell.Options {
	return spell.Options{
		MaxWords:          d.MaxWords,
		Limit:             d.SuggestionLimit,
		MinFrequency:      d.MinFreqThreshold,
		MinFrequencyShort: d.MinFreqShortPrefix,
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages the sections that still decode
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if dictSection, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(dictSection, &config.Dict)
	}
	if convertSection, ok := utils.ExtractSection(tempConfig, "convert"); ok {
		extractConvertConfig(convertSection, &config.Convert)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_candidates"); ok {
		server.MaxCandidates = val
	}
	if val, ok := utils.ExtractInt64(data, "max_input_length"); ok {
		server.MaxInputLength = val
	}
}

func extractDictConfig(data map[string]any, dict *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		dict.Path = val
	}
	if val, ok := utils.ExtractString(data, "english_dir"); ok {
		dict.EnglishDir = val
	}
	if val, ok := utils.ExtractString(data, "greek_dir"); ok {
		dict.GreekDir = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		dict.MaxWords = val
	}
	if val, ok := utils.ExtractInt64(data, "suggestion_limit"); ok {
		dict.SuggestionLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_frequency_threshold"); ok {
		dict.MinFreqThreshold = val
	}
	if val, ok := utils.ExtractInt64(data, "min_frequency_short_prefix"); ok {
		dict.MinFreqShortPrefix = val
	}
}

func extractConvertConfig(data map[string]any, conv *ConvertConfig) {
	if val, ok := utils.ExtractInt64(data, "n_best"); ok {
		conv.NBest = val
	}
	flags := map[string]*bool{
		"typography_letter":     &conv.TypographyLetter,
		"unicode_candidate":     &conv.UnicodeCandidate,
		"full_width_roman":      &conv.FullWidthRoman,
		"half_width_kana":       &conv.HalfWidthKana,
		"japanese_prediction":   &conv.JapanesePrediction,
		"english_prediction":    &conv.EnglishPrediction,
		"english_in_roman2kana": &conv.EnglishInRoman2Kana,
	}
	for key, field := range flags {
		if val, ok := utils.ExtractBool(data, key); ok {
			*field = val
		}
	}
	if val, ok := utils.ExtractString(data, "keyboard_language"); ok {
		conv.KeyboardLanguage = val
	}
	if val, ok := utils.ExtractString(data, "app_version"); ok {
		conv.AppVersion = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_values"); ok {
		cli.ShowValues = val
	}
	if val, ok := utils.ExtractBool(data, "show_first_clause"); ok {
		cli.ShowFirstClause = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
