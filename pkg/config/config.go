/*
Package config manages TOML config for the lexicon tools.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/wwhiteqwq/puzzlehunt-tools/internal/utils"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

const appDir = "puzzlehunt-tools"

// Config holds the entire config structure
type Config struct {
	Lexicon LexiconConfig `toml:"lexicon"`
	Search  SearchConfig  `toml:"search"`
	Extract ExtractConfig `toml:"extract"`
	Rank    RankConfig    `toml:"rank"`
	Synonym SynonymConfig `toml:"synonym"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// LexiconConfig describes where the word list lives and how it is normalized.
type LexiconConfig struct {
	Path      string            `toml:"path"`
	Format    string            `toml:"format"`
	Alphabet  string            `toml:"alphabet"`
	GramSize  int               `toml:"gram_size"`
	Lowercase bool              `toml:"lowercase"`
	MaxWords  int               `toml:"max_words"`
	Replace   map[string]string `toml:"replace"`
}

// SearchConfig holds pattern query options.
type SearchConfig struct {
	Wildcard         string `toml:"wildcard"`
	MaxResults       int    `toml:"max_results"`
	TimeLimitSeconds int    `toml:"time_limit_seconds"`
}

// ExtractConfig holds extraction solver options.
type ExtractConfig struct {
	Workers       int    `toml:"workers"`
	ZeroIndexed   bool   `toml:"zero_indexed"`
	CheckInterval int    `toml:"check_interval"`
	Sort          string `toml:"sort"`
}

// RankConfig holds ranking options.
type RankConfig struct {
	Limit int `toml:"limit"`
}

// SynonymConfig points at the external embedding service.
type SynonymConfig struct {
	Endpoint       string `toml:"endpoint"`
	Vectors        string `toml:"vectors"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	PoolSize       int    `toml:"pool_size"`
	MaxFailures    int    `toml:"max_failures"`
	ResetSeconds   int    `toml:"reset_seconds"`
	CacheSize      int    `toml:"cache_size"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit int `toml:"max_limit"`
}

// CliConfig holds repl options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", appDir)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appDir)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/puzzlehunt-tools/config.toml
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
	return &Config{
		Lexicon: LexiconConfig{
			Path:      "",
			Format:    "auto",
			Alphabet:  "letters",
			GramSize:  lexicon.DefaultGramSize,
			Lowercase: true,
			MaxWords:  0,
			Replace:   map[string]string{},
		},
		Search: SearchConfig{
			Wildcard:         "?",
			MaxResults:       300,
			TimeLimitSeconds: 60,
		},
		Extract: ExtractConfig{
			Workers:       4,
			ZeroIndexed:   false,
			CheckInterval: 1024,
			Sort:          "discovery",
		},
		Rank: RankConfig{
			Limit: 50,
		},
		Synonym: SynonymConfig{
			Endpoint:       "http://localhost:8080",
			Vectors:        "",
			TimeoutSeconds: 10,
			PoolSize:       200,
			MaxFailures:    5,
			ResetSeconds:   30,
			CacheSize:      1024,
		},
		Server: ServerConfig{
			MaxLimit: 1000,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
		},
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

// tryPartialParse keeps every well-typed field of a file whose struct decode failed.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "lexicon"); ok {
		extractLexiconConfig(section, &config.Lexicon)
	}
	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "extract"); ok {
		extractExtractConfig(section, &config.Extract)
	}
	if section, ok := utils.ExtractSection(tempConfig, "rank"); ok {
		if val, ok := utils.ExtractInt64(section, "limit"); ok {
			config.Rank.Limit = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "synonym"); ok {
		extractSynonymConfig(section, &config.Synonym)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractInt64(section, "max_limit"); ok {
			config.Server.MaxLimit = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractInt64(section, "default_limit"); ok {
			config.CLI.DefaultLimit = val
		}
	}
	return config, nil
}

func extractLexiconConfig(data map[string]any, lex *LexiconConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		lex.Path = val
	}
	if val, ok := utils.ExtractString(data, "format"); ok {
		lex.Format = val
	}
	if val, ok := utils.ExtractString(data, "alphabet"); ok {
		lex.Alphabet = val
	}
	if val, ok := utils.ExtractInt64(data, "gram_size"); ok {
		lex.GramSize = val
	}
	if val, ok := utils.ExtractBool(data, "lowercase"); ok {
		lex.Lowercase = val
	}
	if val, ok := utils.ExtractInt64(data, "max_words"); ok {
		lex.MaxWords = val
	}
	if val, ok := utils.ExtractStringMap(data, "replace"); ok {
		lex.Replace = val
	}
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractString(data, "wildcard"); ok {
		search.Wildcard = val
	}
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		search.MaxResults = val
	}
	if val, ok := utils.ExtractInt64(data, "time_limit_seconds"); ok {
		search.TimeLimitSeconds = val
	}
}

func extractExtractConfig(data map[string]any, ex *ExtractConfig) {
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		ex.Workers = val
	}
	if val, ok := utils.ExtractBool(data, "zero_indexed"); ok {
		ex.ZeroIndexed = val
	}
	if val, ok := utils.ExtractInt64(data, "check_interval"); ok {
		ex.CheckInterval = val
	}
	if val, ok := utils.ExtractString(data, "sort"); ok {
		ex.Sort = val
	}
}

func extractSynonymConfig(data map[string]any, syn *SynonymConfig) {
	if val, ok := utils.ExtractString(data, "endpoint"); ok {
		syn.Endpoint = val
	}
	if val, ok := utils.ExtractString(data, "vectors"); ok {
		syn.Vectors = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_seconds"); ok {
		syn.TimeoutSeconds = val
	}
	if val, ok := utils.ExtractInt64(data, "pool_size"); ok {
		syn.PoolSize = val
	}
	if val, ok := utils.ExtractInt64(data, "max_failures"); ok {
		syn.MaxFailures = val
	}
	if val, ok := utils.ExtractInt64(data, "reset_seconds"); ok {
		syn.ResetSeconds = val
	}
	if val, ok := utils.ExtractInt64(data, "cache_size"); ok {
		syn.CacheSize = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
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

// Normalizer builds the lexicon normalizer: NFC, then optional lower-casing,
// then the replacement table.
func (c LexiconConfig) Normalizer() lexicon.Normalizer {
	ns := []lexicon.Normalizer{lexicon.NFC}
	if c.Lowercase {
		ns = append(ns, lexicon.Lower)
	}
	if len(c.Replace) > 0 {
		ns = append(ns, lexicon.Replace(c.Replace))
	}
	return lexicon.Chain(ns...)
}

// BuildOptions turns the section into lexicon.Build options.
func (c LexiconConfig) BuildOptions() ([]lexicon.Option, error) {
	alphabet, err := lexicon.AlphabetByName(c.Alphabet)
	if err != nil {
		return nil, err
	}
	opts := []lexicon.Option{
		lexicon.WithAlphabet(alphabet),
		lexicon.WithNormalizer(c.Normalizer()),
	}
	if c.GramSize > 0 {
		opts = append(opts, lexicon.WithGramSize(c.GramSize))
	}
	return opts, nil
}

// WildcardRune returns the configured wildcard, which must be a single rune.
func (c SearchConfig) WildcardRune() (rune, error) {
	if utf8.RuneCountInString(c.Wildcard) != 1 {
		return 0, fmt.Errorf("wildcard %q must be exactly one character", c.Wildcard)
	}
	r, _ := utf8.DecodeRuneInString(c.Wildcard)
	return r, nil
}

// TimeLimit is zero when no limit is configured.
func (c SearchConfig) TimeLimit() time.Duration {
	return seconds(c.TimeLimitSeconds)
}

func (c SynonymConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

func (c SynonymConfig) ResetTimeout() time.Duration {
	return seconds(c.ResetSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
