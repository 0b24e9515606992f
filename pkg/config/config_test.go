package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Full(t *testing.T) {
	path := writeConfig(t, `
[lexicon]
path = "ci.json"
alphabet = "han"
lowercase = false

[lexicon.replace]
"ü" = "v"

[search]
wildcard = "A"
time_limit_seconds = 5

[extract]
workers = 2
zero_indexed = true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ci.json", cfg.Lexicon.Path)
	assert.Equal(t, "han", cfg.Lexicon.Alphabet)
	assert.False(t, cfg.Lexicon.Lowercase)
	assert.Equal(t, map[string]string{"ü": "v"}, cfg.Lexicon.Replace)
	assert.Equal(t, 5*time.Second, cfg.Search.TimeLimit())
	assert.Equal(t, 300, cfg.Search.MaxResults)
	assert.Equal(t, 2, cfg.Extract.Workers)
	assert.True(t, cfg.Extract.ZeroIndexed)
	assert.Equal(t, 50, cfg.Rank.Limit)

	r, err := cfg.Search.WildcardRune()
	require.NoError(t, err)
	assert.Equal(t, 'A', r)
}

func TestLoadConfig_PartialRecovery(t *testing.T) {
	// Given: a config whose workers field has the wrong type
	path := writeConfig(t, `
[extract]
workers = "many"
sort = "key"

[search]
max_results = 10
`)

	// When: loading it
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Then: well-typed fields survive and the bad one keeps its default
	assert.Equal(t, 4, cfg.Extract.Workers)
	assert.Equal(t, "key", cfg.Extract.Sort)
	assert.Equal(t, 10, cfg.Search.MaxResults)
}

func TestLoadConfig_Unparseable(t *testing.T) {
	path := writeConfig(t, "[[[ not toml")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg.Rank.Limit = 7
	require.NoError(t, SaveConfig(cfg, path))
	again, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, again.Rank.Limit)
}

func TestLoadConfigWithPriority_CustomPath(t *testing.T) {
	path := writeConfig(t, "[rank]\nlimit = 3\n")
	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 3, cfg.Rank.Limit)
}

func TestLexiconConfig_BuildOptions(t *testing.T) {
	lex := DefaultConfig().Lexicon
	lex.Replace = map[string]string{"ü": "v"}
	opts, err := lex.BuildOptions()
	require.NoError(t, err)

	ix, err := lexicon.Build([]lexicon.Entry{{Text: "LÜE"}}, opts...)
	require.NoError(t, err)
	assert.True(t, ix.Contains("lve"))

	lex.Alphabet = "runic"
	_, err = lex.BuildOptions()
	assert.Error(t, err)
}

func TestSearchConfig_WildcardRune(t *testing.T) {
	_, err := SearchConfig{Wildcard: "??"}.WildcardRune()
	assert.Error(t, err)
	_, err = SearchConfig{Wildcard: ""}.WildcardRune()
	assert.Error(t, err)
	assert.Zero(t, SearchConfig{}.TimeLimit())
}
