package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/config"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/pattern"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/synonym"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	buildOpts, err := cfg.Lexicon.BuildOptions()
	require.NoError(t, err)
	ix, err := lexicon.Build([]lexicon.Entry{
		{Text: "cat", Key: 3}, {Text: "car", Key: 5}, {Text: "cart", Key: 1},
		{Text: "art", Key: 2}, {Text: "tar", Key: 4}, {Text: "ox", Key: 1},
	}, buildOpts...)
	require.NoError(t, err)
	e, err := New(ix, cfg, opts...)
	require.NoError(t, err)
	return e
}

func TestEngine_Search(t *testing.T) {
	e := newEngine(t)

	got, err := e.Search(pattern.Request{Pattern: "ca?"}, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "car", got[0].Text)
	assert.Equal(t, "cat", got[1].Text)

	got, err = e.Search(pattern.Request{Pattern: "ca?"}, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = e.Search(pattern.Request{}, 0)
	assert.ErrorIs(t, err, lexicon.ErrInvalidInput)
}

func TestEngine_Complete(t *testing.T) {
	e := newEngine(t)
	got, err := e.Complete("CA", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "car", got[0].Text)
}

func TestEngine_Extract(t *testing.T) {
	e := newEngine(t)

	// Given: feeders read at their first character spell "cat" or "tac"
	res, err := e.Extract(context.Background(), ExtractRequest{
		Feeders:        []string{"cart", "art", "tar"},
		Positions:      []string{"1", "1", "1"},
		ShuffleFeeders: true,
	})
	require.NoError(t, err)

	var spelled []string
	for _, x := range res.Extractions {
		spelled = append(spelled, x.Word.Text)
	}
	assert.Contains(t, spelled, "cat")
}

func TestEngine_ExtractRejectsBadPosition(t *testing.T) {
	e := newEngine(t)
	_, err := e.Extract(context.Background(), ExtractRequest{
		Feeders:   []string{"cart"},
		Positions: []string{"x"},
	})
	assert.ErrorIs(t, err, lexicon.ErrInvalidInput)
}

func TestEngine_Rank(t *testing.T) {
	e := newEngine(t)
	got, err := e.Rank(RankRequest{Targets: []string{"c", "a", "x"}})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "car", got[0].Word.Text)
	assert.Equal(t, 2, got[0].Score)

	_, err = e.Rank(RankRequest{})
	assert.ErrorIs(t, err, lexicon.ErrInvalidInput)
}

func TestEngine_SynonymsWithoutOracle(t *testing.T) {
	e := newEngine(t)
	_, err := e.Synonyms(context.Background(), SynonymRequest{Query: "feline"})
	assert.ErrorIs(t, err, synonym.ErrCollaboratorUnavailable)
	assert.ErrorIs(t, err, ErrNoOracle)
}

func TestEngine_Synonyms(t *testing.T) {
	oracle := synonym.OracleFunc(func(context.Context, string, int) ([]synonym.Scored, error) {
		return []synonym.Scored{{Word: "CAT", Score: 0.9}, {Word: "kitten", Score: 0.8}, {Word: "tar", Score: 0.1}}, nil
	})
	e := newEngine(t, WithOracle(oracle))

	got, err := e.Synonyms(context.Background(), SynonymRequest{Query: "feline", InLexicon: true, Pattern: "?a?"})
	require.NoError(t, err)
	var words []string
	for _, s := range got {
		words = append(words, s.Word)
	}
	assert.Equal(t, []string{"cat", "tar"}, words)

	failing := synonym.OracleFunc(func(context.Context, string, int) ([]synonym.Scored, error) {
		return nil, errors.New("connection refused")
	})
	e = newEngine(t, WithOracle(failing))
	_, err = e.Synonyms(context.Background(), SynonymRequest{Query: "feline"})
	assert.ErrorIs(t, err, synonym.ErrCollaboratorUnavailable)

	// index queries are unaffected
	_, err = e.Search(pattern.Request{Pattern: "cat"}, 0)
	assert.NoError(t, err)
}

func TestLoadIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("Apple\t3\nbanana\n"), 0o644))

	lex := config.DefaultConfig().Lexicon
	lex.Path = path
	ix, err := LoadIndex(lex)
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Len())
	assert.True(t, ix.Contains("apple"))

	lex.Path = ""
	_, err = LoadIndex(lex)
	assert.Error(t, err)
}

func TestNewOracle_Disabled(t *testing.T) {
	o, err := NewOracle(config.DefaultConfig().Synonym)
	require.NoError(t, err)
	assert.Nil(t, o)
}
