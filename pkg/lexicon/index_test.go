package lexicon

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_CanonicalOrderAndDedup(t *testing.T) {
	ix, err := Build([]Entry{
		{Text: "dog", Key: 1},
		{Text: "cat", Key: 4},
		{Text: "cat", Key: 9},
		{Text: "ant", Key: 2},
		{Text: "bee", Key: 0},
		{Text: "at", Key: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, ix.Len())
	assert.Equal(t, []int{2, 3}, ix.Lengths())
	assert.Equal(t, []string{"ant", "bee", "cat", "dog"}, texts(ix.WordsOfLength(3)))
	assert.Equal(t, []string{"at"}, texts(ix.WordsOfLength(2)))
	assert.Empty(t, ix.WordsOfLength(7))

	w, ok := ix.Lookup("cat")
	require.True(t, ok)
	assert.Equal(t, 9, w.Key)
	assert.True(t, ix.Contains("dog"))
	assert.False(t, ix.Contains("do"))
}

func TestBuild_RejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		opts    []Option
	}{
		{"empty word", []Entry{{Text: "ok"}, {Text: ""}}, nil},
		{"foreign rune", []Entry{{Text: "abc1"}}, []Option{WithAlphabet(Latin)}},
		{"upper case outside latin", []Entry{{Text: "Cat"}}, []Option{WithAlphabet(Latin)}},
		{"bad gram size", []Entry{{Text: "cat"}}, []Option{WithGramSize(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.entries, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var ie *InvalidInputError
			assert.True(t, errors.As(err, &ie))
			assert.Equal(t, "build", ie.Op)
		})
	}
}

func TestBuild_NormalizerAppliesBeforeValidation(t *testing.T) {
	ix, err := Build([]Entry{{Text: "Cat"}, {Text: "lüe"}},
		WithAlphabet(Latin),
		WithNormalizer(Chain(NFC, Lower, Replace(map[string]string{"ü": "v"}))),
	)
	require.NoError(t, err)
	assert.True(t, ix.Contains("cat"))
	assert.True(t, ix.Contains("lve"))
	assert.Equal(t, "lve", ix.Normalize("LÜE"))
}

func TestBuild_HanAlphabet(t *testing.T) {
	ix, err := Build([]Entry{{Text: "中国"}, {Text: "中文"}}, WithAlphabet(Han))
	require.NoError(t, err)
	assert.Equal(t, []string{"中国", "中文"}, texts(ix.WordsOfLength(2)))

	_, err = Build([]Entry{{Text: "中a"}}, WithAlphabet(Han))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuild_EmptyLexicon(t *testing.T) {
	ix, err := Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, ix.Len())
	assert.False(t, ix.CanCompletePrefix(""))
	p, err := Literal("a")
	require.NoError(t, err)
	assert.Empty(t, slices.Collect(ix.MatchPattern(p)))
	assert.Empty(t, ix.MatchEditDistance("a", 2))
	assert.Empty(t, ix.MatchSubstring("a"))
}

func TestAlphabetByName(t *testing.T) {
	a, err := AlphabetByName("latin")
	require.NoError(t, err)
	assert.True(t, a.Contains('q'))
	assert.False(t, a.Contains('Q'))

	a, err = AlphabetByName("chars:xyz")
	require.NoError(t, err)
	assert.True(t, a.Contains('y'))
	assert.False(t, a.Contains('a'))

	a, err = AlphabetByName("")
	require.NoError(t, err)
	assert.Equal(t, "letters", a.Name())

	_, err = AlphabetByName("klingon")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIndex_ConcurrentQueries(t *testing.T) {
	ix := buildWords(t, "cat", "car", "can", "cot", "cut", "dog", "dig", "dug")
	p, err := NewPattern(Exactly('c'), Any(), Any())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Len(t, slices.Collect(ix.MatchPattern(p)), 5)
				assert.Len(t, ix.MatchEditDistance("cat", 1), 5)
				assert.True(t, ix.CanCompletePrefixOfLength("du", 3))
				assert.Len(t, ix.MatchSubstring("g"), 3)
			}
		}()
	}
	wg.Wait()
}
