package lexicon

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchEditDistance_Examples(t *testing.T) {
	ix := buildWords(t, "cat", "cot", "cut")

	assert.Equal(t, []string{"cat", "cot", "cut"}, matchTexts(ix.MatchEditDistance("cat", 1)))
	assert.Equal(t, []string{"cat"}, matchTexts(ix.MatchEditDistance("cat", 0)))
	assert.Empty(t, ix.MatchEditDistance("cat", -1))
}

func TestMatchEditDistance_InsertDelete(t *testing.T) {
	ix := buildWords(t, "cat", "cart", "at", "chat", "dog")

	got := ix.MatchEditDistance("cat", 1)
	assert.Equal(t, []Match{
		{Word: Word{Text: "cat"}, Distance: 0},
		{Word: Word{Text: "at"}, Distance: 1},
		{Word: Word{Text: "cart"}, Distance: 1},
		{Word: Word{Text: "chat"}, Distance: 1},
	}, got)
}

func TestMatchEditDistance_AgreesWithBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	words := randomLexicon(r, 400, "abc")
	ix := buildWords(t, words...)

	for trial := 0; trial < 100; trial++ {
		q := randomLexicon(r, 1, "abcd")[0]
		d := r.IntN(3)

		want := map[string]int{}
		for _, w := range words {
			if dist := levenshtein(q, w); dist <= d {
				want[w] = dist
			}
		}
		got := ix.MatchEditDistance(q, d)
		assert.Len(t, got, len(want), "query %q d=%d", q, d)
		for i, m := range got {
			assert.Equal(t, want[m.Text], m.Distance, m.Text)
			if i > 0 {
				assert.LessOrEqual(t, compareMatches(got[i-1], m), 0)
			}
		}
	}
}

func TestMatchHamming(t *testing.T) {
	ix := buildWords(t, "cat", "cot", "cog", "cart")

	got := ix.MatchHamming("cat", 1)
	assert.Equal(t, []string{"cat", "cot"}, matchTexts(got))
	assert.Equal(t, 1, got[1].Distance)
	assert.Equal(t, []string{"cat", "cot", "cog"}, matchTexts(ix.MatchHamming("cat", 2)))
	assert.Empty(t, ix.MatchHamming("cat", -1))
}
