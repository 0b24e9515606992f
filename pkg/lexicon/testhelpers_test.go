package lexicon

import (
	"math/rand/v2"
	"slices"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildWords(t *testing.T, words ...string) *Index {
	t.Helper()
	entries := make([]Entry, len(words))
	for i, w := range words {
		entries[i] = Entry{Text: w}
	}
	ix, err := Build(entries)
	require.NoError(t, err)
	return ix
}

func texts(ws []Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Text
	}
	return out
}

func matchTexts(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Text
	}
	return out
}

// randomLexicon draws words over a small alphabet so that patterns and
// distances hit often.
func randomLexicon(r *rand.Rand, n int, alphabet string) []string {
	rs := []rune(alphabet)
	seen := map[string]bool{}
	var out []string
	for len(out) < n {
		l := 1 + r.IntN(6)
		b := make([]rune, l)
		for i := range b {
			b[i] = rs[r.IntN(len(rs))]
		}
		w := string(b)
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	prev := make([]int, len(br)+1)
	cur := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		cur[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(br)]
}

func sortedCopy(words []string) []string {
	out := slices.Clone(words)
	sort.Strings(out)
	return out
}

func containsAll(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
