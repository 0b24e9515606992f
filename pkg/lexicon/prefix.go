package lexicon

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tchap/go-patricia/v2/patricia"
)

// CanCompletePrefix reports whether some word starts with prefix. The empty
// prefix completes whenever the index is non-empty.
func (ix *Index) CanCompletePrefix(prefix string) bool {
	if prefix == "" {
		return len(ix.words) > 0
	}
	return hasSubtree(ix.trie, prefix)
}

// CanCompletePrefixOfLength reports whether some word of exactly n runes
// starts with prefix.
func (ix *Index) CanCompletePrefixOfLength(prefix string, n int) bool {
	t, ok := ix.lenTrie[n]
	if !ok {
		return false
	}
	if prefix == "" {
		return true
	}
	if utf8.RuneCountInString(prefix) > n {
		return false
	}
	return hasSubtree(t, prefix)
}

func hasSubtree(t *patricia.Trie, prefix string) bool {
	key := patricia.Prefix(prefix)
	return t.Match(key) || t.MatchSubtree(key)
}

// WordsWithPrefix returns up to limit words starting with prefix, highest Key
// first, ties in canonical order. A limit of zero or less returns all.
func (ix *Index) WordsWithPrefix(prefix string, limit int) []Word {
	var out []Word
	visit := func(_ patricia.Prefix, item patricia.Item) error {
		out = append(out, ix.words[item.(uint32)])
		return nil
	}
	if prefix == "" {
		_ = ix.trie.Visit(visit)
	} else {
		_ = ix.trie.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	slices.SortFunc(out, func(a, b Word) int {
		if c := cmp.Compare(b.Key, a.Key); c != 0 {
			return c
		}
		return strings.Compare(a.Text, b.Text)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
