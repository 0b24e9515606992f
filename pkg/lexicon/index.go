/*
Package lexicon holds an immutable, indexed word list and answers pattern,
prefix, edit-distance and substring queries over it.

An Index is safe for concurrent use once Build returns.
*/
package lexicon

import (
	"slices"
	"sort"
	"unicode/utf8"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/tchap/go-patricia/v2/patricia"
)

// DefaultGramSize is the longest n-gram kept in the substring index.
const DefaultGramSize = 3

// Entry is a raw word handed to Build.
type Entry struct {
	Text string
	Key  int
}

// Word is a normalized lexicon entry. Key is an opaque secondary sort key.
type Word struct {
	Text string
	Key  int
}

type posKey struct {
	length int
	pos    int
	char   rune
}

// Index is the read-only lexicon. Word IDs are dense and follow canonical
// (byte-wise) order of the normalized text.
type Index struct {
	words    []Word
	runes    [][]rune
	ids      map[string]uint32
	byLen    map[int][]Word
	lenIDs   map[int][]uint32
	lenBits  map[int]*roaring.Bitmap
	trie     *patricia.Trie
	lenTrie  map[int]*patricia.Trie
	posIdx   map[posKey]*roaring.Bitmap
	grams    map[string]*roaring.Bitmap
	gramSize int
	maxLen   int

	alphabet  Alphabet
	normalize Normalizer
}

type buildOptions struct {
	alphabet  Alphabet
	normalize Normalizer
	gramSize  int
}

// Option configures Build.
type Option func(*buildOptions)

// WithAlphabet restricts the runes a word may contain. Defaults to Letters.
func WithAlphabet(a Alphabet) Option {
	return func(o *buildOptions) { o.alphabet = a }
}

// WithNormalizer sets the normalizer applied to entries and query literals. Defaults to NFC.
func WithNormalizer(n Normalizer) Option {
	return func(o *buildOptions) { o.normalize = n }
}

// WithGramSize sets the longest n-gram of the substring index.
func WithGramSize(n int) Option {
	return func(o *buildOptions) { o.gramSize = n }
}

// Build normalizes, validates and indexes entries. Duplicate texts collapse
// into one Word keeping the larger Key.
func Build(entries []Entry, opts ...Option) (*Index, error) {
	o := buildOptions{alphabet: Letters, normalize: NFC, gramSize: DefaultGramSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.alphabet == nil {
		o.alphabet = Letters
	}
	if o.normalize == nil {
		o.normalize = Identity
	}
	if o.gramSize < 1 {
		return nil, Invalidf("build", "gram size %d is below 1", o.gramSize)
	}

	keys := make(map[string]int, len(entries))
	for i, e := range entries {
		text := o.normalize(e.Text)
		if text == "" {
			return nil, Invalidf("build", "entry %d is empty", i)
		}
		if !utf8.ValidString(text) {
			return nil, Invalidf("build", "entry %d is not valid UTF-8", i)
		}
		for _, r := range text {
			if !o.alphabet.Contains(r) {
				return nil, Invalidf("build", "entry %d (%q) has %s outside the %s alphabet",
					i, text, describeRune(r), o.alphabet.Name())
			}
		}
		if k, ok := keys[text]; !ok || e.Key > k {
			keys[text] = e.Key
		}
	}

	texts := make([]string, 0, len(keys))
	for t := range keys {
		texts = append(texts, t)
	}
	sort.Strings(texts)

	ix := &Index{
		words:     make([]Word, 0, len(texts)),
		runes:     make([][]rune, 0, len(texts)),
		ids:       make(map[string]uint32, len(texts)),
		byLen:     make(map[int][]Word),
		lenIDs:    make(map[int][]uint32),
		lenBits:   make(map[int]*roaring.Bitmap),
		trie:      patricia.NewTrie(),
		lenTrie:   make(map[int]*patricia.Trie),
		posIdx:    make(map[posKey]*roaring.Bitmap),
		grams:     make(map[string]*roaring.Bitmap),
		gramSize:  o.gramSize,
		alphabet:  o.alphabet,
		normalize: o.normalize,
	}
	for id, t := range texts {
		ix.add(uint32(id), Word{Text: t, Key: keys[t]})
	}
	for _, b := range ix.lenBits {
		b.RunOptimize()
	}
	for _, b := range ix.posIdx {
		b.RunOptimize()
	}
	for _, b := range ix.grams {
		b.RunOptimize()
	}
	return ix, nil
}

// add indexes one word. IDs must arrive in ascending order.
func (ix *Index) add(id uint32, w Word) {
	rs := []rune(w.Text)
	n := len(rs)
	ix.words = append(ix.words, w)
	ix.runes = append(ix.runes, rs)
	ix.ids[w.Text] = id
	ix.byLen[n] = append(ix.byLen[n], w)
	ix.lenIDs[n] = append(ix.lenIDs[n], id)
	if n > ix.maxLen {
		ix.maxLen = n
	}

	bits, ok := ix.lenBits[n]
	if !ok {
		bits = roaring.New()
		ix.lenBits[n] = bits
	}
	bits.Add(id)

	ix.trie.Insert(patricia.Prefix(w.Text), id)
	lt, ok := ix.lenTrie[n]
	if !ok {
		lt = patricia.NewTrie()
		ix.lenTrie[n] = lt
	}
	lt.Insert(patricia.Prefix(w.Text), id)

	for p, r := range rs {
		k := posKey{length: n, pos: p, char: r}
		b, ok := ix.posIdx[k]
		if !ok {
			b = roaring.New()
			ix.posIdx[k] = b
		}
		b.Add(id)
	}

	for i := range rs {
		for g := 1; g <= ix.gramSize && i+g <= n; g++ {
			gram := string(rs[i : i+g])
			b, ok := ix.grams[gram]
			if !ok {
				b = roaring.New()
				ix.grams[gram] = b
			}
			b.Add(id)
		}
	}
}

// Len is the number of distinct words.
func (ix *Index) Len() int { return len(ix.words) }

// Lengths returns every word length present, ascending.
func (ix *Index) Lengths() []int {
	out := make([]int, 0, len(ix.byLen))
	for n := range ix.byLen {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// MaxLen is the length of the longest word.
func (ix *Index) MaxLen() int { return ix.maxLen }

// WordsOfLength returns the words of length n in canonical order. The slice is
// shared and must not be modified.
func (ix *Index) WordsOfLength(n int) []Word {
	return ix.byLen[n]
}

// Contains reports whether text, already normalized, is a word.
func (ix *Index) Contains(text string) bool {
	_, ok := ix.ids[text]
	return ok
}

// Lookup returns the word spelled text, already normalized.
func (ix *Index) Lookup(text string) (Word, bool) {
	id, ok := ix.ids[text]
	if !ok {
		return Word{}, false
	}
	return ix.words[id], true
}

// Normalize applies the index normalizer to a query literal.
func (ix *Index) Normalize(s string) string {
	return ix.normalize(s)
}

// Alphabet returns the alphabet words were validated against.
func (ix *Index) Alphabet() Alphabet { return ix.alphabet }

// Runes returns every distinct rune seen at any position, ascending.
func (ix *Index) Runes() []rune {
	seen := make(map[rune]struct{})
	for k := range ix.posIdx {
		seen[k.char] = struct{}{}
	}
	out := make([]rune, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// Stats summarizes index sizes for diagnostics.
func (ix *Index) Stats() map[string]int {
	return map[string]int{
		"words":      len(ix.words),
		"lengths":    len(ix.byLen),
		"max_length": ix.maxLen,
		"positional": len(ix.posIdx),
		"grams":      len(ix.grams),
		"gram_size":  ix.gramSize,
	}
}
