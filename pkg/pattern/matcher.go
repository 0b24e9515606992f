package pattern

import (
	"slices"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

// Matcher runs string queries against an Index.
type Matcher struct {
	index    *lexicon.Index
	wildcard rune
	limit    int
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithWildcard sets the rune that marks unknown slots.
func WithWildcard(r rune) Option {
	return func(m *Matcher) { m.wildcard = r }
}

// WithLimit caps every result list. Zero means no cap.
func WithLimit(n int) Option {
	return func(m *Matcher) { m.limit = n }
}

func NewMatcher(index *lexicon.Index, opts ...Option) *Matcher {
	m := &Matcher{index: index, wildcard: DefaultWildcard}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Matcher) Wildcard() rune { return m.wildcard }

// Parse reads s with the matcher's wildcard and the index normalizer.
func (m *Matcher) Parse(s string) (lexicon.Pattern, error) {
	return Parse(s, m.wildcard, m.index.Normalize)
}

// Match parses s and returns the matching words in canonical order.
func (m *Matcher) Match(s string) ([]lexicon.Word, error) {
	p, err := m.Parse(s)
	if err != nil {
		return nil, err
	}
	return m.MatchPattern(p), nil
}

// MatchQuery compiles q and returns the matching words.
func (m *Matcher) MatchQuery(q *Query) ([]lexicon.Word, error) {
	p, err := q.Compile()
	if err != nil {
		return nil, err
	}
	return m.MatchPattern(p), nil
}

func (m *Matcher) MatchPattern(p lexicon.Pattern) []lexicon.Word {
	var out []lexicon.Word
	for w := range m.index.MatchPattern(p) {
		out = append(out, w)
		if m.limit > 0 && len(out) == m.limit {
			break
		}
	}
	return out
}

// Fuzzy returns words within edit distance d of s.
func (m *Matcher) Fuzzy(s string, d int) []lexicon.Match {
	return capped(m.index.MatchEditDistance(s, d), m.limit)
}

// Hamming returns same-length words differing from s in at most d positions.
func (m *Matcher) Hamming(s string, d int) []lexicon.Match {
	return capped(m.index.MatchHamming(s, d), m.limit)
}

// Substring returns words containing s.
func (m *Matcher) Substring(s string) []lexicon.Word {
	return capped(m.index.MatchSubstring(s), m.limit)
}

// Request is a single lexicon query. MaxDistance selects edit-distance mode,
// Substring selects substring mode, otherwise Pattern is pattern syntax.
type Request struct {
	Pattern     string
	MaxDistance *int
	Substring   bool
}

// Search answers r. Exact and substring hits carry distance zero.
func (m *Matcher) Search(r Request) ([]lexicon.Match, error) {
	if r.Pattern == "" {
		return nil, lexicon.Invalidf("search", "empty pattern")
	}
	if r.Substring && r.MaxDistance != nil {
		return nil, lexicon.Invalidf("search", "substring and edit distance are exclusive")
	}
	switch {
	case r.Substring:
		return asMatches(m.Substring(r.Pattern)), nil
	case r.MaxDistance != nil:
		if *r.MaxDistance < 0 {
			return nil, lexicon.Invalidf("search", "negative distance %d", *r.MaxDistance)
		}
		return m.Fuzzy(r.Pattern, *r.MaxDistance), nil
	}
	words, err := m.Match(r.Pattern)
	if err != nil {
		return nil, err
	}
	return asMatches(words), nil
}

func asMatches(ws []lexicon.Word) []lexicon.Match {
	out := make([]lexicon.Match, len(ws))
	for i, w := range ws {
		out[i] = lexicon.Match{Word: w}
	}
	return out
}

func capped[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return slices.Clip(s[:limit])
	}
	return s
}
