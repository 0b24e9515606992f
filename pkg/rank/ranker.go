package rank

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/pattern"
)

// Candidate is a scored word. Satisfied lists the indexes of the soft
// constraints it met.
type Candidate struct {
	Word      lexicon.Word
	Score     int
	Satisfied []int
}

type Ranker struct {
	index  *lexicon.Index
	logger *log.Logger
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

func WithLogger(l *log.Logger) RankerOption {
	return func(r *Ranker) { r.logger = l }
}

func NewRanker(index *lexicon.Index, opts ...RankerOption) *Ranker {
	r := &Ranker{index: index, logger: log.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type rankOptions struct {
	secondary func(lexicon.Word) int
	limit     int
	minScore  int
}

// Option tunes one Rank call.
type Option func(*rankOptions)

// WithSecondaryKey replaces Word.Key as the tie-breaker after score.
func WithSecondaryKey(fn func(lexicon.Word) int) Option {
	return func(o *rankOptions) { o.secondary = fn }
}

// WithLimit keeps the first n candidates. Zero keeps all.
func WithLimit(n int) Option {
	return func(o *rankOptions) { o.limit = n }
}

// WithMinScore drops candidates scoring below n.
func WithMinScore(n int) Option {
	return func(o *rankOptions) { o.minScore = n }
}

func wordKey(w lexicon.Word) int { return w.Key }

// Rank returns every word admitted by hard, scored by soft. Order is score
// descending, then secondary key descending, then canonical text.
func (r *Ranker) Rank(hard *pattern.Query, soft []Soft, opts ...Option) ([]Candidate, error) {
	o := rankOptions{secondary: wordKey}
	for _, opt := range opts {
		opt(&o)
	}
	if hard == nil {
		return nil, lexicon.Invalidf("rank", "no hard constraints")
	}
	p, err := hard.Compile()
	if err != nil {
		return nil, err
	}
	n := p.Len()
	for _, s := range soft {
		if err := s.validate(n); err != nil {
			return nil, err
		}
	}

	type keyed struct {
		Candidate
		key int
	}
	var scored []keyed
	for w := range r.index.MatchPattern(p) {
		rs := []rune(w.Text)
		c := Candidate{Word: w}
		for i, s := range soft {
			if s.satisfied(rs) {
				c.Score++
				c.Satisfied = append(c.Satisfied, i)
			}
		}
		if c.Score < o.minScore {
			continue
		}
		scored = append(scored, keyed{Candidate: c, key: o.secondary(w)})
	}
	slices.SortFunc(scored, func(a, b keyed) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.key, a.key); c != 0 {
			return c
		}
		return strings.Compare(a.Word.Text, b.Word.Text)
	})
	if o.limit > 0 && len(scored) > o.limit {
		scored = scored[:o.limit]
	}

	out := make([]Candidate, len(scored))
	for i, k := range scored {
		out[i] = k.Candidate
	}
	r.logger.Debug("ranked candidates", "pattern", p.String(), "soft", len(soft), "results", len(out))
	return out, nil
}
