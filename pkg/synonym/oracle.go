/*
Package synonym adapts an external embedding similarity service to the
lexicon: it asks the service for a candidate pool and re-filters the pool
against local constraints.
*/
package synonym

import (
	"context"
	"unicode/utf8"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

// Scored is a word with a similarity score, higher is closer.
type Scored struct {
	Word  string  `msgpack:"w"`
	Score float64 `msgpack:"s"`
}

// Oracle returns up to pool words similar to query, best first.
type Oracle interface {
	Similar(ctx context.Context, query string, pool int) ([]Scored, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, query string, pool int) ([]Scored, error)

func (f OracleFunc) Similar(ctx context.Context, query string, pool int) ([]Scored, error) {
	return f(ctx, query, pool)
}

// Filter holds the local constraints applied to an oracle pool. Zero values
// disable a check.
type Filter struct {
	MinLen    int
	MaxLen    int
	Pattern   *lexicon.Pattern
	InLexicon bool
}

// Refilter asks o for a pool of candidates and keeps those passing f, in
// oracle order. Words are normalized with the index normalizer and repeated
// words keep their first occurrence.
func Refilter(ctx context.Context, o Oracle, ix *lexicon.Index, query string, pool int, f Filter) ([]Scored, error) {
	if pool <= 0 {
		return nil, lexicon.Invalidf("synonym", "pool size %d must be positive", pool)
	}
	if query == "" {
		return nil, lexicon.Invalidf("synonym", "empty query")
	}
	got, err := o.Similar(ctx, query, pool)
	if err != nil {
		return nil, unavailable("similarity oracle", err)
	}

	normalize := lexicon.Identity
	if ix != nil {
		normalize = ix.Normalize
	}
	seen := make(map[string]struct{}, len(got))
	out := make([]Scored, 0, len(got))
	for _, s := range got {
		text := normalize(s.Word)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		n := utf8.RuneCountInString(text)
		if f.MinLen > 0 && n < f.MinLen {
			continue
		}
		if f.MaxLen > 0 && n > f.MaxLen {
			continue
		}
		if f.Pattern != nil && !f.Pattern.Matches(text) {
			continue
		}
		if f.InLexicon && (ix == nil || !ix.Contains(text)) {
			continue
		}
		out = append(out, Scored{Word: text, Score: s.Score})
	}
	return out, nil
}
