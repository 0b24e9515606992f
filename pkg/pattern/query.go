/*
Package pattern turns user syntax and derived constraints into lexicon
patterns and runs them against an Index.
*/
package pattern

import "github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"

// Query accumulates per-position constraints for a word of fixed length.
// Restrict narrows a position by intersection, Widen relaxes it by union.
// Errors are deferred until Compile.
type Query struct {
	length int
	sets   []lexicon.CharSet
	bound  []bool
	err    error
}

// NewQuery starts an unconstrained query of the given length.
func NewQuery(length int) *Query {
	q := &Query{length: length}
	if length <= 0 {
		q.err = lexicon.Invalidf("query", "length %d must be positive", length)
		return q
	}
	q.sets = make([]lexicon.CharSet, length)
	q.bound = make([]bool, length)
	return q
}

// FromPattern starts a query holding the constraints of p.
func FromPattern(p lexicon.Pattern) *Query {
	q := NewQuery(p.Len())
	for i, s := range p.Slots() {
		switch s.Kind() {
		case lexicon.Fixed:
			q.Fix(i, s.Char())
		case lexicon.Allowed:
			q.Restrict(i, s.Set())
		}
	}
	return q
}

func (q *Query) Len() int { return q.length }

func (q *Query) check(pos int) bool {
	if q.err != nil {
		return false
	}
	if pos < 0 || pos >= q.length {
		q.err = lexicon.Invalidf("query", "position %d outside length %d", pos, q.length)
		return false
	}
	return true
}

// Fix pins pos to r.
func (q *Query) Fix(pos int, r rune) *Query {
	return q.Restrict(pos, lexicon.NewCharSet(r))
}

// Restrict intersects the allowed runes at pos with set.
func (q *Query) Restrict(pos int, set lexicon.CharSet) *Query {
	if !q.check(pos) {
		return q
	}
	if q.bound[pos] {
		q.sets[pos] = q.sets[pos].Intersect(set)
	} else {
		q.sets[pos] = set
		q.bound[pos] = true
	}
	return q
}

// Widen adds set to the allowed runes at pos. An unconstrained position stays
// unconstrained.
func (q *Query) Widen(pos int, set lexicon.CharSet) *Query {
	if !q.check(pos) {
		return q
	}
	if q.bound[pos] {
		q.sets[pos] = q.sets[pos].Union(set)
	}
	return q
}

// Compile builds the pattern. A position whose constraints conflict is an
// invalid input.
func (q *Query) Compile() (lexicon.Pattern, error) {
	if q.err != nil {
		return lexicon.Pattern{}, q.err
	}
	slots := make([]lexicon.Slot, q.length)
	for i := range slots {
		if !q.bound[i] {
			slots[i] = lexicon.Any()
			continue
		}
		if q.sets[i].IsEmpty() {
			return lexicon.Pattern{}, lexicon.Invalidf("query", "conflicting constraints at position %d", i)
		}
		slots[i] = lexicon.OneOf(q.sets[i])
	}
	return lexicon.NewPattern(slots...)
}
