/*
Package rank scores the words admitted by hard constraints against a list of
soft constraints.
*/
package rank

import (
	"fmt"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

type softKind uint8

const (
	softAt softKind = iota
	softUnconstrained
	softLike
)

// Soft is one preference. A satisfied Soft adds one to a candidate's score.
type Soft struct {
	kind    softKind
	pos     int
	set     lexicon.CharSet
	pattern lexicon.Pattern
}

// At prefers words showing one of chars at pos.
func At(pos int, chars ...rune) Soft {
	return Soft{kind: softAt, pos: pos, set: lexicon.NewCharSet(chars...)}
}

// AtSet prefers words showing a member of set at pos.
func AtSet(pos int, set lexicon.CharSet) Soft {
	return Soft{kind: softAt, pos: pos, set: set}
}

// Unconstrained records that nothing is known at pos. It never scores.
func Unconstrained(pos int) Soft {
	return Soft{kind: softUnconstrained, pos: pos}
}

// Like prefers words matching p as a whole.
func Like(p lexicon.Pattern) Soft {
	return Soft{kind: softLike, pattern: p}
}

func (s Soft) validate(n int) error {
	switch s.kind {
	case softAt, softUnconstrained:
		if s.pos < 0 || s.pos >= n {
			return lexicon.Invalidf("rank", "soft position %d outside length %d", s.pos, n)
		}
		if s.kind == softAt && s.set.IsEmpty() {
			return lexicon.Invalidf("rank", "soft constraint at %d has no characters", s.pos)
		}
	case softLike:
		if s.pattern.Len() != n {
			return lexicon.Invalidf("rank", "soft pattern length %d differs from %d", s.pattern.Len(), n)
		}
	}
	return nil
}

func (s Soft) satisfied(rs []rune) bool {
	switch s.kind {
	case softAt:
		return s.set.Contains(rs[s.pos])
	case softLike:
		return s.pattern.Matches(string(rs))
	}
	return false
}

func (s Soft) String() string {
	switch s.kind {
	case softAt:
		return fmt.Sprintf("at(%d,%s)", s.pos, s.set)
	case softUnconstrained:
		return fmt.Sprintf("any(%d)", s.pos)
	}
	return "like(" + s.pattern.String() + ")"
}

// SoftFromTargets reads one target per position. An empty target or one equal
// to the wildcard is unconstrained; otherwise any of its runes scores.
func SoftFromTargets(targets []string, wildcard rune, normalize lexicon.Normalizer) []Soft {
	if normalize == nil {
		normalize = lexicon.Identity
	}
	out := make([]Soft, len(targets))
	for i, t := range targets {
		if t == "" || t == string(wildcard) {
			out[i] = Unconstrained(i)
			continue
		}
		set := lexicon.CharSetOf(normalize(t))
		if set.IsEmpty() {
			out[i] = Unconstrained(i)
			continue
		}
		out[i] = AtSet(i, set)
	}
	return out
}
