package lexicon

import (
	"slices"
	"strings"
)

// CharSet is an immutable set of runes kept in ascending order.
type CharSet struct {
	runes []rune
}

// NewCharSet builds a set from runes; duplicates collapse.
func NewCharSet(rs ...rune) CharSet {
	if len(rs) == 0 {
		return CharSet{}
	}
	out := slices.Clone(rs)
	slices.Sort(out)
	return CharSet{runes: slices.Compact(out)}
}

// CharSetOf builds a set from the runes of s.
func CharSetOf(s string) CharSet {
	return NewCharSet([]rune(s)...)
}

func (c CharSet) Len() int { return len(c.runes) }

func (c CharSet) IsEmpty() bool { return len(c.runes) == 0 }

func (c CharSet) Contains(r rune) bool {
	_, ok := slices.BinarySearch(c.runes, r)
	return ok
}

// Sorted returns the members in ascending order.
func (c CharSet) Sorted() []rune {
	return slices.Clone(c.runes)
}

func (c CharSet) Intersect(o CharSet) CharSet {
	var out []rune
	i, j := 0, 0
	for i < len(c.runes) && j < len(o.runes) {
		switch {
		case c.runes[i] < o.runes[j]:
			i++
		case c.runes[i] > o.runes[j]:
			j++
		default:
			out = append(out, c.runes[i])
			i++
			j++
		}
	}
	return CharSet{runes: out}
}

func (c CharSet) Union(o CharSet) CharSet {
	out := make([]rune, 0, len(c.runes)+len(o.runes))
	i, j := 0, 0
	for i < len(c.runes) || j < len(o.runes) {
		switch {
		case j == len(o.runes) || (i < len(c.runes) && c.runes[i] < o.runes[j]):
			out = append(out, c.runes[i])
			i++
		case i == len(c.runes) || o.runes[j] < c.runes[i]:
			out = append(out, o.runes[j])
			j++
		default:
			out = append(out, c.runes[i])
			i++
			j++
		}
	}
	return CharSet{runes: out}
}

func (c CharSet) Equal(o CharSet) bool {
	return slices.Equal(c.runes, o.runes)
}

func (c CharSet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(c.runes))
	b.WriteByte(']')
	return b.String()
}
