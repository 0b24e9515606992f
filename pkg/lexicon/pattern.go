package lexicon

import (
	"slices"
	"strings"
)

// SlotKind tags what a Pattern position admits.
type SlotKind uint8

const (
	Wildcard SlotKind = iota
	Fixed
	Allowed
)

func (k SlotKind) String() string {
	switch k {
	case Wildcard:
		return "wildcard"
	case Fixed:
		return "fixed"
	case Allowed:
		return "allowed"
	}
	return "unknown"
}

// Slot is one position of a Pattern.
type Slot struct {
	kind SlotKind
	char rune
	set  CharSet
}

// Any returns a slot admitting every rune.
func Any() Slot { return Slot{kind: Wildcard} }

// Exactly returns a slot admitting only r.
func Exactly(r rune) Slot { return Slot{kind: Fixed, char: r} }

// OneOf returns a slot admitting the members of set. A single member becomes Fixed.
func OneOf(set CharSet) Slot {
	if set.Len() == 1 {
		return Exactly(set.runes[0])
	}
	return Slot{kind: Allowed, set: set}
}

func (s Slot) Kind() SlotKind { return s.kind }

// Char is the fixed rune; zero unless Kind is Fixed.
func (s Slot) Char() rune { return s.char }

// Set is the allowed set; empty unless Kind is Allowed.
func (s Slot) Set() CharSet { return s.set }

func (s Slot) Admits(r rune) bool {
	switch s.kind {
	case Fixed:
		return r == s.char
	case Allowed:
		return s.set.Contains(r)
	}
	return true
}

func (s Slot) String() string {
	switch s.kind {
	case Fixed:
		return string(s.char)
	case Allowed:
		return s.set.String()
	}
	return "?"
}

// Pattern is a fixed-length sequence of slots.
type Pattern struct {
	slots []Slot
}

// NewPattern validates and copies slots.
func NewPattern(slots ...Slot) (Pattern, error) {
	if len(slots) == 0 {
		return Pattern{}, Invalidf("pattern", "zero length")
	}
	for i, s := range slots {
		if s.kind == Allowed && s.set.IsEmpty() {
			return Pattern{}, Invalidf("pattern", "empty allowed set at position %d", i)
		}
	}
	return Pattern{slots: slices.Clone(slots)}, nil
}

// Literal returns the all-fixed pattern spelling s.
func Literal(s string) (Pattern, error) {
	rs := []rune(s)
	slots := make([]Slot, len(rs))
	for i, r := range rs {
		slots[i] = Exactly(r)
	}
	return NewPattern(slots...)
}

// Wildcards returns an all-wildcard pattern of length n.
func Wildcards(n int) (Pattern, error) {
	slots := make([]Slot, n)
	for i := range slots {
		slots[i] = Any()
	}
	return NewPattern(slots...)
}

func (p Pattern) Len() int { return len(p.slots) }

func (p Pattern) Slot(i int) Slot { return p.slots[i] }

func (p Pattern) Slots() []Slot { return slices.Clone(p.slots) }

// Known counts the fixed slots.
func (p Pattern) Known() int {
	n := 0
	for _, s := range p.slots {
		if s.kind == Fixed {
			n++
		}
	}
	return n
}

// Matches reports whether word has the pattern's length and every rune is admitted.
func (p Pattern) Matches(word string) bool {
	return p.matchRunes([]rune(word))
}

func (p Pattern) matchRunes(rs []rune) bool {
	if len(rs) != len(p.slots) {
		return false
	}
	for i, s := range p.slots {
		if !s.Admits(rs[i]) {
			return false
		}
	}
	return true
}

// leadingFixed returns the run of fixed runes the pattern starts with.
func (p Pattern) leadingFixed() []rune {
	var out []rune
	for _, s := range p.slots {
		if s.kind != Fixed {
			break
		}
		out = append(out, s.char)
	}
	return out
}

func (p Pattern) String() string {
	var b strings.Builder
	for _, s := range p.slots {
		b.WriteString(s.String())
	}
	return b.String()
}
