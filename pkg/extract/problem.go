/*
Package extract reconstructs hidden answers from feeder words: every feeder
contributes one character taken at an extraction position, and the characters
read in order must spell a lexicon word.
*/
package extract

import (
	"strconv"
	"strings"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

// Position is a 0-based extraction index, or AnyPosition to try every slot.
type Position struct {
	index int
	any   bool
}

// At returns the fixed 0-based position i.
func At(i int) Position { return Position{index: i} }

// AnyPosition tries every slot of the feeder.
func AnyPosition() Position { return Position{any: true} }

func (p Position) IsAny() bool { return p.any }

func (p Position) Index() int { return p.index }

func (p Position) String() string {
	if p.any {
		return "*"
	}
	return strconv.Itoa(p.index)
}

// ParsePosition reads one position token. "*", "?" and "A" mean any position;
// numbers are 1-based unless zeroIndexed is set.
func ParsePosition(s string, zeroIndexed bool) (Position, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "*", "?", "A", "a":
		return AnyPosition(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Position{}, lexicon.Invalidf("extract", "bad position %q", s)
	}
	if !zeroIndexed {
		n--
	}
	if n < 0 {
		return Position{}, lexicon.Invalidf("extract", "position %q is below the first index", s)
	}
	return At(n), nil
}

// ParsePositions reads a list of position tokens.
func ParsePositions(tokens []string, zeroIndexed bool) ([]Position, error) {
	out := make([]Position, len(tokens))
	for i, tok := range tokens {
		p, err := ParsePosition(tok, zeroIndexed)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// Problem describes one extraction. Positions[j] belongs to feeder j unless
// SearchAssignment lets the solver permute them. SearchOrder lets the solver
// permute the reading order of feeders. TargetLength zero means one character
// per feeder.
type Problem struct {
	Feeders          []lexicon.Pattern
	Positions        []Position
	SearchOrder      bool
	SearchAssignment bool
	TargetLength     int
}

func (p Problem) validate() error {
	n := len(p.Feeders)
	if n == 0 {
		return lexicon.Invalidf("extract", "no feeders")
	}
	if len(p.Positions) != n {
		return lexicon.Invalidf("extract", "%d positions for %d feeders", len(p.Positions), n)
	}
	if p.TargetLength != 0 && p.TargetLength != n {
		return lexicon.Invalidf("extract", "target length %d does not match %d feeders", p.TargetLength, n)
	}
	longest := 0
	for i, f := range p.Feeders {
		if f.Len() == 0 {
			return lexicon.Invalidf("extract", "feeder %d is empty", i)
		}
		longest = max(longest, f.Len())
	}
	for j, pos := range p.Positions {
		if pos.any {
			continue
		}
		if pos.index < 0 {
			return lexicon.Invalidf("extract", "position %d is negative", j)
		}
		if !p.SearchAssignment && pos.index >= p.Feeders[j].Len() {
			return lexicon.Invalidf("extract", "position %d is outside feeder %d of length %d",
				pos.index, j, p.Feeders[j].Len())
		}
		if pos.index >= longest {
			return lexicon.Invalidf("extract", "position %d is outside every feeder", pos.index)
		}
	}
	return nil
}
