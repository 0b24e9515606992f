package extract

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

// Pick is the character one feeder contributed.
type Pick struct {
	Feeder   int
	Slot     int
	Position int
	Char     rune
	Inferred bool
}

// Extraction is one reading that spells a word. Order[k] is the feeder read at
// answer position k and Assignment[f] is the position spec feeder f used.
type Extraction struct {
	Word       lexicon.Word
	Order      []int
	Assignment []int
	Picks      []Pick
}

// Stats counts search work.
type Stats struct {
	Nodes    int64
	Pruned   int64
	Duration time.Duration
}

type Result struct {
	Extractions []Extraction
	Stats       Stats
}

// SortOrder selects how extractions are ordered.
type SortOrder int

const (
	// SortDiscovery orders by reading order, then assignment, then picks.
	SortDiscovery SortOrder = iota
	// SortByWord orders by the spelled word.
	SortByWord
	// SortByKey orders by Word.Key, highest first.
	SortByKey
)

// ParseSortOrder reads "discovery", "word" or "key".
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discovery":
		return SortDiscovery, nil
	case "word", "alpha":
		return SortByWord, nil
	case "key", "dict":
		return SortByKey, nil
	}
	return 0, lexicon.Invalidf("extract", "unknown sort order %q", s)
}

func (o SortOrder) String() string {
	switch o {
	case SortByWord:
		return "word"
	case SortByKey:
		return "key"
	}
	return "discovery"
}

func compareDiscovery(a, b Extraction) int {
	if c := slices.Compare(a.Order, b.Order); c != 0 {
		return c
	}
	if c := slices.Compare(a.Assignment, b.Assignment); c != 0 {
		return c
	}
	for k := range min(len(a.Picks), len(b.Picks)) {
		if c := cmp.Compare(a.Picks[k].Position, b.Picks[k].Position); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Picks[k].Char, b.Picks[k].Char); c != 0 {
			return c
		}
	}
	return 0
}

func sortExtractions(xs []Extraction, order SortOrder) {
	slices.SortStableFunc(xs, compareDiscovery)
	switch order {
	case SortByWord:
		slices.SortStableFunc(xs, func(a, b Extraction) int {
			return strings.Compare(a.Word.Text, b.Word.Text)
		})
	case SortByKey:
		slices.SortStableFunc(xs, func(a, b Extraction) int {
			if c := cmp.Compare(b.Word.Key, a.Word.Key); c != 0 {
				return c
			}
			return strings.Compare(a.Word.Text, b.Word.Text)
		})
	}
}
