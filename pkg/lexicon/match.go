package lexicon

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// MatchPattern yields the words admitted by p in canonical order. The
// sequence is lazy and may be ranged over more than once.
func (ix *Index) MatchPattern(p Pattern) iter.Seq[Word] {
	return func(yield func(Word) bool) {
		n := p.Len()
		ids, ok := ix.lenIDs[n]
		if n == 0 || !ok {
			return
		}
		cand, constrained := ix.candidates(p)
		if !constrained {
			for _, id := range ids {
				if !yield(ix.words[id]) {
					return
				}
			}
			return
		}
		it := cand.Iterator()
		for it.HasNext() {
			if !yield(ix.words[it.Next()]) {
				return
			}
		}
	}
}

// CountPattern returns how many words p admits.
func (ix *Index) CountPattern(p Pattern) int {
	n := p.Len()
	if _, ok := ix.lenIDs[n]; n == 0 || !ok {
		return 0
	}
	cand, constrained := ix.candidates(p)
	if !constrained {
		return len(ix.lenIDs[n])
	}
	return int(cand.GetCardinality())
}

// candidates intersects the posting lists of every constrained slot. It
// reports false when p has no constrained slot at all.
func (ix *Index) candidates(p Pattern) (*roaring.Bitmap, bool) {
	n := p.Len()
	if lead := p.leadingFixed(); len(lead) > 0 {
		if !hasSubtree(ix.lenTrie[n], string(lead)) {
			return roaring.New(), true
		}
	}
	var sets []*roaring.Bitmap
	for i, s := range p.slots {
		switch s.kind {
		case Fixed:
			b, ok := ix.posIdx[posKey{length: n, pos: i, char: s.char}]
			if !ok {
				return roaring.New(), true
			}
			sets = append(sets, b)
		case Allowed:
			var alts []*roaring.Bitmap
			for _, r := range s.set.runes {
				if b, ok := ix.posIdx[posKey{length: n, pos: i, char: r}]; ok {
					alts = append(alts, b)
				}
			}
			if len(alts) == 0 {
				return roaring.New(), true
			}
			sets = append(sets, roaring.FastOr(alts...))
		}
	}
	if len(sets) == 0 {
		return nil, false
	}
	return roaring.FastAnd(sets...), true
}
