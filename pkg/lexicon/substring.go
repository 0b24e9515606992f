package lexicon

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// MatchSubstring returns the words containing s as a contiguous run, in
// canonical order. An empty s returns nil.
func (ix *Index) MatchSubstring(s string) []Word {
	s = ix.normalize(s)
	rs := []rune(s)
	if len(rs) == 0 {
		return nil
	}

	var cand *roaring.Bitmap
	verify := false
	if len(rs) <= ix.gramSize {
		b, ok := ix.grams[s]
		if !ok {
			return nil
		}
		cand = b
	} else {
		sets := make([]*roaring.Bitmap, 0, len(rs)-ix.gramSize+1)
		for i := 0; i+ix.gramSize <= len(rs); i++ {
			b, ok := ix.grams[string(rs[i:i+ix.gramSize])]
			if !ok {
				return nil
			}
			sets = append(sets, b)
		}
		cand = roaring.FastAnd(sets...)
		verify = true
	}

	var out []Word
	it := cand.Iterator()
	for it.HasNext() {
		w := ix.words[it.Next()]
		if verify && !strings.Contains(w.Text, s) {
			continue
		}
		out = append(out, w)
	}
	return out
}
