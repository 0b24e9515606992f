package lexicon

import (
	"cmp"
	"slices"
	"sort"
	"strings"
)

// Match is a word with its distance from a query.
type Match struct {
	Word
	Distance int
}

func compareMatches(a, b Match) int {
	if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}

// MatchEditDistance returns every word within Levenshtein distance d of
// query, sorted by distance then canonical order. A negative d returns nil.
func (ix *Index) MatchEditDistance(query string, d int) []Match {
	if d < 0 || len(ix.words) == 0 {
		return nil
	}
	q := []rune(ix.normalize(query))
	m := len(q)
	lo := max(m-d, 1)
	hi := min(m+d, ix.maxLen)

	rows := make([][]int, ix.maxLen+1)
	for i := range rows {
		rows[i] = make([]int, m+1)
	}
	for j := range rows[0] {
		rows[0][j] = j
	}

	var out []Match
	for n := lo; n <= hi; n++ {
		if ids := ix.lenIDs[n]; len(ids) > 0 {
			out = ix.walkBucket(ids, q, d, rows, out)
		}
	}
	slices.SortFunc(out, compareMatches)
	return out
}

// walkBucket runs the DP over one length bucket. Words arrive in canonical
// order, so rows computed for the shared prefix of consecutive words are
// reused, and a prefix whose row minimum exceeds d rules out its whole block.
func (ix *Index) walkBucket(ids []uint32, q []rune, d int, rows [][]int, out []Match) []Match {
	m := len(q)
	var prev []rune
	valid := 0
	for i := 0; i < len(ids); {
		w := ix.runes[ids[i]]
		k := min(commonPrefix(prev, w), valid)

		dead := 0
		for depth := k + 1; depth <= len(w); depth++ {
			up, cur := rows[depth-1], rows[depth]
			cur[0] = depth
			best := depth
			for j := 1; j <= m; j++ {
				cost := 1
				if w[depth-1] == q[j-1] {
					cost = 0
				}
				v := min(up[j]+1, cur[j-1]+1, up[j-1]+cost)
				cur[j] = v
				if v < best {
					best = v
				}
			}
			if best > d {
				dead = depth
				break
			}
		}

		prev = w
		if dead > 0 {
			valid = dead
			pfx := string(w[:dead])
			rest := ids[i+1:]
			i += 1 + sort.Search(len(rest), func(x int) bool {
				return !strings.HasPrefix(ix.words[rest[x]].Text, pfx)
			})
			continue
		}
		valid = len(w)
		if dist := rows[len(w)][m]; dist <= d {
			out = append(out, Match{Word: ix.words[ids[i]], Distance: dist})
		}
		i++
	}
	return out
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// MatchHamming returns the words of the query's length that differ from it in
// at most d positions, sorted by distance then canonical order.
func (ix *Index) MatchHamming(query string, d int) []Match {
	if d < 0 {
		return nil
	}
	q := []rune(ix.normalize(query))
	var out []Match
	for _, id := range ix.lenIDs[len(q)] {
		w := ix.runes[id]
		dist := 0
		for i, r := range w {
			if r != q[i] {
				dist++
				if dist > d {
					break
				}
			}
		}
		if dist <= d {
			out = append(out, Match{Word: ix.words[id], Distance: dist})
		}
	}
	slices.SortFunc(out, compareMatches)
	return out
}
