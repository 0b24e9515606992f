package extract

import (
	"context"
	"slices"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

// space is the read-only search space shared by every walker of one Solve.
type space struct {
	problem Problem
	n       int
	// chars[f][q] are the runes feeder f can show at position q.
	chars    [][][]rune
	inferred [][]bool
}

type choice struct {
	feeder int
	slot   int
	pos    int
	char   rune
}

type state struct {
	usedFeeder []bool
	usedSlot   []bool
	prefix     []rune
	picks      []choice
}

func (s *Solver) newSpace(p Problem) (*space, bool) {
	n := len(p.Feeders)
	sp := &space{
		problem:  p,
		n:        n,
		chars:    make([][][]rune, n),
		inferred: make([][]bool, n),
	}
	for f, feeder := range p.Feeders {
		seen := make([]map[rune]struct{}, feeder.Len())
		for q := range seen {
			seen[q] = make(map[rune]struct{})
		}
		found := false
		for w := range s.index.MatchPattern(feeder) {
			found = true
			for q, r := range []rune(w.Text) {
				seen[q][r] = struct{}{}
			}
		}
		if !found {
			return nil, false
		}
		sp.chars[f] = make([][]rune, feeder.Len())
		sp.inferred[f] = make([]bool, feeder.Len())
		for q, set := range seen {
			rs := make([]rune, 0, len(set))
			for r := range set {
				rs = append(rs, r)
			}
			slices.Sort(rs)
			sp.chars[f][q] = rs
			sp.inferred[f][q] = feeder.Slot(q).Kind() != lexicon.Fixed
		}
	}
	return sp, true
}

func (sp *space) emptyState() state {
	return state{
		usedFeeder: make([]bool, sp.n),
		usedSlot:   make([]bool, sp.n),
		prefix:     make([]rune, 0, sp.n),
		picks:      make([]choice, 0, sp.n),
	}
}

func (st *state) push(c choice) {
	st.usedFeeder[c.feeder] = true
	st.usedSlot[c.slot] = true
	st.prefix = append(st.prefix, c.char)
	st.picks = append(st.picks, c)
}

func (st *state) pop() {
	c := st.picks[len(st.picks)-1]
	st.usedFeeder[c.feeder] = false
	st.usedSlot[c.slot] = false
	st.prefix = st.prefix[:len(st.prefix)-1]
	st.picks = st.picks[:len(st.picks)-1]
}

// expand lists the choices for answer position depth, in feeder, slot,
// position, rune order.
func (sp *space) expand(st state, depth int) []choice {
	var out []choice
	for f := 0; f < sp.n; f++ {
		if st.usedFeeder[f] || (!sp.problem.SearchOrder && f != depth) {
			continue
		}
		for j := 0; j < sp.n; j++ {
			if st.usedSlot[j] || (!sp.problem.SearchAssignment && j != f) {
				continue
			}
			flen := sp.problem.Feeders[f].Len()
			pos := sp.problem.Positions[j]
			lo, hi := pos.index, pos.index
			if pos.any {
				lo, hi = 0, flen-1
			}
			for q := lo; q <= hi && q < flen; q++ {
				for _, r := range sp.chars[f][q] {
					out = append(out, choice{feeder: f, slot: j, pos: q, char: r})
				}
			}
		}
	}
	return out
}

// walker runs the depth-first search over a subset of level-0 choices.
type walker struct {
	sp         *space
	index      *lexicon.Index
	checkEvery int64
	st         state
	nodes      int64
	pruned     int64
	found      []Extraction
}

type frame struct {
	choices []choice
	next    int
}

func (s *Solver) newWalker(sp *space) *walker {
	return &walker{sp: sp, index: s.index, checkEvery: s.checkEvery, st: sp.emptyState()}
}

func (w *walker) run(ctx context.Context, roots []choice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n := w.sp.n
	stack := []frame{{choices: roots}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.choices) {
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				w.st.pop()
			}
			continue
		}
		c := top.choices[top.next]
		top.next++

		w.nodes++
		if w.nodes%w.checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		w.st.push(c)
		if !w.index.CanCompletePrefixOfLength(string(w.st.prefix), n) {
			w.pruned++
			w.st.pop()
			continue
		}
		if len(w.st.picks) == n {
			w.leaf()
			w.st.pop()
			continue
		}
		stack = append(stack, frame{choices: w.sp.expand(w.st, len(w.st.picks))})
	}
	return nil
}

func (w *walker) leaf() {
	word, ok := w.index.Lookup(string(w.st.prefix))
	if !ok {
		return
	}
	n := w.sp.n
	x := Extraction{
		Word:       word,
		Order:      make([]int, n),
		Assignment: make([]int, n),
		Picks:      make([]Pick, n),
	}
	for k, c := range w.st.picks {
		x.Order[k] = c.feeder
		x.Assignment[c.feeder] = c.slot
		x.Picks[k] = Pick{
			Feeder:   c.feeder,
			Slot:     c.slot,
			Position: c.pos,
			Char:     c.char,
			Inferred: w.sp.inferred[c.feeder][c.pos],
		}
	}
	w.found = append(w.found, x)
}

func (w *walker) mergeInto(res *Result) {
	res.Extractions = append(res.Extractions, w.found...)
	res.Stats.Nodes += w.nodes
	res.Stats.Pruned += w.pruned
}
