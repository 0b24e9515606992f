package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/pattern"
)

func newIndex(t *testing.T, words ...string) *lexicon.Index {
	t.Helper()
	entries := make([]lexicon.Entry, len(words))
	for i, w := range words {
		entries[i] = lexicon.Entry{Text: w, Key: len(w) * 10}
	}
	ix, err := lexicon.Build(entries)
	require.NoError(t, err)
	return ix
}

func feeders(t *testing.T, specs ...string) []lexicon.Pattern {
	t.Helper()
	out := make([]lexicon.Pattern, len(specs))
	for i, s := range specs {
		p, err := pattern.Parse(s, '?', nil)
		require.NoError(t, err)
		out[i] = p
	}
	return out
}

func spelled(res *Result) []string {
	out := make([]string, len(res.Extractions))
	for i, x := range res.Extractions {
		out[i] = x.Word.Text
	}
	return out
}

func solve(t *testing.T, s *Solver, p Problem) *Result {
	t.Helper()
	res, err := s.Solve(context.Background(), p, SolveOptions{})
	require.NoError(t, err)
	return res
}

func TestSolve_TwoFeedersNoAnswer(t *testing.T) {
	// Given: feeders c?t and d?g read at their middle letter
	ix := newIndex(t, "cat", "dog", "at", "go")
	p := Problem{
		Feeders:   feeders(t, "c?t", "d?g"),
		Positions: []Position{At(1), At(1)},
	}

	// When: the extracted pair "ao" is not a word
	res := solve(t, NewSolver(ix), p)

	// Then: nothing is found
	assert.Empty(t, res.Extractions)
}

func TestSolve_TwoFeedersAnswer(t *testing.T) {
	ix := newIndex(t, "cat", "dog", "ao")
	p := Problem{
		Feeders:   feeders(t, "c?t", "d?g"),
		Positions: []Position{At(1), At(1)},
	}

	res := solve(t, NewSolver(ix), p)

	require.Len(t, res.Extractions, 1)
	x := res.Extractions[0]
	assert.Equal(t, "ao", x.Word.Text)
	assert.Equal(t, []int{0, 1}, x.Order)
	assert.Equal(t, []int{0, 1}, x.Assignment)
	assert.Equal(t, Pick{Feeder: 0, Slot: 0, Position: 1, Char: 'a', Inferred: true}, x.Picks[0])
	assert.Equal(t, Pick{Feeder: 1, Slot: 1, Position: 1, Char: 'o', Inferred: true}, x.Picks[1])
	assert.Positive(t, res.Stats.Nodes)
}

func TestSolve_SearchOrder(t *testing.T) {
	ix := newIndex(t, "cat", "dog", "oa")
	p := Problem{
		Feeders:   feeders(t, "c?t", "d?g"),
		Positions: []Position{At(1), At(1)},
	}

	assert.Empty(t, solve(t, NewSolver(ix), p).Extractions)

	p.SearchOrder = true
	res := solve(t, NewSolver(ix), p)
	require.Len(t, res.Extractions, 1)
	assert.Equal(t, "oa", res.Extractions[0].Word.Text)
	assert.Equal(t, []int{1, 0}, res.Extractions[0].Order)
}

func TestSolve_SearchAssignment(t *testing.T) {
	ix := newIndex(t, "cat", "dog", "cg", "td", "ao")
	p := Problem{
		Feeders:   feeders(t, "cat", "dog"),
		Positions: []Position{At(0), At(2)},
	}

	res := solve(t, NewSolver(ix), p)
	assert.Equal(t, []string{"cg"}, spelled(res))
	assert.False(t, res.Extractions[0].Picks[0].Inferred)

	p.SearchAssignment = true
	res = solve(t, NewSolver(ix), p)
	assert.Equal(t, []string{"cg", "td"}, spelled(res))
	assert.Equal(t, []int{1, 0}, res.Extractions[1].Assignment)
}

func TestSolve_SearchFlagsOnlyAdd(t *testing.T) {
	ix := newIndex(t, "cat", "dog", "cg", "gc", "td", "dt", "ao")
	base := Problem{
		Feeders:   feeders(t, "cat", "dog"),
		Positions: []Position{At(0), At(2)},
	}

	run := func(order, assign bool) []string {
		p := base
		p.SearchOrder = order
		p.SearchAssignment = assign
		return spelled(solve(t, NewSolver(ix), p))
	}

	fixed := run(false, false)
	require.Equal(t, []string{"cg"}, fixed)

	byOrder := run(true, false)
	byAssign := run(false, true)
	both := run(true, true)

	assert.ElementsMatch(t, []string{"cg", "gc"}, byOrder)
	assert.ElementsMatch(t, []string{"cg", "td"}, byAssign)
	assert.ElementsMatch(t, []string{"cg", "gc", "td", "dt"}, both)

	assert.Subset(t, byOrder, fixed)
	assert.Subset(t, byAssign, fixed)
	assert.Subset(t, both, byOrder)
	assert.Subset(t, both, byAssign)
}

func TestSolve_AnyPosition(t *testing.T) {
	ix := newIndex(t, "cat", "dog", "ad", "to", "co", "ct")
	p := Problem{
		Feeders:   feeders(t, "cat", "dog"),
		Positions: []Position{AnyPosition(), AnyPosition()},
	}

	res := solve(t, NewSolver(ix), p)

	assert.Equal(t, []string{"co", "ad", "to"}, spelled(res))
}

func TestSolve_SortOrders(t *testing.T) {
	ix, err := lexicon.Build([]lexicon.Entry{
		{Text: "cat"}, {Text: "dog"},
		{Text: "co", Key: 1}, {Text: "ad", Key: 7}, {Text: "to", Key: 3},
	})
	require.NoError(t, err)
	p := Problem{
		Feeders:   feeders(t, "cat", "dog"),
		Positions: []Position{AnyPosition(), AnyPosition()},
	}
	s := NewSolver(ix)

	res, err := s.Solve(context.Background(), p, SolveOptions{Sort: SortByWord})
	require.NoError(t, err)
	assert.Equal(t, []string{"ad", "co", "to"}, spelled(res))

	res, err = s.Solve(context.Background(), p, SolveOptions{Sort: SortByKey})
	require.NoError(t, err)
	assert.Equal(t, []string{"ad", "to", "co"}, spelled(res))
}

func TestSolve_FixingAFeederNeverAddsResults(t *testing.T) {
	ix := newIndex(t, "cat", "cot", "cut", "dog", "dig", "ad", "od", "ud", "ai")
	loose := Problem{
		Feeders:   feeders(t, "c?t", "d?g"),
		Positions: []Position{At(1), At(0)},
	}
	tight := loose
	tight.Feeders = feeders(t, "cat", "d?g")

	s := NewSolver(ix)
	all := spelled(solve(t, s, loose))
	some := spelled(solve(t, s, tight))

	assert.Equal(t, []string{"ad", "od", "ud"}, all)
	assert.Subset(t, all, some)
	assert.Equal(t, []string{"ad"}, some)
}

func TestSolve_Idempotent(t *testing.T) {
	ix := newIndex(t, "cat", "cot", "dog", "dig", "ai", "ad", "od", "oi")
	p := Problem{
		Feeders:     feeders(t, "c?t", "d?g"),
		Positions:   []Position{At(1), AnyPosition()},
		SearchOrder: true,
	}
	s := NewSolver(ix)
	first := solve(t, s, p)
	second := solve(t, s, p)
	assert.Equal(t, first.Extractions, second.Extractions)
	assert.Equal(t, first.Stats.Nodes, second.Stats.Nodes)
}

func TestSolve_ParallelMatchesSequential(t *testing.T) {
	words := []string{
		"tea", "eat", "ate", "tan", "ant", "net", "ten", "nat", "tae",
		"cat", "act", "tac", "can", "nab", "ban", "bat", "tab", "abt",
	}
	ix := newIndex(t, words...)
	p := Problem{
		Feeders:          feeders(t, "t??", "?a?", "??n"),
		Positions:        []Position{AnyPosition(), At(1), AnyPosition()},
		SearchOrder:      true,
		SearchAssignment: true,
	}

	seq := solve(t, NewSolver(ix), p)
	par := solve(t, NewSolver(ix, WithWorkers(4)), p)

	require.NotEmpty(t, seq.Extractions)
	assert.Equal(t, seq.Extractions, par.Extractions)
	assert.Equal(t, seq.Stats.Nodes, par.Stats.Nodes)
	assert.Equal(t, seq.Stats.Pruned, par.Stats.Pruned)
}

func TestSolve_InvalidInput(t *testing.T) {
	ix := newIndex(t, "cat", "dog")
	two := feeders(t, "cat", "dog")
	tests := []struct {
		name string
		p    Problem
	}{
		{"no feeders", Problem{}},
		{"position count", Problem{Feeders: two, Positions: []Position{At(0)}}},
		{"target length", Problem{Feeders: two, Positions: []Position{At(0), At(0)}, TargetLength: 3}},
		{"negative position", Problem{Feeders: two, Positions: []Position{At(-1), At(0)}}},
		{"position past feeder", Problem{Feeders: two, Positions: []Position{At(0), At(3)}}},
		{"position past every feeder", Problem{Feeders: two, Positions: []Position{At(0), At(5)}, SearchAssignment: true}},
		{"empty feeder", Problem{Feeders: []lexicon.Pattern{two[0], {}}, Positions: []Position{At(0), At(0)}}},
	}
	s := NewSolver(ix)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Solve(context.Background(), tt.p, SolveOptions{})
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, lexicon.ErrInvalidInput))
		})
	}
}

func TestSolve_NoCompletionShortCircuits(t *testing.T) {
	ix := newIndex(t, "cat", "dog", "ao")
	p := Problem{
		Feeders:   feeders(t, "x?z", "d?g"),
		Positions: []Position{At(1), At(1)},
	}
	res := solve(t, NewSolver(ix), p)
	assert.Empty(t, res.Extractions)
	assert.Zero(t, res.Stats.Nodes)
}

func TestSolve_NoWordOfTargetLength(t *testing.T) {
	ix := newIndex(t, "cat", "dog")
	p := Problem{
		Feeders:   feeders(t, "c?t", "d?g"),
		Positions: []Position{At(1), At(1)},
	}
	res := solve(t, NewSolver(ix), p)
	assert.Empty(t, res.Extractions)
}

func TestSolve_Cancelled(t *testing.T) {
	ix := newIndex(t, "cat", "dog", "ao")
	p := Problem{
		Feeders:   feeders(t, "c?t", "d?g"),
		Positions: []Position{At(1), At(1)},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		res, err := NewSolver(ix, WithWorkers(workers), WithCheckInterval(1)).Solve(ctx, p, SolveOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
		require.NotNil(t, res)
		assert.Empty(t, res.Extractions)
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		zero    bool
		want    Position
		wantErr bool
	}{
		{in: "1", want: At(0)},
		{in: "3", want: At(2)},
		{in: "0", zero: true, want: At(0)},
		{in: "A", want: AnyPosition()},
		{in: "*", want: AnyPosition()},
		{in: "0", wantErr: true},
		{in: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePosition(tt.in, tt.zero)
			if tt.wantErr {
				assert.ErrorIs(t, err, lexicon.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	ps, err := ParsePositions([]string{"2", "A"}, false)
	require.NoError(t, err)
	assert.Equal(t, []Position{At(1), AnyPosition()}, ps)
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("key")
	require.NoError(t, err)
	assert.Equal(t, SortByKey, o)
	o, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDiscovery, o)
	_, err = ParseSortOrder("random")
	assert.ErrorIs(t, err, lexicon.ErrInvalidInput)
}
