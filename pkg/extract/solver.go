package extract

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
)

// DefaultCheckInterval is how many search nodes pass between cancellation checks.
const DefaultCheckInterval = 1024

// Solver searches extraction problems against one Index.
type Solver struct {
	index      *lexicon.Index
	workers    int
	checkEvery int64
	logger     *log.Logger
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithWorkers runs top-level partitions on up to n goroutines.
func WithWorkers(n int) SolverOption {
	return func(s *Solver) { s.workers = n }
}

// WithCheckInterval sets how often the context is polled.
func WithCheckInterval(n int) SolverOption {
	return func(s *Solver) {
		if n > 0 {
			s.checkEvery = int64(n)
		}
	}
}

func WithLogger(l *log.Logger) SolverOption {
	return func(s *Solver) { s.logger = l }
}

func NewSolver(index *lexicon.Index, opts ...SolverOption) *Solver {
	s := &Solver{
		index:      index,
		workers:    1,
		checkEvery: DefaultCheckInterval,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SolveOptions tunes one Solve call.
type SolveOptions struct {
	Sort SortOrder
}

// Solve enumerates every reading of p that spells a lexicon word. When ctx is
// done mid-search the extractions found so far are returned along with the
// context error.
func (s *Solver) Solve(ctx context.Context, p Problem, opts SolveOptions) (*Result, error) {
	start := time.Now()
	if err := p.validate(); err != nil {
		return nil, err
	}
	res := &Result{}
	n := len(p.Feeders)
	if len(s.index.WordsOfLength(n)) == 0 {
		res.Stats.Duration = time.Since(start)
		return res, nil
	}

	sp, ok := s.newSpace(p)
	if !ok {
		res.Stats.Duration = time.Since(start)
		s.logger.Debug("feeder has no completion", "feeders", n)
		return res, nil
	}

	roots := sp.expand(sp.emptyState(), 0)
	groups := partition(roots)
	var err error
	if s.workers > 1 && len(groups) > 1 {
		err = s.solveParallel(ctx, sp, groups, res)
	} else {
		w := s.newWalker(sp)
		err = w.run(ctx, roots)
		w.mergeInto(res)
	}

	sortExtractions(res.Extractions, opts.Sort)
	res.Stats.Duration = time.Since(start)
	s.logger.Debug("extraction finished",
		"feeders", n,
		"results", len(res.Extractions),
		"nodes", res.Stats.Nodes,
		"pruned", res.Stats.Pruned,
		"elapsed", res.Stats.Duration)
	return res, err
}

func (s *Solver) solveParallel(ctx context.Context, sp *space, groups [][]choice, res *Result) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	walkers := make([]*walker, len(groups))
	for i, grp := range groups {
		w := s.newWalker(sp)
		walkers[i] = w
		g.Go(func() error {
			return w.run(gctx, grp)
		})
	}
	err := g.Wait()
	for _, w := range walkers {
		w.mergeInto(res)
	}
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// partition groups level-0 choices sharing a feeder and position spec.
func partition(roots []choice) [][]choice {
	var groups [][]choice
	for i := 0; i < len(roots); {
		j := i + 1
		for j < len(roots) && roots[j].feeder == roots[i].feeder && roots[j].slot == roots[i].slot {
			j++
		}
		groups = append(groups, slices.Clone(roots[i:j]))
		i = j
	}
	return groups
}
