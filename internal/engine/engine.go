// Package engine wires a loaded lexicon to the matcher, solver, ranker and
// synonym oracle so the server, the repl and the commands share one setup.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/config"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/dictionary"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/extract"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/pattern"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/rank"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/synonym"
)

const healthTimeout = 2 * time.Second

// ErrNoOracle is the cause reported when no similarity service is configured.
var ErrNoOracle = errors.New("no similarity service configured")

// Engine answers every query kind against one immutable index.
type Engine struct {
	Index   *lexicon.Index
	Matcher *pattern.Matcher
	Solver  *extract.Solver
	Ranker  *rank.Ranker
	Oracle  synonym.Oracle

	cfg    *config.Config
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithOracle attaches a similarity oracle for synonym queries.
func WithOracle(o synonym.Oracle) Option {
	return func(e *Engine) { e.Oracle = o }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New builds an Engine over ix using cfg for defaults.
func New(ix *lexicon.Index, cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	wildcard, err := cfg.Search.WildcardRune()
	if err != nil {
		return nil, err
	}
	e := &Engine{Index: ix, cfg: cfg, logger: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	e.Matcher = pattern.NewMatcher(ix,
		pattern.WithWildcard(wildcard),
		pattern.WithLimit(cfg.Search.MaxResults))
	e.Solver = extract.NewSolver(ix,
		extract.WithWorkers(cfg.Extract.Workers),
		extract.WithCheckInterval(cfg.Extract.CheckInterval),
		extract.WithLogger(e.logger))
	e.Ranker = rank.NewRanker(ix, rank.WithLogger(e.logger))
	return e, nil
}

// Config returns the config the engine was built with.
func (e *Engine) Config() *config.Config { return e.cfg }

// LoadIndex reads the configured dictionary and builds an index from it.
func LoadIndex(lex config.LexiconConfig) (*lexicon.Index, error) {
	if lex.Path == "" {
		return nil, fmt.Errorf("no dictionary path configured")
	}
	format, err := dictionary.ParseFormat(lex.Format)
	if err != nil {
		return nil, err
	}
	entries, err := dictionary.Load(lex.Path, format, lex.MaxWords)
	if err != nil {
		return nil, err
	}
	opts, err := lex.BuildOptions()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ix, err := lexicon.Build(entries, opts...)
	if err != nil {
		return nil, err
	}
	log.Debug("index built", "words", ix.Len(), "elapsed", time.Since(start))
	return ix, nil
}

// NewOracle builds the configured similarity oracle behind a circuit breaker.
// It returns nil when no vector file is configured.
func NewOracle(syn config.SynonymConfig) (synonym.Oracle, error) {
	if syn.Vectors == "" || syn.Endpoint == "" {
		return nil, nil
	}
	vf, err := synonym.LoadVectors(syn.Vectors)
	if err != nil {
		return nil, err
	}
	embedder := synonym.NewEmbedder(synonym.EmbedderConfig{
		Endpoint: syn.Endpoint,
		Timeout:  syn.Timeout(),
	})
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()
	if err := embedder.Health(ctx); err != nil {
		// Queries still go through the breaker, which fails fast while the service is down.
		log.Warn("embedding service not reachable", "endpoint", syn.Endpoint, "err", err)
	}
	vo, err := synonym.NewVectorOracle(synonym.NewCachedEmbedder(embedder, syn.CacheSize), vf.Words, vf.Vectors)
	if err != nil {
		return nil, err
	}
	log.Debug("vector oracle ready", "words", vo.Len(), "endpoint", syn.Endpoint)
	return synonym.NewBreaker(vo,
		synonym.WithName("embedding service"),
		synonym.WithMaxFailures(syn.MaxFailures),
		synonym.WithResetTimeout(syn.ResetTimeout())), nil
}

// Search runs a pattern, edit distance or substring query. limit trims
// below the configured result cap; zero keeps it.
func (e *Engine) Search(req pattern.Request, limit int) ([]lexicon.Match, error) {
	out, err := e.Matcher.Search(req)
	if err != nil {
		return nil, err
	}
	return trim(out, limit), nil
}

// Hamming returns same-length words within d substitutions of s.
func (e *Engine) Hamming(s string, d, limit int) ([]lexicon.Match, error) {
	if s == "" {
		return nil, lexicon.Invalidf("search", "empty pattern")
	}
	if d < 0 {
		return nil, lexicon.Invalidf("search", "negative distance %d", d)
	}
	return trim(e.Matcher.Hamming(s, d), limit), nil
}

// Complete lists words starting with prefix, highest key first.
func (e *Engine) Complete(prefix string, limit int) ([]lexicon.Word, error) {
	if prefix == "" {
		return nil, lexicon.Invalidf("complete", "empty prefix")
	}
	if limit <= 0 {
		limit = e.cfg.CLI.DefaultLimit
	}
	return e.Index.WordsWithPrefix(e.Index.Normalize(prefix), limit), nil
}

// ExtractRequest is an extraction given as strings.
type ExtractRequest struct {
	Feeders        []string
	Positions      []string
	ShuffleFeeders bool
	ShuffleIndices bool
	// ZeroIndexed overrides the configured index base when set.
	ZeroIndexed *bool
	Sort        string
}

// Extract parses req and solves it under the configured time limit. A timeout
// returns the partial result together with context.DeadlineExceeded.
func (e *Engine) Extract(ctx context.Context, req ExtractRequest) (*extract.Result, error) {
	feeders := make([]lexicon.Pattern, len(req.Feeders))
	for i, f := range req.Feeders {
		p, err := e.Matcher.Parse(f)
		if err != nil {
			return nil, err
		}
		feeders[i] = p
	}
	zero := e.cfg.Extract.ZeroIndexed
	if req.ZeroIndexed != nil {
		zero = *req.ZeroIndexed
	}
	positions, err := extract.ParsePositions(req.Positions, zero)
	if err != nil {
		return nil, err
	}
	sortName := req.Sort
	if sortName == "" {
		sortName = e.cfg.Extract.Sort
	}
	order, err := extract.ParseSortOrder(sortName)
	if err != nil {
		return nil, err
	}

	if limit := e.cfg.Search.TimeLimit(); limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}
	return e.Solver.Solve(ctx, extract.Problem{
		Feeders:          feeders,
		Positions:        positions,
		SearchOrder:      req.ShuffleFeeders,
		SearchAssignment: req.ShuffleIndices,
	}, extract.SolveOptions{Sort: order})
}

// RankRequest ranks words matching Pattern by how many Targets they satisfy.
// An empty pattern means any word as long as the target list.
type RankRequest struct {
	Pattern string
	Targets []string
	Limit   int
}

func (e *Engine) Rank(req RankRequest) ([]rank.Candidate, error) {
	var hard *pattern.Query
	switch {
	case req.Pattern != "":
		p, err := e.Matcher.Parse(req.Pattern)
		if err != nil {
			return nil, err
		}
		hard = pattern.FromPattern(p)
	case len(req.Targets) > 0:
		hard = pattern.NewQuery(len(req.Targets))
	default:
		return nil, lexicon.Invalidf("rank", "pattern or targets required")
	}
	soft := rank.SoftFromTargets(req.Targets, e.Matcher.Wildcard(), e.Index.Normalize)
	limit := req.Limit
	if limit <= 0 {
		limit = e.cfg.Rank.Limit
	}
	return e.Ranker.Rank(hard, soft, rank.WithLimit(limit))
}

// SynonymRequest asks the oracle for neighbours of Query and keeps those
// passing the local filters.
type SynonymRequest struct {
	Query     string
	Pool      int
	MinLen    int
	MaxLen    int
	Pattern   string
	InLexicon bool
	Limit     int
}

func (e *Engine) Synonyms(ctx context.Context, req SynonymRequest) ([]synonym.Scored, error) {
	if e.Oracle == nil {
		return nil, &synonym.CollaboratorUnavailableError{Collaborator: "similarity oracle", Cause: ErrNoOracle}
	}
	filter := synonym.Filter{MinLen: req.MinLen, MaxLen: req.MaxLen, InLexicon: req.InLexicon}
	if req.Pattern != "" {
		p, err := e.Matcher.Parse(req.Pattern)
		if err != nil {
			return nil, err
		}
		filter.Pattern = &p
	}
	pool := req.Pool
	if pool <= 0 {
		pool = e.cfg.Synonym.PoolSize
	}
	out, err := synonym.Refilter(ctx, e.Oracle, e.Index, req.Query, pool, filter)
	if err != nil {
		return nil, err
	}
	return trim(out, req.Limit), nil
}

func trim[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
