package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/wwhiteqwq/puzzlehunt-tools/internal/engine"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/extract"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/pattern"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/synonym"
)

// Server handles msgpack IPC for lexicon queries.
type Server struct {
	engine   *engine.Engine
	maxLimit int
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
	logger   *log.Logger
	requests int
}

// NewServer creates a server using stdin/stdout for IPC.
func NewServer(e *engine.Engine) *Server {
	return NewServerIO(e, os.Stdin, os.Stdout)
}

// NewServerIO creates a server over arbitrary streams.
func NewServerIO(e *engine.Engine, r io.Reader, w io.Writer) *Server {
	return &Server{
		engine:   e,
		maxLimit: e.Config().Server.MaxLimit,
		dec:      msgpack.NewDecoder(r),
		enc:      msgpack.NewEncoder(w),
		logger:   log.Default(),
	}
}

// Start announces readiness and answers requests until the input ends or ctx
// is done. Requests are handled one at a time in arrival order.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting Server.")
	s.send(StatusResponse{Status: "ready", Words: s.engine.Index.Len()})

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("input closed", "requests", s.requests)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return err
		}
		s.requests++
		s.handleRequest(ctx, raw)
	}
}

func (s *Server) handleRequest(ctx context.Context, raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		s.sendError("", "invalid msgpack request", CodeInvalid)
		return
	}
	start := time.Now()
	s.logger.Debug("request", "id", req.ID, "op", req.Op)

	switch req.Op {
	case "health":
		s.handleHealth(req)
	case "match", "fuzzy", "hamming", "substring":
		s.handleSearch(req, start)
	case "complete":
		s.handleComplete(req, start)
	case "extract":
		s.handleExtract(ctx, req, start)
	case "rank":
		s.handleRank(req, start)
	case "synonym":
		s.handleSynonym(ctx, req, start)
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown op: %q", req.Op), CodeInvalid)
	}
}

func (s *Server) handleHealth(req Request) {
	resp := StatusResponse{
		ID:     req.ID,
		Status: "ok",
		Words:  s.engine.Index.Len(),
		Stats:  s.engine.Index.Stats(),
	}
	switch o := s.engine.Oracle.(type) {
	case nil:
		resp.Oracle = "none"
	case interface{ State() synonym.State }:
		resp.Oracle = o.State().String()
	default:
		resp.Oracle = "ready"
	}
	s.send(resp)
}

func (s *Server) handleSearch(req Request, start time.Time) {
	var (
		matches []lexicon.Match
		err     error
	)
	limit := s.limit(req.Limit)
	switch req.Op {
	case "match":
		matches, err = s.engine.Search(pattern.Request{Pattern: req.Pattern}, limit)
	case "substring":
		matches, err = s.engine.Search(pattern.Request{Pattern: req.Pattern, Substring: true}, limit)
	case "fuzzy", "hamming":
		if req.Distance == nil {
			s.sendError(req.ID, "missing distance 'd'", CodeInvalid)
			return
		}
		if req.Op == "fuzzy" {
			matches, err = s.engine.Search(pattern.Request{Pattern: req.Pattern, MaxDistance: req.Distance}, limit)
		} else {
			matches, err = s.engine.Hamming(req.Pattern, *req.Distance, limit)
		}
	}
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	words := make([]WordResult, len(matches))
	for i, m := range matches {
		words[i] = WordResult{Word: m.Text, Key: m.Key, Distance: m.Distance}
	}
	s.send(WordsResponse{ID: req.ID, Words: words, Count: len(words), TimeTaken: since(start)})
}

func (s *Server) handleComplete(req Request, start time.Time) {
	got, err := s.engine.Complete(req.Pattern, s.limit(req.Limit))
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	words := make([]WordResult, len(got))
	for i, w := range got {
		words[i] = WordResult{Word: w.Text, Key: w.Key}
	}
	s.send(WordsResponse{ID: req.ID, Words: words, Count: len(words), TimeTaken: since(start)})
}

func (s *Server) handleExtract(ctx context.Context, req Request, start time.Time) {
	res, err := s.engine.Extract(ctx, engine.ExtractRequest{
		Feeders:        req.Feeders,
		Positions:      req.Positions,
		ShuffleFeeders: req.ShuffleFeeders,
		ShuffleIndices: req.ShuffleIndices,
		ZeroIndexed:    req.ZeroIndexed,
		Sort:           req.Sort,
	})
	if res == nil {
		s.sendFailure(req.ID, err)
		return
	}
	resp := ExtractResponse{
		ID:        req.ID,
		Nodes:     res.Stats.Nodes,
		Pruned:    res.Stats.Pruned,
		TimeTaken: since(start),
	}
	xs := res.Extractions
	if limit := s.limit(req.Limit); limit > 0 && len(xs) > limit {
		xs = xs[:limit]
	}
	resp.Extractions = make([]ExtractionResult, len(xs))
	for i, x := range xs {
		resp.Extractions[i] = extractionResult(x)
	}
	resp.Count = len(resp.Extractions)
	if err != nil {
		resp.Partial = true
		resp.Error = err.Error()
		resp.Code = codeFor(err)
		s.logger.Warn("extraction stopped early", "id", req.ID, "found", len(res.Extractions), "err", err)
	}
	s.send(resp)
}

func extractionResult(x extract.Extraction) ExtractionResult {
	picks := make([]PickResult, len(x.Picks))
	for i, p := range x.Picks {
		picks[i] = PickResult{Feeder: p.Feeder, Position: p.Position, Char: string(p.Char), Inferred: p.Inferred}
	}
	return ExtractionResult{
		Word:       x.Word.Text,
		Key:        x.Word.Key,
		Order:      x.Order,
		Assignment: x.Assignment,
		Picks:      picks,
	}
}

func (s *Server) handleRank(req Request, start time.Time) {
	got, err := s.engine.Rank(engine.RankRequest{Pattern: req.Pattern, Targets: req.Soft, Limit: s.limit(req.Limit)})
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	cands := make([]CandidateResult, len(got))
	for i, c := range got {
		cands[i] = CandidateResult{Word: c.Word.Text, Key: c.Word.Key, Score: c.Score, Satisfied: c.Satisfied}
	}
	s.send(RankResponse{ID: req.ID, Candidates: cands, Count: len(cands), TimeTaken: since(start)})
}

func (s *Server) handleSynonym(ctx context.Context, req Request, start time.Time) {
	got, err := s.engine.Synonyms(ctx, engine.SynonymRequest{
		Query:     req.Query,
		Pool:      req.Pool,
		MinLen:    req.MinLen,
		MaxLen:    req.MaxLen,
		Pattern:   req.Pattern,
		InLexicon: req.InLexicon,
		Limit:     s.limit(req.Limit),
	})
	if err != nil {
		s.sendFailure(req.ID, err)
		return
	}
	s.send(SynonymResponse{ID: req.ID, Words: got, Count: len(got), TimeTaken: since(start)})
}

// limit clamps a requested limit to the configured maximum.
func (s *Server) limit(requested int) int {
	if s.maxLimit > 0 && (requested <= 0 || requested > s.maxLimit) {
		return s.maxLimit
	}
	return requested
}

func codeFor(err error) int {
	switch {
	case errors.Is(err, lexicon.ErrInvalidInput):
		return CodeInvalid
	case errors.Is(err, synonym.ErrCollaboratorUnavailable):
		return CodeUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return CodeTimeout
	default:
		return CodeInternal
	}
}

func (s *Server) sendFailure(id string, err error) {
	code := codeFor(err)
	if code == CodeInternal {
		s.logger.Errorf("request %s failed: %v", id, err)
	}
	s.sendError(id, err.Error(), code)
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

func (s *Server) send(response any) {
	if err := s.enc.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

func since(start time.Time) int64 {
	return time.Since(start).Microseconds()
}
