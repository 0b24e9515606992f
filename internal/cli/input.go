// Package cli handles the interactive query prompt used for testing and debugging.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wwhiteqwq/puzzlehunt-tools/internal/engine"
	"github.com/wwhiteqwq/puzzlehunt-tools/internal/utils"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/pattern"
)

// maxQueryRunes bounds a single query literal.
const maxQueryRunes = 64

const helpText = `commands:
  <pattern>                      match a pattern, e.g. ca? or c[aeiou]t
  m <pattern>                    same as above
  f <word> <d>                   words within edit distance d
  h <word> <d>                   same-length words within d substitutions
  s <text>                       words containing text
  c <prefix>                     completions, highest key first
  x <feeders...> : <pos...> [-o] [-a]
                                 extract; -o searches feeder order, -a searches positions
  r [pattern] : <targets...>     rank by per-position targets
  syn <word> [pattern]           similar words from the embedding service
  info                           index statistics
  help, quit`

// InputHandler reads one command per line and prints results.
type InputHandler struct {
	engine       *engine.Engine
	limit        int
	in           *bufio.Reader
	out          io.Writer
	print        *Printer
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(e *engine.Engine, limit int, r io.Reader, w io.Writer) *InputHandler {
	return &InputHandler{
		engine: e,
		limit:  limit,
		in:     bufio.NewReader(r),
		out:    w,
		print:  NewPrinter(w, limit),
	}
}

// Start runs the prompt until input ends, "quit" is read or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, "lexsolve repl, type help for commands (Ctrl+C to exit)")
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(h.out, "> ")
		line, err := h.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if quit := h.handleInput(ctx, line); quit {
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput runs one command line and reports whether the loop should stop.
func (h *InputHandler) handleInput(ctx context.Context, line string) bool {
	h.requestCount++
	if utils.ContainsControl(line) {
		h.print.Errorf("input contains control characters")
		return false
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	start := time.Now()

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return true
	case "help":
		fmt.Fprintln(h.out, helpText)
	case "info":
		h.print.Index(h.engine.Index)
	case "m", "match":
		h.search(pattern.Request{Pattern: rest})
	case "f", "fuzzy":
		h.distance(rest, false)
	case "h", "hamming":
		h.distance(rest, true)
	case "s", "sub", "substring":
		h.search(pattern.Request{Pattern: rest, Substring: true})
	case "c", "complete":
		h.complete(rest)
	case "x", "extract":
		h.extract(ctx, rest)
	case "r", "rank":
		h.rank(rest)
	case "syn", "synonym":
		h.synonym(ctx, rest)
	default:
		h.search(pattern.Request{Pattern: line})
	}
	log.Debugf("Took [ %v ] for %q", time.Since(start), line)
	return false
}

func (h *InputHandler) search(req pattern.Request) {
	if !utils.IsValidQuery(req.Pattern, maxQueryRunes) {
		h.print.Errorf("invalid query %q", req.Pattern)
		return
	}
	got, err := h.engine.Search(req, h.limit)
	if err != nil {
		h.print.Errorf("%v", err)
		return
	}
	h.print.Matches(got)
}

func (h *InputHandler) distance(args string, hamming bool) {
	fields := utils.SplitArgs(args)
	if len(fields) != 2 {
		h.print.Errorf("usage: <word> <distance>")
		return
	}
	d, err := strconv.Atoi(fields[1])
	if err != nil {
		h.print.Errorf("bad distance %q", fields[1])
		return
	}
	if hamming {
		got, err := h.engine.Hamming(fields[0], d, h.limit)
		if err != nil {
			h.print.Errorf("%v", err)
			return
		}
		h.print.Matches(got)
		return
	}
	h.search(pattern.Request{Pattern: fields[0], MaxDistance: &d})
}

func (h *InputHandler) complete(prefix string) {
	got, err := h.engine.Complete(prefix, h.limit)
	if err != nil {
		h.print.Errorf("%v", err)
		return
	}
	h.print.Words(got)
}

// splitColon splits "a b : c d" into both halves' arguments.
func splitColon(s string) ([]string, []string) {
	left, right, _ := strings.Cut(s, ":")
	return utils.SplitArgs(left), utils.SplitArgs(right)
}

func (h *InputHandler) extract(ctx context.Context, args string) {
	feeders, rest := splitColon(args)
	req := engine.ExtractRequest{Feeders: feeders}
	for _, tok := range rest {
		switch tok {
		case "-o":
			req.ShuffleFeeders = true
		case "-a":
			req.ShuffleIndices = true
		default:
			req.Positions = append(req.Positions, tok)
		}
	}
	res, err := h.engine.Extract(ctx, req)
	if res == nil {
		h.print.Errorf("%v", err)
		return
	}
	h.print.Extractions(res, err)
}

func (h *InputHandler) rank(args string) {
	left, targets := splitColon(args)
	req := engine.RankRequest{Targets: targets, Limit: h.limit}
	if len(left) > 0 {
		req.Pattern = left[0]
	}
	got, err := h.engine.Rank(req)
	if err != nil {
		h.print.Errorf("%v", err)
		return
	}
	h.print.Candidates(got)
}

func (h *InputHandler) synonym(ctx context.Context, args string) {
	fields := utils.SplitArgs(args)
	if len(fields) == 0 {
		h.print.Errorf("usage: syn <word> [pattern]")
		return
	}
	req := engine.SynonymRequest{Query: fields[0], Limit: h.limit, InLexicon: true}
	if len(fields) > 1 {
		req.Pattern = fields[1]
	}
	got, err := h.engine.Synonyms(ctx, req)
	if err != nil {
		h.print.Errorf("%v", err)
		return
	}
	h.print.Scored(got)
}
