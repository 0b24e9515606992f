package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/extract"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/lexicon"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/rank"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/synonym"
)

var (
	wordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// Printer renders query results for a terminal.
type Printer struct {
	out   io.Writer
	limit int
}

// NewPrinter prints at most limit results per list; zero prints all.
func NewPrinter(w io.Writer, limit int) *Printer {
	return &Printer{out: w, limit: limit}
}

func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintln(p.out, errorStyle.Render("error: "+fmt.Sprintf(format, args...)))
}

func (p *Printer) header(n int) bool {
	if n == 0 {
		fmt.Fprintln(p.out, dimStyle.Render("no results"))
		return false
	}
	fmt.Fprintf(p.out, "%d results:\n", n)
	return true
}

func (p *Printer) Words(ws []lexicon.Word) {
	if !p.header(len(ws)) {
		return
	}
	for i, w := range ws {
		fmt.Fprintf(p.out, "%3d. %-32s (key: %s)\n", i+1, wordStyle.Render(w.Text), FormatWithCommas(w.Key))
	}
}

func (p *Printer) Matches(ms []lexicon.Match) {
	if !p.header(len(ms)) {
		return
	}
	for i, m := range ms {
		fmt.Fprintf(p.out, "%3d. %-32s (key: %s, d: %d)\n", i+1, wordStyle.Render(m.Text), FormatWithCommas(m.Key), m.Distance)
	}
}

func (p *Printer) Extractions(res *extract.Result, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintln(p.out, errorStyle.Render("time limit reached, showing partial results"))
	} else if err != nil {
		p.Errorf("%v", err)
	}
	xs := res.Extractions
	if p.limit > 0 && len(xs) > p.limit {
		xs = xs[:p.limit]
	}
	if !p.header(len(res.Extractions)) {
		return
	}
	for i, x := range xs {
		var picks []string
		for _, pk := range x.Picks {
			picks = append(picks, fmt.Sprintf("%d@%d", pk.Feeder+1, pk.Position+1))
		}
		fmt.Fprintf(p.out, "%3d. %-32s %s\n", i+1, wordStyle.Render(x.Word.Text), dimStyle.Render(strings.Join(picks, " ")))
	}
	fmt.Fprintln(p.out, dimStyle.Render(fmt.Sprintf("nodes %s, pruned %s, %v",
		FormatWithCommas(int(res.Stats.Nodes)), FormatWithCommas(int(res.Stats.Pruned)), res.Stats.Duration)))
}

func (p *Printer) Candidates(cs []rank.Candidate) {
	if !p.header(len(cs)) {
		return
	}
	for i, c := range cs {
		fmt.Fprintf(p.out, "%3d. %-32s (score: %d, key: %s)\n", i+1, wordStyle.Render(c.Word.Text), c.Score, FormatWithCommas(c.Word.Key))
	}
}

func (p *Printer) Scored(ss []synonym.Scored) {
	if !p.header(len(ss)) {
		return
	}
	for i, s := range ss {
		fmt.Fprintf(p.out, "%3d. %-32s (%.3f)\n", i+1, wordStyle.Render(s.Word), s.Score)
	}
}

// Index prints the alphabet, word lengths and index sizes.
func (p *Printer) Index(ix *lexicon.Index) {
	stats := ix.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	fmt.Fprintf(p.out, "alphabet: %s (%d distinct runes)\n", ix.Alphabet().Name(), len(ix.Runes()))
	fmt.Fprintf(p.out, "lengths:  %v\n", ix.Lengths())
	for _, k := range keys {
		fmt.Fprintf(p.out, "%-10s %s\n", k+":", FormatWithCommas(stats[k]))
	}
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return sign + str
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return sign + b.String()
}
