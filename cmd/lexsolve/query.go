package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wwhiteqwq/puzzlehunt-tools/internal/cli"
	"github.com/wwhiteqwq/puzzlehunt-tools/internal/engine"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/pattern"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/synonym"
)

func (a *app) matchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "match <pattern>",
		Short: "List words matching a wildcard pattern",
		Long: `List words matching a pattern. The wildcard (default ?) stands for any
character and [abc] for one of a set, e.g. c[aeiou]t or ??ing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.search(cmd, pattern.Request{Pattern: args[0]}, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum results (0 uses [search].max_results)")
	return cmd
}

func (a *app) fuzzyCmd() *cobra.Command {
	var limit, distance int
	cmd := &cobra.Command{
		Use:   "fuzzy <word>",
		Short: "List words within an edit distance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.search(cmd, pattern.Request{Pattern: args[0], MaxDistance: &distance}, limit)
		},
	}
	cmd.Flags().IntVarP(&distance, "distance", "d", 1, "maximum edit distance")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum results")
	return cmd
}

func (a *app) substringCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:     "substring <text>",
		Aliases: []string{"sub"},
		Short:   "List words containing text",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.search(cmd, pattern.Request{Pattern: args[0], Substring: true}, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum results")
	return cmd
}

func (a *app) search(cmd *cobra.Command, req pattern.Request, limit int) error {
	e, err := a.engine()
	if err != nil {
		return err
	}
	got, err := e.Search(req, limit)
	if err != nil {
		return err
	}
	cli.NewPrinter(cmd.OutOrStdout(), limit).Matches(got)
	return nil
}

func (a *app) hammingCmd() *cobra.Command {
	var limit, distance int
	cmd := &cobra.Command{
		Use:   "hamming <word>",
		Short: "List same-length words within a number of substitutions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			got, err := e.Hamming(args[0], distance, limit)
			if err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout(), limit).Matches(got)
			return nil
		},
	}
	cmd.Flags().IntVarP(&distance, "distance", "d", 1, "maximum substitutions")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum results")
	return cmd
}

func (a *app) completeCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "complete <prefix>",
		Short: "List words starting with a prefix, highest key first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			got, err := e.Complete(args[0], limit)
			if err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout(), limit).Words(got)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum results (0 uses [cli].default_limit)")
	return cmd
}

func (a *app) extractCmd() *cobra.Command {
	var (
		positions      []string
		shuffleFeeders bool
		shuffleIndices bool
		zeroIndexed    bool
		sortOrder      string
		limit          int
	)
	cmd := &cobra.Command{
		Use:   "extract <feeder>...",
		Short: "Find words spelled by one character from each feeder",
		Long: `Find words spelled by taking one character from each feeder. Feeders are
patterns, so unknown letters may be wildcards. Positions are 1-based unless
--zero-indexed is set; * tries every position of its feeder.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			req := engine.ExtractRequest{
				Feeders:        args,
				Positions:      positions,
				ShuffleFeeders: shuffleFeeders,
				ShuffleIndices: shuffleIndices,
				Sort:           sortOrder,
			}
			if cmd.Flags().Changed("zero-indexed") {
				req.ZeroIndexed = &zeroIndexed
			}
			res, err := e.Extract(cmd.Context(), req)
			if res == nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout(), limit).Extractions(res, err)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&positions, "positions", "p", nil, "one position per feeder, comma separated")
	cmd.Flags().BoolVarP(&shuffleFeeders, "shuffle-feeders", "o", false, "search the reading order of feeders")
	cmd.Flags().BoolVarP(&shuffleIndices, "shuffle-indices", "a", false, "search which feeder uses which position")
	cmd.Flags().BoolVar(&zeroIndexed, "zero-indexed", false, "positions start at 0")
	cmd.Flags().StringVar(&sortOrder, "sort", "", "result order: discovery, word, key")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum results printed")
	_ = cmd.MarkFlagRequired("positions")
	return cmd
}

func (a *app) rankCmd() *cobra.Command {
	var (
		targets []string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "rank [pattern]",
		Short: "Rank words by how many per-position targets they hit",
		Long: `Rank words matching an optional hard pattern by how many soft targets they
satisfy. --targets takes one entry per position; an entry lists the characters
wanted there and an empty entry or the wildcard means no preference.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			req := engine.RankRequest{Targets: targets, Limit: limit}
			if len(args) == 1 {
				req.Pattern = args[0]
			}
			got, err := e.Rank(req)
			if err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout(), limit).Candidates(got)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&targets, "targets", "t", nil, "per-position targets, comma separated")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "maximum results (0 uses [rank].limit)")
	return cmd
}

func (a *app) synonymCmd() *cobra.Command {
	var (
		req   engine.SynonymRequest
		match string
	)
	cmd := &cobra.Command{
		Use:   "synonym <word>",
		Short: "List similar words from the embedding service, filtered locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			req.Query = strings.TrimSpace(args[0])
			req.Pattern = match
			got, err := e.Synonyms(cmd.Context(), req)
			if errors.Is(err, synonym.ErrCollaboratorUnavailable) {
				return errors.Join(err, errors.New("check [synonym].endpoint and [synonym].vectors"))
			}
			if err != nil {
				return err
			}
			cli.NewPrinter(cmd.OutOrStdout(), req.Limit).Scored(got)
			return nil
		},
	}
	cmd.Flags().IntVar(&req.Pool, "pool", 0, "candidates asked from the service (0 uses [synonym].pool_size)")
	cmd.Flags().IntVar(&req.MinLen, "min-len", 0, "minimum length")
	cmd.Flags().IntVar(&req.MaxLen, "max-len", 0, "maximum length")
	cmd.Flags().StringVar(&match, "pattern", "", "pattern results must match")
	cmd.Flags().BoolVar(&req.InLexicon, "in-lexicon", true, "keep only words in the dictionary")
	cmd.Flags().IntVarP(&req.Limit, "limit", "l", 0, "maximum results")
	return cmd
}
