package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wwhiteqwq/puzzlehunt-tools/internal/engine"
	"github.com/wwhiteqwq/puzzlehunt-tools/internal/logger"
	"github.com/wwhiteqwq/puzzlehunt-tools/internal/utils"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/config"
)

// dictNames are looked up in the data dirs when no dictionary is configured.
var dictNames = []string{"words.txt", "words.json", ""}

// app carries state resolved by the root command for its subcommands.
type app struct {
	configPath string
	dictPath   string
	format     string
	debug      bool

	cfg     *config.Config
	cfgPath string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "lexsolve",
		Short: "Constrained lexicon search for puzzle solving",
		Long: `lexsolve searches a word list under positional constraints.

It matches wildcard patterns and allowed character sets, finds words within an
edit or Hamming distance, extracts hidden answers from feeder words, ranks
candidates by soft per-position targets and refilters similarity results.`,
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}
	cmd.SetVersionTemplate("lexsolve version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ~/.config/puzzlehunt-tools/config.toml)")
	cmd.PersistentFlags().StringVar(&a.dictPath, "dict", "", "dictionary file or chunk directory")
	cmd.PersistentFlags().StringVar(&a.format, "format", "", "dictionary format: auto, text, json, chunks")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging on stderr")

	cmd.AddCommand(
		a.matchCmd(),
		a.fuzzyCmd(),
		a.hammingCmd(),
		a.substringCmd(),
		a.completeCmd(),
		a.extractCmd(),
		a.rankCmd(),
		a.synonymCmd(),
		a.serveCmd(),
		a.replCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return cmd
}

func (a *app) init(_ *cobra.Command, _ []string) error {
	logger.Setup(a.debug)
	cfg, path, err := config.LoadConfigWithPriority(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.dictPath != "" {
		cfg.Lexicon.Path = a.dictPath
	}
	if a.format != "" {
		cfg.Lexicon.Format = a.format
	}
	a.cfg, a.cfgPath = cfg, path
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(path))
	return nil
}

// resolveDict fills in the dictionary path from the data dirs when unset.
func (a *app) resolveDict() error {
	if a.cfg.Lexicon.Path != "" {
		return nil
	}
	configDir := ""
	if a.cfgPath != "" {
		configDir = filepath.Dir(a.cfgPath)
	}
	var candidates []string
	for _, name := range dictNames {
		dir := configDir
		if name == "" {
			dir = ""
		}
		candidates = append(candidates, utils.DataCandidates("", dir, name)...)
	}
	path, err := utils.FindFileInPaths(candidates)
	if err != nil {
		return fmt.Errorf("no dictionary found, pass --dict or set [lexicon].path: %w", err)
	}
	a.cfg.Lexicon.Path = path
	return nil
}

// engine loads the dictionary, the optional similarity oracle and wires both.
func (a *app) engine() (*engine.Engine, error) {
	if err := a.resolveDict(); err != nil {
		return nil, err
	}
	log.Debugf("Using dictionary at: %s", a.cfg.Lexicon.Path)
	ix, err := engine.LoadIndex(a.cfg.Lexicon)
	if err != nil {
		return nil, err
	}
	oracle, err := engine.NewOracle(a.cfg.Synonym)
	if err != nil {
		log.Warnf("Similarity lookups disabled: %v", err)
	}
	return engine.New(ix, a.cfg, engine.WithOracle(oracle), engine.WithLogger(logger.New("lexsolve")))
}
