package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wwhiteqwq/puzzlehunt-tools/internal/cli"
	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/server"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer msgpack requests on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			showStartupInfo(a.cfg.Lexicon.Path, e.Index.Len())
			log.Debug("spawning IPC")
			return server.NewServerIO(e, cmd.InOrStdin(), cmd.OutOrStdout()).Start(cmd.Context())
		},
	}
}

func (a *app) replCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive query prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.CLI.DefaultLimit
			}
			return cli.NewInputHandler(e, limit, cmd.InOrStdin(), cmd.OutOrStdout()).Start(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "results per query")
	return cmd
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dictPath string, words int) {
	l := log.NewWithOptions(os.Stderr, log.Options{Prefix: "lexsolve"})
	l.Info("init: OK", "version", Version, "pid", os.Getpid())
	l.Info("dictionary", "path", dictPath, "words", words)
	l.Info("status: ready")
}
