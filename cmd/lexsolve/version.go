package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
	AppName = "lexsolve"
	gh      = "https://github.com/wwhiteqwq/puzzlehunt-tools"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
				ReportCaller:    false,
				ReportTimestamp: false,
				Prefix:          "",
			})

			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
				Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			logger.SetStyles(styles)

			logger.Print("")
			logger.Print("[ " + AppName + " ] constrained lexicon search")
			logger.Print("", "version", Version)
			logger.Print("")
			logger.Print("use -h or --help to see available options")
			logger.Print("Github Repo", "gh", gh)
			return nil
		},
	}
}
