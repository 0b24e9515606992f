package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/wwhiteqwq/puzzlehunt-tools/pkg/config"
)

func (a *app) configCmd() *cobra.Command {
	var rebuild bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active config, or rewrite the default file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if rebuild {
				path, err := config.RebuildConfigFile()
				if err != nil {
					return fmt.Errorf("failed to rebuild config: %w", err)
				}
				fmt.Fprintf(out, "wrote defaults to %s\n", path)
				return nil
			}
			fmt.Fprintf(out, "# %s\n", config.GetActiveConfigPath(a.cfgPath))
			return toml.NewEncoder(out).Encode(a.cfg)
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "overwrite the default config file with defaults")
	return cmd
}
