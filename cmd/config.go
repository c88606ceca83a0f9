package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/dailytracker/internal/config"
)

// configCmd represents the config command.
var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"cfg"},
	Short:   "Show configuration",
	Long: `Show the effective configuration after merging the config file and
TRACKER_* environment variables.

Examples:
  tracker config
  tracker config path
  TRACKER_STORAGE_BACKEND=badger tracker config`,
	Annotations: map[string]string{annotationNoStore: "true"},
	Args:        cobra.NoArgs,
	RunE:        runConfigShow,
}

// configPathCmd prints the config file location.
var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file path",
	Annotations: map[string]string{annotationNoStore: "true"},
	Args:        cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultPath()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out, err := cfg.Dump()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", configPath(), out)
	return nil
}
