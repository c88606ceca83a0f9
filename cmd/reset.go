package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Reset command flags.
var (
	resetFlagLogsOnly bool
	resetFlagYes      bool
)

// resetCmd deletes all data.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all tasks and check-ins",
	Long: `Delete every task together with its check-ins. With --logs-only the
tasks are kept and only check-ins are removed.

Examples:
  tracker reset --logs-only
  tracker reset --yes`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetFlagLogsOnly, "logs-only", false, "Keep tasks and delete only check-ins")
	resetCmd.Flags().BoolVarP(&resetFlagYes, "yes", "y", false, "Delete without asking")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	what := "all tasks and check-ins"
	if resetFlagLogsOnly {
		what = "all check-ins"
	}
	ok, err := confirm("Delete "+what+"?", resetFlagYes)
	if err != nil {
		return err
	}
	if !ok {
		ctx.CLIFormatter().Muted("Reset cancelled")
		return nil
	}

	var n int
	noun := "tasks"
	if resetFlagLogsOnly {
		noun = "check-ins"
		n, err = ctx.Tracker.DeleteAllLogs(cmd.Context())
	} else {
		n, err = ctx.Tracker.DeleteAllTasks(cmd.Context())
	}
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{"status": "reset", noun: n})
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Deleted %d %s", n, noun))
	return nil
}
