package cmd

import (
	"github.com/spf13/cobra"

	"github.com/manav03panchal/dailytracker/internal/tui"
)

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "tui"},
	Short:   "Open the interactive dashboard",
	Long: `Open a live terminal dashboard of today's progress.

Keyboard Controls:
  up/down, k/j  - Select a task
  enter, space  - Check in one step on the selected task
  q             - Quit`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	return tui.Run(cmd.Context(), tui.DashboardConfig{
		Source:      ctx.Tracker,
		HeatmapDays: ctx.Config.Display.HeatmapDays,
	})
}
