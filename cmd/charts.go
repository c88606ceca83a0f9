package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/dailytracker/internal/config"
	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/parser"
	"github.com/manav03panchal/dailytracker/internal/progress"
)

// Chart command flags.
var (
	chartFlagDays int
	timelineFlag  string
)

// heatmapCmd shows a task's daily heatmap.
var heatmapCmd = &cobra.Command{
	Use:     "heatmap TASK",
	Aliases: []string{"hm"},
	Short:   "Show a task's daily heatmap",
	Long: `Show one cell per day, shaded by how close the day's total came to the
task's daily target.

Examples:
  tracker heatmap push-ups
  tracker heatmap push-ups --days 90`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTasks,
	RunE:              runHeatmap,
}

// trendCmd shows a task's daily totals as a bar chart.
var trendCmd = &cobra.Command{
	Use:               "trend TASK",
	Short:             "Show a task's daily totals",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTasks,
	RunE:              runTrend,
}

// timelineCmd shows one day's check-ins across all tasks.
var timelineCmd = &cobra.Command{
	Use:     "timeline",
	Aliases: []string{"today", "day"},
	Short:   "Show a day's check-ins in order",
	Long: `Show every check-in of one day across all tasks in chronological order.

Examples:
  tracker timeline
  tracker timeline --date yesterday
  tracker timeline --date 2024-03-01`,
	Args: cobra.NoArgs,
	RunE: runTimeline,
}

// statsCmd shows a task's all-time statistics.
var statsCmd = &cobra.Command{
	Use:               "stats TASK",
	Aliases:           []string{"stat", "s"},
	Short:             "Show a task's all-time statistics",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTasks,
	RunE:              runStats,
}

func init() {
	heatmapCmd.Flags().IntVarP(&chartFlagDays, "days", "d", 0, "Number of days (default from config)")
	trendCmd.Flags().IntVarP(&chartFlagDays, "days", "d", 0, "Number of days (default from config)")
	timelineCmd.Flags().StringVar(&timelineFlag, "date", "today", "Day to show")
	timelineCmd.RegisterFlagCompletionFunc("date", completeDays)

	rootCmd.AddCommand(heatmapCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(statsCmd)
}

// chartDays returns --days or the configured default.
func chartDays(cmd *cobra.Command, fallback int) (int, error) {
	if !cmd.Flags().Changed("days") {
		return fallback, nil
	}
	if chartFlagDays < 1 || chartFlagDays > config.MaxDays {
		return 0, errors.NewUserErrorWithField("days", fmt.Sprint(chartFlagDays),
			"Day count out of range",
			fmt.Sprintf("Use a value between 1 and %d", config.MaxDays))
	}
	return chartFlagDays, nil
}

// taskAndLogs resolves a task and loads its logs.
func taskAndLogs(cmd *cobra.Command, ref string) (*model.Task, []model.Log, error) {
	task, err := resolveTask(cmd.Context(), ref)
	if err != nil {
		return nil, nil, err
	}
	logs, err := ctx.Tracker.LogsByTask(cmd.Context(), task.ID)
	if err != nil {
		return nil, nil, err
	}
	return task, logs, nil
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	days, err := chartDays(cmd, ctx.Config.Display.HeatmapDays)
	if err != nil {
		return err
	}
	task, logs, err := taskAndLogs(cmd, args[0])
	if err != nil {
		return err
	}

	cells := progress.Heatmap(*task, logs, ctx.Now(), days)
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintHeatmap(*task, cells)
	}
	ctx.CLIFormatter().PrintHeatmap(*task, cells)
	return nil
}

func runTrend(cmd *cobra.Command, args []string) error {
	days, err := chartDays(cmd, ctx.Config.Display.TrendDays)
	if err != nil {
		return err
	}
	task, logs, err := taskAndLogs(cmd, args[0])
	if err != nil {
		return err
	}

	points := progress.Trend(logs, ctx.Now(), days)
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTrend(*task, points)
	}
	ctx.CLIFormatter().PrintTrend(*task, points)
	return nil
}

func runTimeline(cmd *cobra.Command, args []string) error {
	day, err := parser.ParseDay(timelineFlag, ctx.Now())
	if err != nil {
		return timeError(err)
	}

	logs, err := ctx.Tracker.LogsByDateRange(cmd.Context(), day, day.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	tasks, err := ctx.Store.ListTasks(cmd.Context())
	if err != nil {
		return err
	}

	entries := progress.Timeline(tasks, logs)
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTimeline(day, entries)
	}
	ctx.CLIFormatter().PrintTimeline(day, entries)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	task, logs, err := taskAndLogs(cmd, args[0])
	if err != nil {
		return err
	}

	stats := progress.Summary(*task, logs)
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintStats(*task, stats)
	}
	ctx.CLIFormatter().PrintStats(*task, stats)
	return nil
}
