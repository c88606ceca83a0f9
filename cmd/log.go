package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/output"
	"github.com/manav03panchal/dailytracker/internal/parser"
	"github.com/manav03panchal/dailytracker/internal/progress"
	"github.com/manav03panchal/dailytracker/internal/storage"
)

// logCmd represents the log command.
var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"logs", "l"},
	Short:   "List and edit check-ins",
	Long: `List check-ins grouped by day, move a check-in to another time, or delete it.

Examples:
  tracker log
  tracker log list --task push-ups --from "last monday"
  tracker log edit 3f2a9c1e --at "yesterday 8pm"
  tracker log edit 3f2a9c1e --amount 10
  tracker log delete 3f2a9c1e`,
	Args: cobra.NoArgs,
	RunE: runLogList,
}

// Log subcommand flags.
var (
	logFlagTask   string
	logFlagFrom   string
	logFlagUntil  string
	logFlagAt     string
	logFlagAmount int
)

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List check-ins, newest first",
	Args:  cobra.NoArgs,
	RunE:  runLogList,
}

var logEditCmd = &cobra.Command{
	Use:   "edit LOG",
	Short: "Change a check-in's time or amount",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogEdit,
}

var logDeleteCmd = &cobra.Command{
	Use:     "delete LOG",
	Aliases: []string{"rm"},
	Short:   "Delete a check-in",
	Args:    cobra.ExactArgs(1),
	RunE:    runLogDelete,
}

func init() {
	for _, c := range []*cobra.Command{logCmd, logListCmd} {
		c.Flags().StringVarP(&logFlagTask, "task", "t", "", "Only show check-ins for this task")
		c.Flags().StringVar(&logFlagFrom, "from", "", "First day to include, e.g. 'last monday'")
		c.Flags().StringVar(&logFlagUntil, "until", "", "Last day to include")
		c.RegisterFlagCompletionFunc("task", completeTaskFlag)
		c.RegisterFlagCompletionFunc("from", completeDays)
		c.RegisterFlagCompletionFunc("until", completeDays)
	}

	logEditCmd.Flags().StringVar(&logFlagAt, "at", "", "New time, e.g. 'yesterday 8pm' or '2 hours ago'")
	logEditCmd.Flags().IntVarP(&logFlagAmount, "amount", "a", 0, "New amount")

	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logEditCmd)
	logCmd.AddCommand(logDeleteCmd)
	rootCmd.AddCommand(logCmd)
}

// logQuery builds the store query from the list flags. --until includes the
// whole named day.
func logQuery(cmd *cobra.Command) (storage.LogQuery, error) {
	var q storage.LogQuery
	now := ctx.Now()

	if logFlagTask != "" {
		task, err := resolveTask(cmd.Context(), logFlagTask)
		if err != nil {
			return q, err
		}
		q.TaskID = task.ID
	}
	if logFlagFrom != "" {
		day, err := parser.ParseDay(logFlagFrom, now)
		if err != nil {
			return q, timeError(err)
		}
		q.Start = model.Millis(day)
	}
	if logFlagUntil != "" {
		day, err := parser.ParseDay(logFlagUntil, now)
		if err != nil {
			return q, timeError(err)
		}
		q.End = model.Millis(day.AddDate(0, 0, 1))
	}
	if q.Start != 0 && q.End != 0 && q.End <= q.Start {
		return q, errors.NewUserError("--until is before --from", "Swap the two dates")
	}
	return q, nil
}

func runLogList(cmd *cobra.Command, args []string) error {
	q, err := logQuery(cmd)
	if err != nil {
		return err
	}
	logs, err := ctx.Tracker.QueryLogs(cmd.Context(), q)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintLogs(logs)
	}

	tasks, err := ctx.Store.ListTasks(cmd.Context())
	if err != nil {
		return err
	}
	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	ctx.CLIFormatter().PrintLogs(progress.GroupByDay(logs), byID)
	return nil
}

func runLogEdit(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("at") && !flags.Changed("amount") {
		return errors.NewUserError("nothing to change", "Pass --at, --amount, or both")
	}

	l, err := resolveLog(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if flags.Changed("at") {
		res := parser.ParseTimestampAt(logFlagAt, ctx.Now())
		if res.Error != nil {
			return timeError(res.Error)
		}
		l.Timestamp = model.Millis(res.Time)
	}
	if flags.Changed("amount") {
		l.Amount = logFlagAmount
	}

	if err := ctx.Tracker.UpdateLog(cmd.Context(), *l); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintLog("updated", *l)
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Check-in %s now %d at %s",
		output.ShortID(l.ID), l.Amount, l.Time().Format(time.DateTime)))
	return nil
}

func runLogDelete(cmd *cobra.Command, args []string) error {
	l, err := resolveLog(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := ctx.Tracker.DeleteLog(cmd.Context(), *l); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintLog("deleted", *l)
	}
	ctx.CLIFormatter().Success("Deleted check-in " + l.ID)
	return nil
}
