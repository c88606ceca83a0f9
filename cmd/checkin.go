package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/tracker"
)

var checkinFlagAmount int

// checkinCmd represents the checkin command.
var checkinCmd = &cobra.Command{
	Use:     "checkin TASK",
	Aliases: []string{"ci", "add", "+"},
	Short:   "Record progress on a task",
	Long: `Record a check-in against a task. Without --amount the task's step is used.

Examples:
  tracker checkin push-ups
  tracker checkin water --amount 2`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTasks,
	RunE:              runCheckin,
}

func init() {
	checkinCmd.Flags().IntVarP(&checkinFlagAmount, "amount", "a", 0, "Amount to record (default: the task's step)")
	rootCmd.AddCommand(checkinCmd)
}

func runCheckin(cmd *cobra.Command, args []string) error {
	task, err := resolveTask(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	amount := task.Step
	if cmd.Flags().Changed("amount") {
		if checkinFlagAmount <= 0 {
			return errors.Invalid(errors.ErrInvalidAmount, "amount", fmt.Sprint(checkinFlagAmount))
		}
		amount = min(checkinFlagAmount, model.MaxAmount)
	}

	result := ctx.Tracker.CheckIn(cmd.Context(), task.ID, amount)
	switch result {
	case tracker.CheckInInserted:
	case tracker.CheckInTaskMissing:
		return errors.Invalid(errors.ErrTaskNotFound, "task", task.ID)
	default:
		return errors.NewSystemErrorWithOp("checkin", "check-in "+result.String(), nil)
	}

	totals, err := todayTotals(cmd.Context(), []model.Task{*task})
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintCheckIn(result.String(), task, amount, totals[task.ID])
	}
	ctx.CLIFormatter().PrintCheckIn(*task, amount, totals[task.ID])
	return nil
}
