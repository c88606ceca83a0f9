package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/progress"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"github.com/manav03panchal/dailytracker/internal/tracker"
)

// taskCmd represents the task command.
var taskCmd = &cobra.Command{
	Use:     "task [TASK]",
	Aliases: []string{"tasks", "t"},
	Short:   "Manage tasks",
	Long: `List all tasks with today's progress, show one task, or manage tasks.

A task can be referred to by its id, a unique id prefix, or its name.

Examples:
  tracker task
  tracker task push-ups
  tracker task create "Push-ups" --unit reps --step 5 --target 20
  tracker task edit push-ups --target 30
  tracker task delete push-ups`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeTasks,
	RunE:              runTaskList,
}

// Task subcommand flags.
var (
	taskFlagUnit        string
	taskFlagStep        int
	taskFlagTarget      int
	taskFlagDescription string
	taskFlagYes         bool

	taskEditFlagName        string
	taskEditFlagUnit        string
	taskEditFlagStep        int
	taskEditFlagTarget      int
	taskEditFlagDescription string
	taskEditFlagColor       int
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with today's progress",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var taskCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskCreate,
}

var taskShowCmd = &cobra.Command{
	Use:               "show TASK",
	Short:             "Show a task",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTasks,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showTask(cmd, args[0])
	},
}

var taskEditCmd = &cobra.Command{
	Use:               "edit TASK",
	Short:             "Edit a task",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTasks,
	RunE:              runTaskEdit,
}

var taskDeleteCmd = &cobra.Command{
	Use:               "delete TASK",
	Aliases:           []string{"rm"},
	Short:             "Delete a task and all of its check-ins",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeTasks,
	RunE:              runTaskDelete,
}

func init() {
	taskCreateCmd.Flags().StringVarP(&taskFlagUnit, "unit", "u", "", "Unit of measure, e.g. reps or glasses")
	taskCreateCmd.Flags().IntVarP(&taskFlagStep, "step", "s", 1, "Amount added by a default check-in")
	taskCreateCmd.Flags().IntVarP(&taskFlagTarget, "target", "t", 1, "Daily target")
	taskCreateCmd.Flags().StringVarP(&taskFlagDescription, "description", "d", "", "Longer description")

	taskEditCmd.Flags().StringVarP(&taskEditFlagName, "name", "n", "", "Update name")
	taskEditCmd.Flags().StringVarP(&taskEditFlagUnit, "unit", "u", "", "Update unit")
	taskEditCmd.Flags().IntVarP(&taskEditFlagStep, "step", "s", 0, "Update step")
	taskEditCmd.Flags().IntVarP(&taskEditFlagTarget, "target", "t", 0, "Update daily target")
	taskEditCmd.Flags().StringVarP(&taskEditFlagDescription, "description", "d", "", "Update description")
	taskEditCmd.Flags().IntVarP(&taskEditFlagColor, "color", "c", 0,
		fmt.Sprintf("Update palette color index (0-%d)", model.PaletteSize-1))

	taskDeleteCmd.Flags().BoolVarP(&taskFlagYes, "yes", "y", false, "Skip confirmation")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	rootCmd.AddCommand(taskCmd)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return showTask(cmd, args[0])
	}

	tasks, err := ctx.Store.ListTasks(cmd.Context())
	if err != nil {
		return err
	}
	totals, err := todayTotals(cmd.Context(), tasks)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTasks(tasks, totals)
	}
	ctx.CLIFormatter().PrintTasks(tasks, totals)
	return nil
}

func showTask(cmd *cobra.Command, ref string) error {
	task, err := resolveTask(cmd.Context(), ref)
	if err != nil {
		return err
	}
	logs, err := ctx.Tracker.LogsByTask(cmd.Context(), task.ID)
	if err != nil {
		return err
	}
	today := progress.DayTotal(logs, task.ID, ctx.Now())

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTask("ok", *task, today)
	}
	ctx.CLIFormatter().PrintTask(*task, today, progress.Summary(*task, logs))
	return nil
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	task, err := ctx.Tracker.CreateTask(cmd.Context(), tracker.TaskInput{
		Name:        args[0],
		Unit:        taskFlagUnit,
		Step:        taskFlagStep,
		Target:      taskFlagTarget,
		Description: taskFlagDescription,
	})
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTask("created", *task, 0)
	}
	cli := ctx.CLIFormatter()
	cli.Success("Created task " + cli.TaskName(*task))
	cli.Muted(fmt.Sprintf("  id %s  step %d  target %d", task.ID, task.Step, task.Target))
	return nil
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	task, err := resolveTask(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		task.Name = taskEditFlagName
	}
	if flags.Changed("unit") {
		task.Unit = taskEditFlagUnit
	}
	if flags.Changed("step") {
		task.Step = taskEditFlagStep
	}
	if flags.Changed("target") {
		task.Target = taskEditFlagTarget
	}
	if flags.Changed("description") {
		task.Description = taskEditFlagDescription
	}
	if flags.Changed("color") {
		task.ColorIndex = model.PaletteIndex(taskEditFlagColor, model.PaletteSize)
	}

	if err := ctx.Tracker.UpdateTask(cmd.Context(), *task); err != nil {
		return err
	}
	updated, err := ctx.Tracker.GetTask(cmd.Context(), task.ID)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTask("updated", *updated, -1)
	}
	cli := ctx.CLIFormatter()
	cli.Success("Updated task " + cli.TaskName(*updated))
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	task, err := resolveTask(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	logs, err := ctx.Tracker.QueryLogs(cmd.Context(), storage.LogQuery{TaskID: task.ID})
	if err != nil {
		return err
	}

	ok, err := confirm(fmt.Sprintf("Delete %q and its %d check-ins?", task.Name, len(logs)), taskFlagYes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Tracker.DeleteTask(cmd.Context(), *task); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintTask("deleted", *task, -1)
	}
	ctx.CLIFormatter().Success(fmt.Sprintf("Deleted %s and %d check-ins", task.Name, len(logs)))
	return nil
}
