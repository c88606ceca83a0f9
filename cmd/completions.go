package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/dailytracker/internal/output"
)

// completeTasks completes task ids, described by task name.
func completeTasks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return taskCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completeTaskFlag completes the --task flag.
func completeTaskFlag(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return taskCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func taskCompletions(cmd *cobra.Command, toComplete string) []string {
	if ctx == nil {
		if err := setup(cmd); err != nil {
			return nil
		}
		defer teardown()
	}

	tasks, err := ctx.Store.ListTasks(cmd.Context())
	if err != nil {
		return nil
	}

	var completions []string
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, toComplete) {
			completions = append(completions, output.ShortID(t.ID)+"\t"+t.Name)
		}
	}
	return completions
}

// completeDays suggests common day expressions.
func completeDays(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	days := []string{
		"today\tthe current day",
		"yesterday\tthe previous day",
		"monday\tlast Monday",
		"last week\tone week ago",
	}

	var filtered []string
	for _, d := range days {
		if strings.HasPrefix(strings.Split(d, "\t")[0], toComplete) {
			filtered = append(filtered, d)
		}
	}
	return filtered, cobra.ShellCompDirectiveNoFileComp
}
