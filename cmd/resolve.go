package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/parser"
	"github.com/manav03panchal/dailytracker/internal/progress"
	"github.com/manav03panchal/dailytracker/internal/storage"
)

// resolveTask finds a task by id, unique id prefix, or case-insensitive name.
func resolveTask(c context.Context, ref string) (*model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.Invalid(errors.ErrTaskNotFound, "task", ref)
	}

	tasks, err := ctx.Store.ListTasks(c)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("resolve task", "failed to list tasks", err)
	}

	var byPrefix, byName []model.Task
	for _, t := range tasks {
		switch {
		case t.ID == ref:
			return &t, nil
		case strings.HasPrefix(t.ID, ref):
			byPrefix = append(byPrefix, t)
		case strings.EqualFold(t.Name, ref):
			byName = append(byName, t)
		}
	}

	for _, matches := range [][]model.Task{byPrefix, byName} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return &matches[0], nil
		default:
			return nil, ambiguous("task", ref, len(matches))
		}
	}
	return nil, errors.Invalid(errors.ErrTaskNotFound, "task", ref)
}

// resolveLog finds a log by id or unique id prefix.
func resolveLog(c context.Context, ref string) (*model.Log, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.Invalid(errors.ErrLogNotFound, "log", ref)
	}
	if l, err := ctx.Store.GetLog(c, ref); err == nil {
		return l, nil
	}

	logs, err := ctx.Tracker.QueryLogs(c, storage.LogQuery{})
	if err != nil {
		return nil, err
	}
	var matches []model.Log
	for _, l := range logs {
		if strings.HasPrefix(l.ID, ref) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errors.Invalid(errors.ErrLogNotFound, "log", ref)
	case 1:
		return &matches[0], nil
	default:
		return nil, ambiguous("log", ref, len(matches))
	}
}

// timeError converts parser errors into user errors carrying examples.
func timeError(err error) error {
	var perr *parser.TimeParseError
	if errors.As(err, &perr) {
		return perr.ToUserError()
	}
	return err
}

func ambiguous(kind, ref string, n int) error {
	return errors.NewUserErrorWithField(kind, ref,
		fmt.Sprintf("%d %ss match", n, kind),
		"Use more characters of the id")
}

// todayTotals reads today's logs and sums them per task.
func todayTotals(c context.Context, tasks []model.Task) (map[string]int, error) {
	now := ctx.Now()
	start := model.StartOfDay(now)
	logs, err := ctx.Tracker.LogsByDateRange(c, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int, len(tasks))
	for _, t := range tasks {
		totals[t.ID] = progress.DayTotal(logs, t.ID, now)
	}
	return totals, nil
}

// confirm asks a yes/no question on the terminal. Without a terminal it
// refuses unless assumeYes is set.
func confirm(prompt string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.NewUserError(
			"refusing to continue without confirmation",
			"Pass --yes to confirm non-interactively")
	}

	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, nil
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
