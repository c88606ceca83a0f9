package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/output"
	"github.com/manav03panchal/dailytracker/internal/progress"
	"github.com/manav03panchal/dailytracker/internal/validate"
)

// TasksComponent lists tasks with today's progress.
type TasksComponent struct {
	Tasks  []model.Task
	Totals map[string]int
	Cursor int
	Width  int
}

// maxNameColumn caps the task name column of the list.
const maxNameColumn = 24

func displayName(t model.Task) string {
	return validate.TruncateString(t.Name, maxNameColumn)
}

// View renders the task list.
func (tc *TasksComponent) View() string {
	var content strings.Builder
	content.WriteString(StyleTitle.Render("Today"))
	content.WriteString("\n\n")

	nameWidth := 0
	for _, t := range tc.Tasks {
		nameWidth = max(nameWidth, lipgloss.Width(displayName(t)))
	}
	barWidth := max(tc.Width-nameWidth-32, 10)

	for i, t := range tc.Tasks {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(tc.renderRow(i, t, nameWidth, barWidth))
	}

	return StyleTasksBox.Width(max(tc.Width-4, 20)).Render(content.String())
}

func (tc *TasksComponent) renderRow(i int, t model.Task, nameWidth, barWidth int) string {
	total := tc.Totals[t.ID]
	cursor := "  "
	if i == tc.Cursor {
		cursor = StyleCursor.Render("> ")
	}

	var pct float64
	if t.Target > 0 {
		pct = float64(total) / float64(t.Target) * 100
	}
	label := displayName(t)
	name := TaskStyle(t).Render(label) + strings.Repeat(" ", nameWidth-lipgloss.Width(label))
	row := fmt.Sprintf("%s%s  %s  %s", cursor, name,
		ProgressBar(pct, barWidth, lipgloss.Color(t.Color().Stroke)),
		StyleAmount.Render(output.FormatProgress(total, t.Target, t.Unit)))
	if t.IsDone(total) {
		row += " " + StyleSuccess.Render("✓")
	}
	return row
}

// HeatmapComponent renders the selected task's recent history.
type HeatmapComponent struct {
	Task  model.Task
	Cells []progress.Day
	Width int
}

// View renders the heatmap, one row per week.
func (hc *HeatmapComponent) View() string {
	var content strings.Builder
	content.WriteString(TaskStyle(hc.Task).Render(hc.Task.Name))
	content.WriteString(StyleSubtitle.Render(fmt.Sprintf("  last %d days", len(hc.Cells))))
	content.WriteString("\n")

	color := hc.Task.Color()
	for _, row := range output.HeatmapRows(hc.Cells) {
		cells := make([]string, len(row))
		for i, d := range row {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(output.Blend(color.Stroke, d.Opacity)))
			if d.IsToday {
				style = style.Underline(true)
			}
			cells[i] = style.Render("■")
		}
		content.WriteString("\n")
		content.WriteString(strings.Join(cells, " "))
	}

	return StyleHeatmapBox.Width(max(hc.Width-4, 20)).Render(content.String())
}

// EmptyView renders the empty state.
func EmptyView(width int) string {
	content := StyleSubtitle.Render("No tasks yet.") + "\n\n" +
		StyleSubtitle.Render("Create one with 'tracker task create <name> --step 1 --target 10'")
	return StyleTasksBox.Width(max(width-4, 20)).Render(content)
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "select"},
		{"enter", "check in"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, StyleHelpKey.Render(k.key)+" "+StyleHelpDesc.Render(k.desc))
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
