package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/progress"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#EA580C") // Orange
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#16A34A") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleAmount = lipgloss.NewStyle().
			Bold(true)
)

// ShortIDLength is the number of id characters shown in listings.
const ShortIDLength = 8

// ShortID truncates an id for display.
func ShortID(id string) string {
	if len(id) > ShortIDLength {
		return id[:ShortIDLength]
	}
	return id
}

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) render(style lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return style.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.render(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.render(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.render(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.render(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.render(styleMuted, text))
}

// TaskName formats a task name in its palette color.
func (c *CLIFormatter) TaskName(task model.Task) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(task.Color().Text))
	return c.render(style, task.Name)
}

// Amount formats an amount with its unit.
func (c *CLIFormatter) Amount(amount int, unit string) string {
	return c.render(styleAmount, FormatAmount(amount, unit))
}

// PrintLoading prints the placeholder shown before the first snapshot.
func (c *CLIFormatter) PrintLoading() {
	c.Muted("Loading...")
}

// PrintEmpty prints the empty state.
func (c *CLIFormatter) PrintEmpty() {
	c.Muted("No tasks yet.")
	c.Muted("Use 'tracker task create <name> --step 1 --target 10' to add one.")
}

// PrintTasks prints tasks with today's progress.
func (c *CLIFormatter) PrintTasks(tasks []model.Task, totals map[string]int) {
	if len(tasks) == 0 {
		c.PrintEmpty()
		return
	}

	rows := make([]TableRow, 0, len(tasks))
	for _, t := range tasks {
		total := totals[t.ID]
		var pct float64
		if t.Target > 0 {
			pct = float64(total) / float64(t.Target) * 100
		}
		done := ""
		if t.IsDone(total) {
			done = "✓"
		}
		rows = append(rows, TableRow{Columns: []string{
			ShortID(t.ID),
			t.Name,
			ProgressBar(pct, 10),
			FormatProgress(total, t.Target, t.Unit),
			fmt.Sprintf("+%d", t.Step),
			done,
		}})
	}
	c.PrintTable([]string{"ID", "TASK", "TODAY", "", "STEP", ""}, rows)
}

// PrintTask prints one task's details.
func (c *CLIFormatter) PrintTask(task model.Task, today int, stats progress.Stats) {
	c.Println(c.TaskName(task))
	if task.Description != "" {
		c.Muted("  " + task.Description)
	}
	c.Printf("  ID:       %s\n", task.ID)
	c.Printf("  Step:     %s\n", FormatAmount(task.Step, task.Unit))
	c.Printf("  Target:   %s per day\n", FormatAmount(task.Target, task.Unit))
	c.Printf("  Today:    %s\n", c.Amount(today, task.Unit))
	c.Printf("  Total:    %s over %d days\n", FormatAmount(stats.Total, task.Unit), stats.ActiveDays)
	c.Printf("  Created:  %s\n", model.FromMillis(task.CreatedAt).Format(time.DateTime))
}

// PrintStats prints a task's all-time statistics.
func (c *CLIFormatter) PrintStats(task model.Task, stats progress.Stats) {
	c.Title(task.Name)
	c.Printf("  Total:        %s\n", c.Amount(stats.Total, task.Unit))
	c.Printf("  Active days:  %d\n", stats.ActiveDays)
	c.Printf("  Step:         %s\n", FormatAmount(stats.Step, task.Unit))
	if stats.ActiveDays > 0 {
		c.Printf("  Daily avg:    %.1f %s\n", float64(stats.Total)/float64(stats.ActiveDays), task.Unit)
	}
}

// PrintCheckIn prints the outcome of a check-in.
func (c *CLIFormatter) PrintCheckIn(task model.Task, amount, today int) {
	c.Success(fmt.Sprintf("Checked in %s on %s", FormatAmount(amount, task.Unit), task.Name))
	c.Printf("  Today: %s\n", FormatProgress(today, task.Target, task.Unit))
	if task.IsDone(today) {
		c.Println(c.render(styleSuccess, "  Daily target reached"))
	}
}

// PrintLogs prints logs grouped by day, newest day first.
func (c *CLIFormatter) PrintLogs(groups []progress.DayGroup, tasks map[string]model.Task) {
	if len(groups) == 0 {
		c.Muted("No check-ins found.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			c.Println()
		}
		c.Println(c.render(styleBold, g.Date))
		for _, l := range g.Logs {
			name, unit := progress.UnknownTask, ""
			if t, ok := tasks[l.TaskID]; ok {
				name, unit = c.TaskName(t), t.Unit
			}
			c.Printf("  %s  %s  %s  %s\n",
				c.render(styleMuted, ShortID(l.ID)),
				model.FormatTime(l.Timestamp),
				name,
				c.Amount(l.Amount, unit))
		}
	}
}

// PrintHeatmap prints a task's daily heatmap, one row per week.
func (c *CLIFormatter) PrintHeatmap(task model.Task, cells []progress.Day) {
	c.Println(c.TaskName(task))
	if len(cells) == 0 {
		return
	}
	colored := c.IsColorEnabled()
	color := task.Color()
	for _, row := range HeatmapRows(cells) {
		var sb strings.Builder
		sb.WriteString(c.render(styleMuted, row[0].Date.Format("Jan 02")))
		sb.WriteString("  ")
		for _, d := range row {
			sb.WriteString(renderCell(d, color, colored))
			sb.WriteString(" ")
		}
		c.Println(strings.TrimRight(sb.String(), " "))
	}
	c.Muted(fmt.Sprintf("%s %s  target %s per day",
		cellEmpty, cellFilled, FormatAmount(task.Target, task.Unit)))
}

// PrintTrend prints daily totals as horizontal bars sized to the terminal.
func (c *CLIFormatter) PrintTrend(task model.Task, points []progress.Point) {
	c.Println(c.TaskName(task))
	top := peak(points)
	width := max(c.Width()-24, 10)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(task.Color().Stroke))
	for _, p := range points {
		c.Printf("  %s %-3s %s %d\n",
			c.render(styleMuted, p.Date.Format("Mon")),
			p.Label,
			c.render(style, Bar(p.Amount, top, width)),
			p.Amount)
	}
}

// PrintTimeline prints one day's check-ins in chronological order.
func (c *CLIFormatter) PrintTimeline(day time.Time, entries []progress.Entry) {
	c.Title(day.Format("Monday, January 2 2006"))
	if len(entries) == 0 {
		c.Muted("No check-ins on this day.")
		return
	}
	for _, e := range entries {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color.Text))
		c.Printf("  %s  %s %s  %s\n",
			e.Time,
			c.render(style, "●"),
			c.render(style, e.TaskName),
			c.Amount(e.Log.Amount, e.Unit))
	}
}

// ProgressBar creates a simple progress bar.
func ProgressBar(percentage float64, width int) string {
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	filled := int(float64(width) * percentage / 100)
	empty := width - filled

	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// TableRow is one row of PrintTable.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && lipgloss.Width(col) > widths[i] {
				widths[i] = lipgloss.Width(col)
			}
		}
	}

	pad := func(s string, w int) string {
		return s + strings.Repeat(" ", max(w-lipgloss.Width(s), 0)) + "  "
	}

	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(pad(h, widths[i]))
	}
	c.Println(c.render(styleBold, strings.TrimRight(headerLine.String(), " ")))

	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(pad(col, widths[i]))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}
