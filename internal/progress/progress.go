// Package progress derives daily totals, heatmap cells, trend points and
// statistics from task logs. All functions are pure; day boundaries follow
// the location of the supplied time.
package progress

import (
	"sort"
	"time"

	"github.com/manav03panchal/dailytracker/internal/model"
)

const (
	// DefaultHeatmapDays covers the last six weeks.
	DefaultHeatmapDays = 42
	// DefaultTrendDays covers the last two weeks.
	DefaultTrendDays = 14
	// UnknownTask labels timeline entries whose task no longer exists.
	UnknownTask = "Unknown Task"
)

// Opacity maps a day's amount to a heatmap cell opacity in [0, 1]. An empty
// day is faint, and the cell saturates once the target is reached.
func Opacity(amount, target int) float64 {
	if amount == 0 {
		return 0.1
	}
	if target <= 0 {
		return 0.5
	}
	ratio := min(float64(amount)/float64(target), 1)
	return clamp(0.2+ratio*0.8, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// saturatingSum adds amounts, capping the result at MaxAmount.
func saturatingSum(logs []model.Log, keep func(*model.Log) bool) int {
	var sum int64
	for i := range logs {
		if keep != nil && !keep(&logs[i]) {
			continue
		}
		sum += int64(logs[i].Amount)
		if sum > model.MaxAmount {
			return model.MaxAmount
		}
	}
	return int(sum)
}

// DayTotal sums the amounts logged for taskID on the local day containing day.
func DayTotal(logs []model.Log, taskID string, day time.Time) int {
	start, end := dayBounds(day)
	return saturatingSum(logs, func(l *model.Log) bool {
		return l.TaskID == taskID && l.Timestamp >= start && l.Timestamp < end
	})
}

// IsDone reports whether total reaches the task's daily target.
func IsDone(task model.Task, total int) bool {
	return task.IsDone(total)
}

// Day is one heatmap cell.
type Day struct {
	Date    time.Time
	Amount  int
	Opacity float64
	IsToday bool
}

// Heatmap returns one cell per day for the last days days ending today,
// oldest first. days <= 0 selects DefaultHeatmapDays.
func Heatmap(task model.Task, logs []model.Log, now time.Time, days int) []Day {
	if days <= 0 {
		days = DefaultHeatmapDays
	}
	totals := dailyTotals(logs, now.Location(), func(l *model.Log) bool { return l.TaskID == task.ID })
	today := startOfDay(now)

	cells := make([]Day, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -(days - 1 - i))
		amount := totals[date.UnixMilli()]
		cells[i] = Day{
			Date:    date,
			Amount:  amount,
			Opacity: Opacity(amount, task.Target),
			IsToday: date.Equal(today),
		}
	}
	return cells
}

// Point is one trend chart sample.
type Point struct {
	Date   time.Time
	Label  string
	Amount int
}

// Trend returns daily totals for the last days days ending today, oldest
// first, labelled with the day of month. days <= 0 selects DefaultTrendDays.
func Trend(logs []model.Log, now time.Time, days int) []Point {
	if days <= 0 {
		days = DefaultTrendDays
	}
	totals := dailyTotals(logs, now.Location(), nil)
	today := startOfDay(now)

	points := make([]Point, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, -(days - 1 - i))
		points[i] = Point{Date: date, Label: date.Format("2"), Amount: totals[date.UnixMilli()]}
	}
	return points
}

// Stats summarizes a task's full history.
type Stats struct {
	Total      int
	ActiveDays int
	Step       int
}

// Summary computes all-time statistics for task from its logs.
func Summary(task model.Task, logs []model.Log) Stats {
	keep := func(l *model.Log) bool { return l.TaskID == task.ID }
	days := make(map[string]struct{})
	for i := range logs {
		if keep(&logs[i]) {
			days[model.FormatDate(logs[i].Timestamp)] = struct{}{}
		}
	}
	return Stats{
		Total:      saturatingSum(logs, keep),
		ActiveDays: len(days),
		Step:       task.Step,
	}
}

// DayGroup collects the logs of one local day.
type DayGroup struct {
	Date  string
	Total int
	Logs  []model.Log
}

// GroupByDay groups logs by local date, newest day first. Within a day logs
// are newest first.
func GroupByDay(logs []model.Log) []DayGroup {
	byDate := make(map[string][]model.Log)
	for _, l := range logs {
		date := model.FormatDate(l.Timestamp)
		byDate[date] = append(byDate[date], l)
	}

	groups := make([]DayGroup, 0, len(byDate))
	for date, dayLogs := range byDate {
		sortLogs(dayLogs, false)
		groups = append(groups, DayGroup{
			Date:  date,
			Total: saturatingSum(dayLogs, nil),
			Logs:  dayLogs,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}

// Entry is one timeline row: a log joined with its task.
type Entry struct {
	Log      model.Log
	TaskName string
	Unit     string
	Color    model.TaskColor
	Time     string
}

// Timeline joins logs with their tasks in chronological order. Logs whose
// task is missing are labelled UnknownTask.
func Timeline(tasks []model.Task, logs []model.Log) []Entry {
	byID := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}

	sorted := append([]model.Log(nil), logs...)
	sortLogs(sorted, true)

	entries := make([]Entry, len(sorted))
	for i, l := range sorted {
		e := Entry{Log: l, TaskName: UnknownTask, Color: model.ColorFor(0), Time: model.FormatTime(l.Timestamp)}
		if t, ok := byID[l.TaskID]; ok {
			e.TaskName = t.Name
			e.Unit = t.Unit
			e.Color = t.Color()
		}
		entries[i] = e
	}
	return entries
}

// dailyTotals sums amounts per local day in loc, keyed by the day's start in
// epoch millis.
func dailyTotals(logs []model.Log, loc *time.Location, keep func(*model.Log) bool) map[int64]int {
	totals := make(map[int64]int)
	for i := range logs {
		if keep != nil && !keep(&logs[i]) {
			continue
		}
		day := startOfDay(time.UnixMilli(logs[i].Timestamp).In(loc)).UnixMilli()
		sum := int64(totals[day]) + int64(logs[i].Amount)
		totals[day] = int(min(sum, model.MaxAmount))
	}
	return totals
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayBounds(t time.Time) (int64, int64) {
	start := startOfDay(t)
	return start.UnixMilli(), start.AddDate(0, 0, 1).UnixMilli()
}

func sortLogs(logs []model.Log, asc bool) {
	sort.SliceStable(logs, func(i, j int) bool {
		a, b := logs[i], logs[j]
		if a.Timestamp != b.Timestamp {
			if asc {
				return a.Timestamp < b.Timestamp
			}
			return a.Timestamp > b.Timestamp
		}
		if asc {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
}
