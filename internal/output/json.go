package output

import (
	"time"

	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/progress"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// TaskOutput represents a task in JSON output.
type TaskOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Step        int    `json:"step"`
	Target      int    `json:"target"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	CreatedAt   string `json:"created_at"`
	Today       *int   `json:"today,omitempty"`
	Done        *bool  `json:"done,omitempty"`
}

// NewTaskOutput creates a TaskOutput from a Task. today < 0 omits the daily
// progress fields.
func NewTaskOutput(t model.Task, today int) *TaskOutput {
	out := &TaskOutput{
		ID:          t.ID,
		Name:        t.Name,
		Unit:        t.Unit,
		Step:        t.Step,
		Target:      t.Target,
		Description: t.Description,
		Color:       t.Color().Name,
		CreatedAt:   model.FromMillis(t.CreatedAt).Format(time.RFC3339),
	}
	if today >= 0 {
		done := t.IsDone(today)
		out.Today = &today
		out.Done = &done
	}
	return out
}

// LogOutput represents a log in JSON output.
type LogOutput struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	Amount    int    `json:"amount"`
	Timestamp string `json:"timestamp"`
}

// NewLogOutput creates a LogOutput from a Log.
func NewLogOutput(l model.Log) *LogOutput {
	return &LogOutput{
		ID:        l.ID,
		TaskID:    l.TaskID,
		Amount:    l.Amount,
		Timestamp: l.Time().Format(time.RFC3339),
	}
}

// StatusResponse represents the home state in JSON.
type StatusResponse struct {
	Status string        `json:"status"`
	Tasks  []*TaskOutput `json:"tasks"`
}

// TasksResponse represents a task listing in JSON.
type TasksResponse struct {
	Tasks []*TaskOutput `json:"tasks"`
	Count int           `json:"count"`
}

// TaskResponse represents one task in JSON.
type TaskResponse struct {
	Status string      `json:"status"`
	Task   *TaskOutput `json:"task"`
}

// CheckInResponse represents a check-in outcome in JSON.
type CheckInResponse struct {
	Status string      `json:"status"`
	Task   *TaskOutput `json:"task,omitempty"`
	Amount int         `json:"amount"`
}

// LogsResponse represents a log listing in JSON.
type LogsResponse struct {
	Logs  []*LogOutput `json:"logs"`
	Count int          `json:"count"`
	Total int          `json:"total"`
}

// LogResponse represents one log in JSON.
type LogResponse struct {
	Status string     `json:"status"`
	Log    *LogOutput `json:"log"`
}

// DayOutput is one heatmap cell in JSON.
type DayOutput struct {
	Date    string  `json:"date"`
	Amount  int     `json:"amount"`
	Opacity float64 `json:"opacity"`
	Today   bool    `json:"today,omitempty"`
}

// HeatmapResponse represents a heatmap in JSON.
type HeatmapResponse struct {
	Task *TaskOutput  `json:"task"`
	Days []*DayOutput `json:"days"`
}

// PointOutput is one trend sample in JSON.
type PointOutput struct {
	Date   string `json:"date"`
	Label  string `json:"label"`
	Amount int    `json:"amount"`
}

// TrendResponse represents a trend chart in JSON.
type TrendResponse struct {
	Task   *TaskOutput    `json:"task"`
	Points []*PointOutput `json:"points"`
}

// TimelineEntryOutput is one timeline row in JSON.
type TimelineEntryOutput struct {
	Log      *LogOutput `json:"log"`
	TaskName string     `json:"task_name"`
	Unit     string     `json:"unit,omitempty"`
	Time     string     `json:"time"`
}

// TimelineResponse represents a day's timeline in JSON.
type TimelineResponse struct {
	Date    string                 `json:"date"`
	Entries []*TimelineEntryOutput `json:"entries"`
}

// StatsResponse represents task statistics in JSON.
type StatsResponse struct {
	Task       *TaskOutput `json:"task"`
	Total      int         `json:"total"`
	ActiveDays int         `json:"active_days"`
	Step       int         `json:"step"`
}

// ImportResponse represents an import or export outcome in JSON.
type ImportResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Tasks  int    `json:"tasks"`
	Logs   int    `json:"logs"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PrintStatus outputs the home state.
func (j *JSONFormatter) PrintStatus(status string, tasks []model.Task, totals map[string]int) error {
	out := make([]*TaskOutput, len(tasks))
	for i, t := range tasks {
		out[i] = NewTaskOutput(t, totals[t.ID])
	}
	return j.JSON(StatusResponse{Status: status, Tasks: out})
}

// PrintTasks outputs a task listing.
func (j *JSONFormatter) PrintTasks(tasks []model.Task, totals map[string]int) error {
	out := make([]*TaskOutput, len(tasks))
	for i, t := range tasks {
		today := -1
		if totals != nil {
			today = totals[t.ID]
		}
		out[i] = NewTaskOutput(t, today)
	}
	return j.JSON(TasksResponse{Tasks: out, Count: len(out)})
}

// PrintTask outputs one task with a status word.
func (j *JSONFormatter) PrintTask(status string, task model.Task, today int) error {
	return j.JSON(TaskResponse{Status: status, Task: NewTaskOutput(task, today)})
}

// PrintCheckIn outputs a check-in outcome.
func (j *JSONFormatter) PrintCheckIn(status string, task *model.Task, amount, today int) error {
	resp := CheckInResponse{Status: status, Amount: amount}
	if task != nil {
		resp.Task = NewTaskOutput(*task, today)
	}
	return j.JSON(resp)
}

// PrintLogs outputs a log listing.
func (j *JSONFormatter) PrintLogs(logs []model.Log) error {
	out := make([]*LogOutput, len(logs))
	total := 0
	for i, l := range logs {
		out[i] = NewLogOutput(l)
		total += l.Amount
	}
	return j.JSON(LogsResponse{Logs: out, Count: len(out), Total: total})
}

// PrintLog outputs one log with a status word.
func (j *JSONFormatter) PrintLog(status string, l model.Log) error {
	return j.JSON(LogResponse{Status: status, Log: NewLogOutput(l)})
}

// PrintHeatmap outputs heatmap cells.
func (j *JSONFormatter) PrintHeatmap(task model.Task, cells []progress.Day) error {
	days := make([]*DayOutput, len(cells))
	for i, d := range cells {
		days[i] = &DayOutput{
			Date:    d.Date.Format(time.DateOnly),
			Amount:  d.Amount,
			Opacity: d.Opacity,
			Today:   d.IsToday,
		}
	}
	return j.JSON(HeatmapResponse{Task: NewTaskOutput(task, -1), Days: days})
}

// PrintTrend outputs trend samples.
func (j *JSONFormatter) PrintTrend(task model.Task, points []progress.Point) error {
	out := make([]*PointOutput, len(points))
	for i, p := range points {
		out[i] = &PointOutput{Date: p.Date.Format(time.DateOnly), Label: p.Label, Amount: p.Amount}
	}
	return j.JSON(TrendResponse{Task: NewTaskOutput(task, -1), Points: out})
}

// PrintTimeline outputs a day's timeline.
func (j *JSONFormatter) PrintTimeline(day time.Time, entries []progress.Entry) error {
	out := make([]*TimelineEntryOutput, len(entries))
	for i, e := range entries {
		out[i] = &TimelineEntryOutput{
			Log:      NewLogOutput(e.Log),
			TaskName: e.TaskName,
			Unit:     e.Unit,
			Time:     e.Time,
		}
	}
	return j.JSON(TimelineResponse{Date: day.Format(time.DateOnly), Entries: out})
}

// PrintStats outputs task statistics.
func (j *JSONFormatter) PrintStats(task model.Task, stats progress.Stats) error {
	return j.JSON(StatsResponse{
		Task:       NewTaskOutput(task, -1),
		Total:      stats.Total,
		ActiveDays: stats.ActiveDays,
		Step:       stats.Step,
	})
}

// PrintImport outputs an import or export outcome.
func (j *JSONFormatter) PrintImport(status, path string, tasks, logs int) error {
	return j.JSON(ImportResponse{Status: status, Path: path, Tasks: tasks, Logs: logs})
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message string) error {
	return j.JSON(ErrorResponse{Status: status, Error: errMsg, Message: message})
}
