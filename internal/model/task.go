package model

import (
	"strings"
	"time"
)

// Task is a user-defined habit with a unit, an increment step and a daily target.
type Task struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Step        int    `json:"step"`
	Target      int    `json:"target"`
	Description string `json:"description"`
	ColorIndex  int    `json:"colorIndex"`
	CreatedAt   int64  `json:"createdAt"`
}

// NewTask creates a task with a fresh id and the current creation time.
func NewTask(name, unit string, step, target, colorIndex int, now time.Time) *Task {
	return &Task{
		ID:         NewID(),
		Name:       strings.TrimSpace(name),
		Unit:       strings.TrimSpace(unit),
		Step:       step,
		Target:     target,
		ColorIndex: colorIndex,
		CreatedAt:  Millis(now),
	}
}

// Color returns the palette entry assigned to the task.
func (t *Task) Color() TaskColor {
	return ColorFor(t.ColorIndex)
}

// IsDone reports whether total reaches the task's daily target.
func (t *Task) IsDone(total int) bool {
	return t.Target > 0 && total >= t.Target
}
