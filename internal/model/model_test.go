package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Palette Tests
// =============================================================================

func TestPaletteIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		size  int
		want  int
	}{
		{"zero", 0, 5, 0},
		{"in_range", 3, 5, 3},
		{"wraps", 7, 5, 2},
		{"exact_multiple", 10, 5, 0},
		{"negative", -1, 5, 4},
		{"negative_wraps", -6, 5, 4},
		{"negative_multiple", -10, 5, 0},
		{"empty_palette", 3, 0, 0},
		{"negative_size", 3, -2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PaletteIndex(tt.index, tt.size))
		})
	}
}

func TestPaletteIndexStable(t *testing.T) {
	for i := -50; i <= 50; i++ {
		first := PaletteIndex(i, PaletteSize)
		second := PaletteIndex(i, PaletteSize)
		assert.Equal(t, first, second)
		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, PaletteSize)
	}
}

func TestColorFor(t *testing.T) {
	assert.Equal(t, "orange", ColorFor(0).Name)
	assert.Equal(t, "purple", ColorFor(4).Name)
	assert.Equal(t, "orange", ColorFor(5).Name)
	assert.Equal(t, "purple", ColorFor(-1).Name)
}

func TestNextColorIndex(t *testing.T) {
	assert.Equal(t, 0, NextColorIndex(0, 5))
	assert.Equal(t, 4, NextColorIndex(4, 5))
	assert.Equal(t, 0, NextColorIndex(5, 5))
	assert.Equal(t, 1, NextColorIndex(6, 5))
}

// =============================================================================
// Task / Log Tests
// =============================================================================

func TestNewTask(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	task := NewTask("  Water ", " cups ", 1, 8, 2, now)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Water", task.Name)
	assert.Equal(t, "cups", task.Unit)
	assert.Equal(t, 1, task.Step)
	assert.Equal(t, 8, task.Target)
	assert.Equal(t, 2, task.ColorIndex)
	assert.Equal(t, now.UnixMilli(), task.CreatedAt)
	assert.Equal(t, "green", task.Color().Name)
}

func TestTaskIsDone(t *testing.T) {
	task := &Task{Target: 20}
	assert.False(t, task.IsDone(19))
	assert.True(t, task.IsDone(20))
	assert.True(t, task.IsDone(25))

	zero := &Task{Target: 0}
	assert.False(t, zero.IsDone(100))
}

func TestNewLog(t *testing.T) {
	now := time.Now()
	log := NewLog("task-1", 5, now)

	assert.NotEmpty(t, log.ID)
	assert.Equal(t, "task-1", log.TaskID)
	assert.Equal(t, 5, log.Amount)
	assert.Equal(t, now.UnixMilli(), log.Timestamp)
	assert.Equal(t, now.UnixMilli(), log.Time().UnixMilli())
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

// =============================================================================
// Key / Time Helper Tests
// =============================================================================

func TestKeys(t *testing.T) {
	assert.Equal(t, "task:abc", TaskKey("abc"))
	assert.Equal(t, "log:xyz", LogKey("xyz"))
}

func TestDayRange(t *testing.T) {
	at := time.Date(2026, 10, 14, 15, 4, 5, 0, time.Local)
	start, end := DayRange(at)

	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.Local).UnixMilli(), start)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.Local).UnixMilli(), end)
	assert.True(t, start <= at.UnixMilli() && at.UnixMilli() < end)
}

func TestFormatDateAndTime(t *testing.T) {
	at := time.Date(2026, 1, 2, 7, 5, 0, 0, time.Local)
	assert.Equal(t, "2026-01-02", FormatDate(at.UnixMilli()))
	assert.Equal(t, "07:05", FormatTime(at.UnixMilli()))
}
