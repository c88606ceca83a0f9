// Package model defines the domain models for the tracker.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// KeyPrefix constants for key-value storage.
const (
	PrefixTask = "task"
	PrefixLog  = "log"
)

// MaxAmount is the largest amount a single log can carry. Backups written by
// the mobile app store amounts as 32-bit integers.
const MaxAmount = 1<<31 - 1

// TaskKey returns the key-value storage key for a task id.
func TaskKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixTask, id)
}

// LogKey returns the key-value storage key for a log id.
func LogKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixLog, id)
}

// NewID generates a new opaque identifier using UUID v7 so ids sort by
// creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Millis converts a time to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts epoch milliseconds to a local time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).Local()
}

// FormatDate formats epoch milliseconds as a local calendar date (2006-01-02).
func FormatDate(ms int64) string {
	return FromMillis(ms).Format(time.DateOnly)
}

// FormatTime formats epoch milliseconds as a local wall clock time (15:04).
func FormatTime(ms int64) string {
	return FromMillis(ms).Format("15:04")
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayRange returns the half-open [start, end) range in milliseconds covering
// the local day that contains t.
func DayRange(t time.Time) (start, end int64) {
	s := StartOfDay(t)
	return Millis(s), Millis(s.AddDate(0, 0, 1))
}
