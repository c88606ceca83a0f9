package model

import "time"

// Log is a single timestamped check-in against a task.
type Log struct {
	ID        string `json:"id"`
	TaskID    string `json:"taskId"`
	Amount    int    `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// NewLog creates a log with a fresh id stamped at now.
func NewLog(taskID string, amount int, now time.Time) *Log {
	return &Log{
		ID:        NewID(),
		TaskID:    taskID,
		Amount:    amount,
		Timestamp: Millis(now),
	}
}

// Time returns the log timestamp as a local time.
func (l *Log) Time() time.Time {
	return FromMillis(l.Timestamp)
}
