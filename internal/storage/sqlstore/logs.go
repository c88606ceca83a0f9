package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/storage"
)

const logColumns = `id, task_id, amount, timestamp`

func scanLog(row scanner) (model.Log, error) {
	var l model.Log
	err := row.Scan(&l.ID, &l.TaskID, &l.Amount, &l.Timestamp)
	return l, err
}

func logArgs(l model.Log) []any {
	return []any{l.ID, l.TaskID, l.Amount, l.Timestamp}
}

// buildLogQuery renders q as a SELECT statement and its arguments.
func buildLogQuery(q storage.LogQuery) (string, []any) {
	var (
		where []string
		args  []any
	)
	if q.TaskID != "" {
		where = append(where, "task_id = ?")
		args = append(args, q.TaskID)
	}
	if q.Start != 0 {
		where = append(where, "timestamp >= ?")
		args = append(args, q.Start)
	}
	if q.End != 0 {
		where = append(where, "timestamp < ?")
		args = append(args, q.End)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + logColumns + ` FROM logs`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	if q.Order == storage.OrderAsc {
		b.WriteString(" ORDER BY timestamp ASC, id ASC")
	} else {
		b.WriteString(" ORDER BY timestamp DESC, id DESC")
	}
	return b.String(), args
}

// ListLogs returns the logs matching q in the requested order.
func (s *Store) ListLogs(ctx context.Context, q storage.LogQuery) ([]model.Log, error) {
	query, args := buildLogQuery(q)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	logs := []model.Log{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, mapErr(rows.Err())
}

// GetLog retrieves a log by id.
func (s *Store) GetLog(ctx context.Context, id string) (*model.Log, error) {
	l, err := scanLog(s.db.QueryRowContext(ctx,
		`SELECT `+logColumns+` FROM logs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}

// InsertLog stores a new log. The referenced task must exist.
func (s *Store) InsertLog(ctx context.Context, log model.Log) error {
	_, err := s.exec(ctx,
		`INSERT INTO logs (`+logColumns+`) VALUES (?, ?, ?, ?)`,
		logArgs(log), storage.TopicLogs)
	return err
}

// UpdateLog replaces an existing log.
func (s *Store) UpdateLog(ctx context.Context, log model.Log) error {
	n, err := s.exec(ctx,
		`UPDATE logs SET task_id = ?, amount = ?, timestamp = ? WHERE id = ?`,
		[]any{log.TaskID, log.Amount, log.Timestamp, log.ID},
		storage.TopicLogs)
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteLog removes a log. Deleting a missing log is a no-op.
func (s *Store) DeleteLog(ctx context.Context, log model.Log) error {
	_, err := s.exec(ctx, `DELETE FROM logs WHERE id = ?`, []any{log.ID}, storage.TopicLogs)
	return err
}

// DeleteLogsByTask removes every log for taskID.
func (s *Store) DeleteLogsByTask(ctx context.Context, taskID string) error {
	_, err := s.exec(ctx, `DELETE FROM logs WHERE task_id = ?`, []any{taskID}, storage.TopicLogs)
	return err
}
