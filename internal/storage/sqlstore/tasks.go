package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/storage"
)

const taskColumns = `id, name, unit, step, target, description, color_index, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.Name, &t.Unit, &t.Step, &t.Target, &t.Description, &t.ColorIndex, &t.CreatedAt)
	return t, err
}

func taskArgs(t model.Task) []any {
	return []any{t.ID, t.Name, t.Unit, t.Step, t.Target, t.Description, t.ColorIndex, t.CreatedAt}
}

// ListTasks returns every task ordered by creation time.
func (s *Store) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, mapErr(rows.Err())
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (*model.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

// InsertTask stores a new task.
func (s *Store) InsertTask(ctx context.Context, task model.Task) error {
	_, err := s.exec(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		taskArgs(task), storage.TopicTasks)
	return err
}

// UpdateTask replaces an existing task.
func (s *Store) UpdateTask(ctx context.Context, task model.Task) error {
	n, err := s.exec(ctx,
		`UPDATE tasks SET name = ?, unit = ?, step = ?, target = ?, description = ?,
			color_index = ?, created_at = ? WHERE id = ?`,
		[]any{task.Name, task.Unit, task.Step, task.Target, task.Description,
			task.ColorIndex, task.CreatedAt, task.ID},
		storage.TopicTasks)
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteTask removes a task. The foreign key cascades to its logs.
func (s *Store) DeleteTask(ctx context.Context, task model.Task) error {
	_, err := s.exec(ctx, `DELETE FROM tasks WHERE id = ?`, []any{task.ID},
		storage.TopicTasks, storage.TopicLogs)
	return err
}

// ReplaceAll swaps the whole dataset in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, tasks []model.Task, logs []model.Log) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM logs`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
			return err
		}

		insertTask, err := tx.PrepareContext(ctx,
			`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insertTask.Close()
		for _, t := range tasks {
			if _, err := insertTask.ExecContext(ctx, taskArgs(t)...); err != nil {
				return err
			}
		}

		insertLog, err := tx.PrepareContext(ctx,
			`INSERT INTO logs (`+logColumns+`) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insertLog.Close()
		for _, l := range logs {
			if _, err := insertLog.ExecContext(ctx, logArgs(l)...); err != nil {
				return err
			}
		}
		return nil
	}, storage.TopicTasks, storage.TopicLogs)
}
