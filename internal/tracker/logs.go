package tracker

import (
	"context"
	"time"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/logging"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"github.com/manav03panchal/dailytracker/internal/validate"
)

// GetLog returns a log or a user error if it does not exist.
func (t *Tracker) GetLog(ctx context.Context, id string) (*model.Log, error) {
	l, err := t.store.GetLog(ctx, id)
	if err != nil {
		return nil, mapLogErr("get log", id, err)
	}
	return l, nil
}

// UpdateLog replaces a log's fields.
func (t *Tracker) UpdateLog(ctx context.Context, l model.Log) error {
	if err := validate.Amount(l.Amount); err != nil {
		return err
	}
	if err := validate.Timestamp(l.Timestamp); err != nil {
		return err
	}
	if err := t.store.UpdateLog(ctx, l); err != nil {
		return mapLogErr("update log", l.ID, err)
	}
	return nil
}

// RetimeLog moves a log to a new timestamp.
func (t *Tracker) RetimeLog(ctx context.Context, logID string, at time.Time) (*model.Log, error) {
	l, err := t.GetLog(ctx, logID)
	if err != nil {
		return nil, err
	}
	l.Timestamp = model.Millis(at)
	if err := t.UpdateLog(ctx, *l); err != nil {
		return nil, err
	}
	logging.DebugContext(ctx, "log retimed", logging.KeyLogID, logID)
	return l, nil
}

// DeleteLog removes a log.
func (t *Tracker) DeleteLog(ctx context.Context, l model.Log) error {
	if err := t.store.DeleteLog(ctx, l); err != nil {
		return mapLogErr("delete log", l.ID, err)
	}
	return nil
}

// DeleteAllTasks deletes every task in the current snapshot one at a time.
// It is not atomic: a failure leaves earlier deletes in place.
func (t *Tracker) DeleteAllTasks(ctx context.Context) (int, error) {
	tasks, err := t.store.ListTasks(ctx)
	if err != nil {
		return 0, errors.NewSystemErrorWithOp("delete all tasks", "failed to list tasks", err)
	}
	for i, task := range tasks {
		if err := t.store.DeleteTask(ctx, task); err != nil {
			return i, mapStoreErr("delete all tasks", task.ID, err)
		}
	}
	logging.InfoContext(ctx, "deleted all tasks", logging.KeyCount, len(tasks))
	return len(tasks), nil
}

// DeleteAllLogs deletes every log in the current snapshot one at a time.
func (t *Tracker) DeleteAllLogs(ctx context.Context) (int, error) {
	logs, err := t.store.ListLogs(ctx, storage.LogQuery{})
	if err != nil {
		return 0, errors.NewSystemErrorWithOp("delete all logs", "failed to list logs", err)
	}
	for i, l := range logs {
		if err := t.store.DeleteLog(ctx, l); err != nil {
			return i, mapLogErr("delete all logs", l.ID, err)
		}
	}
	logging.InfoContext(ctx, "deleted all logs", logging.KeyCount, len(logs))
	return len(logs), nil
}

// LogsByTask returns a task's logs, newest first.
func (t *Tracker) LogsByTask(ctx context.Context, taskID string) ([]model.Log, error) {
	logs, err := t.store.ListLogs(ctx, storage.LogQuery{TaskID: taskID})
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("list logs", "failed to read logs", err)
	}
	return logs, nil
}

// QueryLogs returns the logs matching q.
func (t *Tracker) QueryLogs(ctx context.Context, q storage.LogQuery) ([]model.Log, error) {
	logs, err := t.store.ListLogs(ctx, q)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("list logs", "failed to read logs", err)
	}
	return logs, nil
}

// LogsByDateRange returns logs in [start, end) in chronological order.
func (t *Tracker) LogsByDateRange(ctx context.Context, start, end time.Time) ([]model.Log, error) {
	logs, err := t.store.ListLogs(ctx, rangeQuery(start, end))
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("list logs", "failed to read logs", err)
	}
	return logs, nil
}

// WatchLogsByTask streams a task's logs, newest first.
func (t *Tracker) WatchLogsByTask(ctx context.Context, taskID string) <-chan []model.Log {
	return t.store.WatchLogs(ctx, storage.LogQuery{TaskID: taskID})
}

// WatchLogsByDateRange streams logs in [start, end) in chronological order.
func (t *Tracker) WatchLogsByDateRange(ctx context.Context, start, end time.Time) <-chan []model.Log {
	return t.store.WatchLogs(ctx, rangeQuery(start, end))
}

func rangeQuery(start, end time.Time) storage.LogQuery {
	return storage.LogQuery{Start: model.Millis(start), End: model.Millis(end), Order: storage.OrderAsc}
}

// mapStoreErr converts task store errors into the error taxonomy.
func mapStoreErr(op, id string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &errors.UserError{
			Message:    errors.ErrTaskNotFound.Error(),
			Suggestion: errors.GetSuggestion(errors.ErrTaskNotFound),
			Field:      "task",
			Value:      id,
			Cause:      errors.ErrTaskNotFound,
		}
	case errors.Is(err, storage.ErrConflict):
		return errors.NewUserErrorWithField("task", id, "task id already exists", "")
	default:
		return errors.NewSystemErrorWithOp(op, "storage operation failed", err)
	}
}

// mapLogErr converts log store errors into the error taxonomy.
func mapLogErr(op, id string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return &errors.UserError{
			Message:    errors.ErrLogNotFound.Error(),
			Suggestion: errors.GetSuggestion(errors.ErrLogNotFound),
			Field:      "log",
			Value:      id,
			Cause:      errors.ErrLogNotFound,
		}
	case errors.Is(err, storage.ErrForeignKey):
		return &errors.UserError{
			Message:    errors.ErrTaskNotFound.Error(),
			Suggestion: errors.GetSuggestion(errors.ErrTaskNotFound),
			Field:      "task",
			Cause:      errors.ErrTaskNotFound,
		}
	default:
		return errors.NewSystemErrorWithOp(op, "storage operation failed", err)
	}
}
