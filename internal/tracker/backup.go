package tracker

import (
	"context"

	"github.com/manav03panchal/dailytracker/internal/backup"
	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/logging"
	"github.com/manav03panchal/dailytracker/internal/storage"
)

// Export reads every task and log into a backup document.
func (t *Tracker) Export(ctx context.Context) (*backup.Document, error) {
	tasks, err := t.store.ListTasks(ctx)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("export", "failed to read tasks", err)
	}
	logs, err := t.store.ListLogs(ctx, storage.LogQuery{})
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("export", "failed to read logs", err)
	}
	return &backup.Document{Tasks: tasks, Logs: logs}, nil
}

// ApplyImport replaces all data with doc in a single transaction. doc must
// come from backup.Parse. On failure the existing data is untouched.
func (t *Tracker) ApplyImport(ctx context.Context, doc *backup.Document) error {
	ctx = logging.WithOp(ctx, "import")
	if err := t.store.ReplaceAll(ctx, doc.Tasks, doc.Logs); err != nil {
		if errors.Is(err, storage.ErrForeignKey) || errors.Is(err, storage.ErrConflict) {
			return &errors.UserError{
				Message:    "backup is inconsistent: " + err.Error(),
				Suggestion: errors.GetSuggestion(errors.ErrInvalidBackup),
				Cause:      errors.ErrInvalidBackup,
			}
		}
		return errors.NewSystemErrorWithOp("import", "failed to replace data", err)
	}
	logging.InfoContext(ctx, "backup imported",
		logging.KeyCount, len(doc.Tasks)+len(doc.Logs))
	return nil
}
