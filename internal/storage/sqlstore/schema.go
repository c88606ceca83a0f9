package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order; PRAGMA user_version records how many
// have run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY NOT NULL,
		name        TEXT NOT NULL,
		unit        TEXT NOT NULL,
		step        INTEGER NOT NULL,
		target      INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		color_index INTEGER NOT NULL DEFAULT 0,
		created_at  INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS logs (
		id        TEXT PRIMARY KEY NOT NULL,
		task_id   TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		amount    INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_logs_task_timestamp ON logs(task_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs(timestamp);`,
}

// SchemaVersion is the version a freshly migrated database reports.
var SchemaVersion = len(migrations)

func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("sqlite schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("sqlite schema version %d is newer than supported version %d", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("sqlite migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("sqlite migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Version reports the applied schema version.
func (s *Store) Version(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version)
	return version, err
}
