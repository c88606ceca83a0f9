// Package sqlstore implements storage.Store on SQLite using the pure Go
// modernc.org/sqlite driver. Importing the package registers the "sqlite"
// backend with storage.Open.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/manav03panchal/dailytracker/internal/logging"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"github.com/manav03panchal/dailytracker/internal/watch"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func init() {
	storage.Register(storage.BackendSQLite, func(ctx context.Context, opts storage.Options) (storage.Store, error) {
		return Open(ctx, opts)
	})
}

// Store is a SQLite-backed storage.Store.
type Store struct {
	db     *sql.DB
	path   string
	notify *watch.Notifier
}

var _ storage.Store = (*Store)(nil)

// DSN builds the connection string for path with foreign keys enforced.
func DSN(path string, inMemory bool) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if inMemory || path == "" || path == storage.MemoryPath {
		return "file::memory:?" + params
	}
	return "file:" + path + "?" + params + "&_pragma=journal_mode(WAL)"
}

// Open opens the database and applies pending migrations.
func Open(ctx context.Context, opts storage.Options) (*Store, error) {
	inMemory := opts.InMemory || opts.Path == "" || opts.Path == storage.MemoryPath

	db, err := sql.Open("sqlite", DSN(opts.Path, inMemory))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// One connection keeps an in-memory database alive for the life of the
	// store and serializes writers on file databases.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	path := opts.Path
	if inMemory {
		path = ""
	}
	logging.DebugLog("storage opened", logging.KeyBackend, storage.BackendSQLite, logging.KeyPath, path)

	return &Store{db: db, path: path, notify: watch.NewNotifier()}, nil
}

// Path returns the database file, or "" for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close stops change notification and closes the database.
func (s *Store) Close() error {
	s.notify.Close()
	return s.db.Close()
}

// WatchTasks streams the ordered task list.
func (s *Store) WatchTasks(ctx context.Context) <-chan []model.Task {
	return watch.Stream(ctx, s.notify, s.ListTasks, storage.TopicTasks)
}

// WatchLogs streams the logs matching q.
func (s *Store) WatchLogs(ctx context.Context, q storage.LogQuery) <-chan []model.Log {
	return watch.Stream(ctx, s.notify, func(ctx context.Context) ([]model.Log, error) {
		return s.ListLogs(ctx, q)
	}, storage.TopicLogs)
}

// exec runs a single write statement and publishes topics on success.
func (s *Store) exec(ctx context.Context, query string, args []any, topics ...watch.Topic) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapErr(err)
	}
	s.notify.Publish(topics...)
	return n, nil
}

// inTx runs fn in a transaction and publishes topics after commit. fn must
// only use tx: the pool holds a single connection.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error, topics ...watch.Topic) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return mapErr(err)
	}
	if err := tx.Commit(); err != nil {
		return mapErr(err)
	}
	s.notify.Publish(topics...)
	return nil
}

// mapErr translates driver errors into storage sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrConflict) ||
		errors.Is(err, storage.ErrForeignKey) {
		return err
	}

	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", storage.ErrForeignKey, err)
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %v", storage.ErrConflict, err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", storage.ErrForeignKey, err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", storage.ErrConflict, err)
	case strings.Contains(msg, "database is closed"):
		return storage.ErrClosed
	}
	return err
}
