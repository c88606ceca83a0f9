package storage

import (
	"context"
	"errors"
	"os"
	"sync"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/manav03panchal/dailytracker/internal/logging"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/watch"
)

// BadgerStore implements Store on a Badger key-value database. Tasks and logs
// are JSON values under "task:<id>" and "log:<id>"; an index key per log
// ("tasklog:<taskID>\x00<logID>") lets a task delete find its logs.
type BadgerStore struct {
	db     *badger.DB
	path   string
	notify *watch.Notifier

	// writeMu serializes read-modify-write transactions so optimistic
	// conflicts cannot occur within one process.
	writeMu sync.Mutex
}

var _ Store = (*BadgerStore)(nil)

// OpenBadger opens or creates a Badger store. An empty path or InMemory
// selects in-memory mode.
func OpenBadger(opts Options) (*BadgerStore, error) {
	var badgerOpts badger.Options

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0o755); err != nil {
			return nil, err
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}

	// Reduce logging noise
	badgerOpts = badgerOpts.WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	path := opts.Path
	if opts.InMemory {
		path = ""
	}
	logging.DebugLog("storage opened", logging.KeyBackend, BackendBadger, logging.KeyPath, path)

	return &BadgerStore{db: db, path: path, notify: watch.NewNotifier()}, nil
}

// Path returns the database directory, or "" for in-memory stores.
func (s *BadgerStore) Path() string {
	return s.path
}

// Badger returns the underlying Badger database for advanced operations.
func (s *BadgerStore) Badger() *badger.DB {
	return s.db
}

// Close stops change notification and closes the database.
func (s *BadgerStore) Close() error {
	s.notify.Close()
	return s.db.Close()
}

// view runs a read-only transaction.
func (s *BadgerStore) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapBadgerErr(s.db.View(fn))
}

// update runs a read-write transaction and publishes topics after it commits.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *badger.Txn) error, topics ...watch.Topic) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	err := s.db.Update(fn)
	s.writeMu.Unlock()

	if err != nil {
		return mapBadgerErr(err)
	}
	s.notify.Publish(topics...)
	return nil
}

func mapBadgerErr(err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrClosed
	}
	return err
}

// WatchTasks streams the ordered task list.
func (s *BadgerStore) WatchTasks(ctx context.Context) <-chan []model.Task {
	return watch.Stream(ctx, s.notify, s.ListTasks, TopicTasks)
}

// WatchLogs streams the logs matching q.
func (s *BadgerStore) WatchLogs(ctx context.Context, q LogQuery) <-chan []model.Log {
	return watch.Stream(ctx, s.notify, func(ctx context.Context) ([]model.Log, error) {
		return s.ListLogs(ctx, q)
	}, TopicLogs)
}
