// Package storage defines the persistent store for tasks and check-in logs
// and provides the Badger backend. The SQLite backend lives in sqlstore and
// registers itself on import.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/watch"
)

const (
	// AppName is the application name used for data directories.
	AppName = "dailytracker"

	// EnvDatabase overrides the configured database location.
	// The value ":memory:" selects an in-memory store.
	EnvDatabase = "TRACKER_DATABASE"

	// MemoryPath is the path value that selects in-memory mode.
	MemoryPath = ":memory:"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Change topics published after every committed write.
const (
	TopicTasks watch.Topic = "tasks"
	TopicLogs  watch.Topic = "logs"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert reuses an existing id.
	ErrConflict = errors.New("record already exists")
	// ErrForeignKey is returned when a log references a task that does not exist.
	ErrForeignKey = errors.New("referenced task does not exist")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store is closed")
)

// Order selects the timestamp direction of log queries.
type Order int

const (
	// OrderDesc returns the most recent logs first.
	OrderDesc Order = iota
	// OrderAsc returns logs in chronological order.
	OrderAsc
)

// LogQuery filters log reads. The zero value selects every log, newest first.
type LogQuery struct {
	// TaskID restricts results to one task. Empty means all tasks.
	TaskID string
	// Start and End bound the timestamp range [Start, End) in epoch millis.
	// A zero bound leaves that side open.
	Start int64
	End   int64
	Order Order
}

// Matches reports whether l satisfies the query filters.
func (q LogQuery) Matches(l *model.Log) bool {
	if q.TaskID != "" && l.TaskID != q.TaskID {
		return false
	}
	if q.Start != 0 && l.Timestamp < q.Start {
		return false
	}
	if q.End != 0 && l.Timestamp >= q.End {
		return false
	}
	return true
}

// Store is the data access contract shared by every backend.
type Store interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	InsertTask(ctx context.Context, task model.Task) error
	UpdateTask(ctx context.Context, task model.Task) error
	DeleteTask(ctx context.Context, task model.Task) error
	WatchTasks(ctx context.Context) <-chan []model.Task

	ListLogs(ctx context.Context, q LogQuery) ([]model.Log, error)
	GetLog(ctx context.Context, id string) (*model.Log, error)
	InsertLog(ctx context.Context, log model.Log) error
	UpdateLog(ctx context.Context, log model.Log) error
	DeleteLog(ctx context.Context, log model.Log) error
	DeleteLogsByTask(ctx context.Context, taskID string) error
	WatchLogs(ctx context.Context, q LogQuery) <-chan []model.Log

	// ReplaceAll deletes every task and log and inserts the given records
	// in one transaction. On error the previous contents are untouched.
	ReplaceAll(ctx context.Context, tasks []model.Task, logs []model.Log) error

	Close() error
}

// Options configures how a store is opened.
type Options struct {
	// Backend is BackendSQLite (default) or BackendBadger.
	Backend string
	// Path is the database location. Empty uses DefaultPath for the backend.
	Path string
	// InMemory forces an ephemeral store regardless of Path.
	InMemory bool
}

// OpenFunc opens a backend.
type OpenFunc func(ctx context.Context, opts Options) (Store, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]OpenFunc{
		BackendBadger: func(_ context.Context, opts Options) (Store, error) {
			return OpenBadger(opts)
		},
	}
)

// Register makes a backend available to Open. It panics on a duplicate name.
func Register(name string, open OpenFunc) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	if _, dup := backends[name]; dup {
		panic("storage: backend registered twice: " + name)
	}
	backends[name] = open
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the configured backend. The TRACKER_DATABASE environment
// variable overrides the path.
func Open(ctx context.Context, opts Options) (Store, error) {
	opts = ApplyEnv(opts)
	if opts.Backend == "" {
		opts.Backend = BackendSQLite
	}

	backendsMu.RLock()
	open, ok := backends[opts.Backend]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown storage backend %q (available: %s)",
			opts.Backend, strings.Join(Backends(), ", "))
	}

	if !opts.InMemory && opts.Path == "" {
		opts.Path = DefaultPath(opts.Backend)
	}
	if !opts.InMemory {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	return open(ctx, opts)
}

// ApplyEnv applies the TRACKER_DATABASE override to opts.
func ApplyEnv(opts Options) Options {
	v := strings.TrimSpace(os.Getenv(EnvDatabase))
	switch v {
	case "":
	case MemoryPath:
		opts.InMemory = true
		opts.Path = ""
	default:
		opts.Path = v
	}
	if opts.Path == MemoryPath {
		opts.InMemory = true
		opts.Path = ""
	}
	return opts
}

// DefaultPath returns the default database location for a backend following
// the XDG base directory layout.
func DefaultPath(backend string) string {
	if backend == BackendBadger {
		return filepath.Join(xdg.DataHome, AppName, "badger")
	}
	return filepath.Join(xdg.DataHome, AppName, "tracker.db")
}

// SortTasks orders tasks by creation time, then id.
func SortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt != tasks[j].CreatedAt {
			return tasks[i].CreatedAt < tasks[j].CreatedAt
		}
		return tasks[i].ID < tasks[j].ID
	})
}

// SortLogs orders logs by timestamp, then id, in the given direction.
func SortLogs(logs []model.Log, order Order) {
	sort.SliceStable(logs, func(i, j int) bool {
		a, b := logs[i], logs[j]
		if a.Timestamp != b.Timestamp {
			if order == OrderAsc {
				return a.Timestamp < b.Timestamp
			}
			return a.Timestamp > b.Timestamp
		}
		if order == OrderAsc {
			return a.ID < b.ID
		}
		return a.ID > b.ID
	})
}
