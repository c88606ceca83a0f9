// Package tracker coordinates the task and log streams into view state and
// performs user writes: creating tasks, checking in, editing, bulk deletes,
// backup export and import.
package tracker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/logging"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/progress"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"github.com/manav03panchal/dailytracker/internal/validate"
	"github.com/manav03panchal/dailytracker/internal/watch"
)

const topicHome watch.Topic = "home"

// Options configures a Tracker.
type Options struct {
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// PaletteSize is the number of task colors. Defaults to model.PaletteSize.
	PaletteSize int
}

// Tracker owns the cached task and log snapshots and the in-flight check-in
// set. It is safe for concurrent use.
type Tracker struct {
	store       storage.Store
	clock       func() time.Time
	paletteSize int
	guard       *KeyedGuard
	notify      *watch.Notifier

	ctx    context.Context
	cancel context.CancelFunc

	// background tracks fire-and-forget check-ins; observers tracks the
	// stream consumers started by New.
	background sync.WaitGroup
	observers  sync.WaitGroup

	mu       sync.RWMutex
	tasks    []model.Task
	logs     []model.Log
	loaded   bool
	loadedCh chan struct{}
}

// New creates a Tracker and starts observing the store. Observation stops
// when ctx is cancelled or Close is called.
func New(ctx context.Context, store storage.Store, opts Options) *Tracker {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.PaletteSize <= 0 {
		opts.PaletteSize = model.PaletteSize
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Tracker{
		store:       store,
		clock:       opts.Clock,
		paletteSize: opts.PaletteSize,
		guard:       NewKeyedGuard(),
		notify:      watch.NewNotifier(),
		ctx:         ctx,
		cancel:      cancel,
		loadedCh:    make(chan struct{}),
	}

	tasks := store.WatchTasks(ctx)
	logs := store.WatchLogs(ctx, storage.LogQuery{})

	t.observers.Add(2)
	go t.observeTasks(tasks)
	go t.observeLogs(logs)

	return t
}

func (t *Tracker) observeTasks(stream <-chan []model.Task) {
	defer t.observers.Done()
	defer logging.RecoverPanic("tracker.observeTasks")

	for tasks := range stream {
		t.mu.Lock()
		t.tasks = tasks
		if !t.loaded {
			t.loaded = true
			close(t.loadedCh)
		}
		t.mu.Unlock()
		t.notify.Publish(topicHome)
	}
}

func (t *Tracker) observeLogs(stream <-chan []model.Log) {
	defer t.observers.Done()
	defer logging.RecoverPanic("tracker.observeLogs")

	for logs := range stream {
		t.mu.Lock()
		t.logs = logs
		t.mu.Unlock()
		t.notify.Publish(storage.TopicLogs)
	}
}

// Tasks returns the latest task snapshot.
func (t *Tracker) Tasks() []model.Task {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]model.Task(nil), t.tasks...)
}

// Logs returns the latest snapshot of every log, newest first.
func (t *Tracker) Logs() []model.Log {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]model.Log(nil), t.logs...)
}

// HomeState derives the home view. It stays Loading until the first task
// snapshot arrives and never returns to Loading afterwards.
func (t *Tracker) HomeState() HomeState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	switch {
	case !t.loaded:
		return HomeState{Kind: HomeLoading}
	case len(t.tasks) == 0:
		return HomeState{Kind: HomeEmpty, Tasks: []model.Task{}}
	default:
		return HomeState{Kind: HomeSuccess, Tasks: append([]model.Task(nil), t.tasks...)}
	}
}

// WatchHome streams the home state, starting with the current value.
func (t *Tracker) WatchHome(ctx context.Context) <-chan HomeState {
	return watch.Stream(ctx, t.notify, func(context.Context) (HomeState, error) {
		return t.HomeState(), nil
	}, topicHome)
}

// WatchLogSnapshots streams the cached all-logs snapshot after every change.
func (t *Tracker) WatchLogSnapshots(ctx context.Context) <-chan []model.Log {
	return watch.Stream(ctx, t.notify, func(context.Context) ([]model.Log, error) {
		return t.Logs(), nil
	}, storage.TopicLogs)
}

// WaitLoaded blocks until the first task snapshot has been observed.
func (t *Tracker) WaitLoaded(ctx context.Context) error {
	select {
	case <-t.loadedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TodayTotals returns each task's total for the current local day from the
// cached logs.
func (t *Tracker) TodayTotals() map[string]int {
	now := t.clock()
	tasks := t.Tasks()
	logs := t.Logs()

	totals := make(map[string]int, len(tasks))
	for _, task := range tasks {
		totals[task.ID] = progress.DayTotal(logs, task.ID, now)
	}
	return totals
}

// Now returns the tracker clock's current time.
func (t *Tracker) Now() time.Time {
	return t.clock()
}

// Close stops observation and waits for background check-ins to finish.
func (t *Tracker) Close() {
	t.background.Wait()
	t.cancel()
	t.observers.Wait()
	t.notify.Close()
}

// TaskInput holds the user-supplied fields of a new task.
type TaskInput struct {
	Name        string
	Unit        string
	Step        int
	Target      int
	Description string
}

// CreateTask validates in and stores a new task. The color cycles through
// the palette by the number of existing tasks.
func (t *Tracker) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	in.Name = validate.SanitizeName(in.Name)
	in.Unit = validate.SanitizeName(in.Unit)
	in.Description = validate.SanitizeDescription(in.Description)

	for _, err := range []error{
		validate.TaskName(in.Name),
		validate.Unit(in.Unit),
		validate.Step(in.Step),
		validate.Target(in.Target),
		validate.Description(in.Description),
	} {
		if err != nil {
			return nil, err
		}
	}

	existing, err := t.store.ListTasks(ctx)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("create task", "failed to count tasks", err)
	}

	task := model.NewTask(in.Name, in.Unit, in.Step, in.Target,
		model.NextColorIndex(len(existing), t.paletteSize), t.clock())
	task.Description = in.Description

	if err := t.store.InsertTask(ctx, *task); err != nil {
		return nil, errors.NewSystemErrorWithOp("create task", "failed to save task", err)
	}
	logging.DebugContext(ctx, "task created", logging.KeyTaskID, task.ID)
	return task, nil
}

// GetTask returns a task or a user error if it does not exist.
func (t *Tracker) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := t.store.GetTask(ctx, id)
	if err != nil {
		return nil, mapStoreErr("get task", id, err)
	}
	return task, nil
}

// UpdateTask replaces a task's fields.
func (t *Tracker) UpdateTask(ctx context.Context, task model.Task) error {
	task.Name = validate.SanitizeName(task.Name)
	task.Unit = validate.SanitizeName(task.Unit)
	task.Description = validate.SanitizeDescription(task.Description)
	if err := validate.Task(task); err != nil {
		return err
	}
	task.ColorIndex = max(task.ColorIndex, 0)

	if err := t.store.UpdateTask(ctx, task); err != nil {
		return mapStoreErr("update task", task.ID, err)
	}
	return nil
}

// DeleteTask removes a task and all of its logs.
func (t *Tracker) DeleteTask(ctx context.Context, task model.Task) error {
	if err := t.store.DeleteTask(ctx, task); err != nil {
		return mapStoreErr("delete task", task.ID, err)
	}
	logging.DebugContext(ctx, "task deleted", logging.KeyTaskID, task.ID)
	return nil
}

// CheckIn records amount against taskID. At most one check-in per task runs
// at a time; a concurrent duplicate is skipped. The amount is clamped to
// [1, model.MaxAmount].
func (t *Tracker) CheckIn(ctx context.Context, taskID string, amount int) CheckInResult {
	ctx = logging.WithOp(ctx, "checkin")
	if strings.TrimSpace(taskID) == "" || amount <= 0 {
		logging.DebugContext(ctx, "check-in ignored", logging.KeyTaskID, taskID, logging.KeyAmount, amount)
		return CheckInIgnored
	}

	release, ok := t.guard.TryAcquire(taskID)
	if !ok {
		logging.DebugContext(ctx, "check-in already in flight", logging.KeyTaskID, taskID)
		return CheckInSkipped
	}
	defer release()

	task, err := t.store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logging.WarnContext(ctx, "check-in for missing task", logging.KeyTaskID, taskID)
			return CheckInTaskMissing
		}
		logging.ErrorContext(ctx, "check-in failed to load task",
			logging.KeyTaskID, taskID, logging.KeyError, err)
		return CheckInFailed
	}

	amount = min(max(amount, 1), model.MaxAmount)
	entry := model.NewLog(task.ID, amount, t.clock())
	if err := t.store.InsertLog(ctx, *entry); err != nil {
		if errors.Is(err, storage.ErrForeignKey) {
			logging.WarnContext(ctx, "task deleted during check-in", logging.KeyTaskID, taskID)
			return CheckInTaskMissing
		}
		logging.ErrorContext(ctx, "check-in failed",
			logging.KeyTaskID, taskID, logging.KeyAmount, amount, logging.KeyError, err)
		return CheckInFailed
	}

	logging.DebugContext(ctx, "checked in",
		logging.KeyTaskID, taskID, logging.KeyLogID, entry.ID, logging.KeyAmount, amount)
	return CheckInInserted
}

// CheckInAsync runs CheckIn in the background. Use Wait to drain pending
// check-ins.
func (t *Tracker) CheckInAsync(taskID string, amount int) {
	t.background.Add(1)
	go func() {
		defer t.background.Done()
		defer logging.RecoverPanic("tracker.CheckInAsync")
		t.CheckIn(t.ctx, taskID, amount)
	}()
}

// CheckInStep checks in the task's own step amount.
func (t *Tracker) CheckInStep(ctx context.Context, taskID string) CheckInResult {
	if strings.TrimSpace(taskID) == "" {
		return CheckInIgnored
	}
	task, err := t.store.GetTask(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return CheckInTaskMissing
		}
		logging.ErrorContext(ctx, "check-in failed to load task",
			logging.KeyTaskID, taskID, logging.KeyError, err)
		return CheckInFailed
	}
	return t.CheckIn(ctx, taskID, task.Step)
}

// Wait blocks until every CheckInAsync call has finished.
func (t *Tracker) Wait() {
	t.background.Wait()
}

// InFlight reports whether a check-in for taskID is running.
func (t *Tracker) InFlight(taskID string) bool {
	return t.guard.Held(taskID)
}
