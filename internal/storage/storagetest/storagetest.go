// Package storagetest provides a contract test suite that every storage
// backend must pass.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory opens a fresh, empty store for one test.
type Factory func(t *testing.T) storage.Store

// Task builds a task with deterministic fields.
func Task(id string, createdAt int64) model.Task {
	return model.Task{
		ID:        id,
		Name:      "Task " + id,
		Unit:      "reps",
		Step:      5,
		Target:    20,
		CreatedAt: createdAt,
	}
}

// Log builds a log with deterministic fields.
func Log(id, taskID string, amount int, ts int64) model.Log {
	return model.Log{ID: id, TaskID: taskID, Amount: amount, Timestamp: ts}
}

// Run executes the contract suite against stores produced by open.
func Run(t *testing.T, open Factory) {
	t.Run("tasks", func(t *testing.T) { testTasks(t, open) })
	t.Run("logs", func(t *testing.T) { testLogs(t, open) })
	t.Run("log_queries", func(t *testing.T) { testLogQueries(t, open) })
	t.Run("cascade", func(t *testing.T) { testCascade(t, open) })
	t.Run("replace_all", func(t *testing.T) { testReplaceAll(t, open) })
	t.Run("watch", func(t *testing.T) { testWatch(t, open) })
	t.Run("concurrent_writes", func(t *testing.T) { testConcurrentWrites(t, open) })
}

func testTasks(t *testing.T, open Factory) {
	ctx := context.Background()
	s := open(t)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	b := Task("b", 200)
	a := Task("a", 100)
	c := Task("c", 200)
	c.Description = "evening"
	c.ColorIndex = 3
	for _, task := range []model.Task{b, a, c} {
		require.NoError(t, s.InsertTask(ctx, task))
	}

	err = s.InsertTask(ctx, a)
	assert.ErrorIs(t, err, storage.ErrConflict)

	tasks, err = s.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	assert.Equal(t, c, tasks[2])

	got, err := s.GetTask(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, c, *got)

	_, err = s.GetTask(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	c.Name = "Renamed"
	c.Target = 40
	require.NoError(t, s.UpdateTask(ctx, c))
	got, err = s.GetTask(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, 40, got.Target)

	err = s.UpdateTask(ctx, Task("missing", 1))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.DeleteTask(ctx, b))
	require.NoError(t, s.DeleteTask(ctx, b), "deleting a missing task is a no-op")
	tasks, err = s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func testLogs(t *testing.T, open Factory) {
	ctx := context.Background()
	s := open(t)

	require.NoError(t, s.InsertTask(ctx, Task("t1", 1)))
	require.NoError(t, s.InsertTask(ctx, Task("t2", 2)))

	l := Log("l1", "t1", 5, 1000)
	require.NoError(t, s.InsertLog(ctx, l))
	assert.ErrorIs(t, s.InsertLog(ctx, l), storage.ErrConflict)
	assert.ErrorIs(t, s.InsertLog(ctx, Log("l2", "nope", 5, 1000)), storage.ErrForeignKey)

	got, err := s.GetLog(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, l, *got)

	_, err = s.GetLog(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	l.Timestamp = 2000
	l.Amount = 7
	l.TaskID = "t2"
	require.NoError(t, s.UpdateLog(ctx, l))
	got, err = s.GetLog(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, l, *got)

	byTask, err := s.ListLogs(ctx, storage.LogQuery{TaskID: "t1"})
	require.NoError(t, err)
	assert.Empty(t, byTask, "moved log must leave its old task")
	byTask, err = s.ListLogs(ctx, storage.LogQuery{TaskID: "t2"})
	require.NoError(t, err)
	assert.Len(t, byTask, 1)

	assert.ErrorIs(t, s.UpdateLog(ctx, Log("missing", "t1", 1, 1)), storage.ErrNotFound)
	assert.ErrorIs(t, s.UpdateLog(ctx, Log("l1", "nope", 1, 1)), storage.ErrForeignKey)

	require.NoError(t, s.DeleteLog(ctx, l))
	require.NoError(t, s.DeleteLog(ctx, l), "deleting a missing log is a no-op")
	all, err := s.ListLogs(ctx, storage.LogQuery{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testLogQueries(t *testing.T, open Factory) {
	ctx := context.Background()
	s := open(t)

	require.NoError(t, s.InsertTask(ctx, Task("t1", 1)))
	require.NoError(t, s.InsertTask(ctx, Task("t2", 2)))
	for _, l := range []model.Log{
		Log("a", "t1", 1, 100),
		Log("b", "t1", 1, 300),
		Log("c", "t2", 1, 200),
		Log("d", "t1", 1, 300),
		Log("e", "t2", 1, 400),
	} {
		require.NoError(t, s.InsertLog(ctx, l))
	}

	ids := func(logs []model.Log) []string {
		out := make([]string, len(logs))
		for i, l := range logs {
			out[i] = l.ID
		}
		return out
	}

	all, err := s.ListLogs(ctx, storage.LogQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "d", "b", "c", "a"}, ids(all))

	asc, err := s.ListLogs(ctx, storage.LogQuery{Order: storage.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b", "d", "e"}, ids(asc))

	t1, err := s.ListLogs(ctx, storage.LogQuery{TaskID: "t1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "a"}, ids(t1))

	ranged, err := s.ListLogs(ctx, storage.LogQuery{Start: 200, End: 400, Order: storage.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "d"}, ids(ranged), "range is half-open")

	open1, err := s.ListLogs(ctx, storage.LogQuery{Start: 300})
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "d", "b"}, ids(open1))

	none, err := s.ListLogs(ctx, storage.LogQuery{TaskID: "missing"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testCascade(t *testing.T, open Factory) {
	ctx := context.Background()
	s := open(t)

	keep := Task("keep", 1)
	drop := Task("drop", 2)
	require.NoError(t, s.InsertTask(ctx, keep))
	require.NoError(t, s.InsertTask(ctx, drop))
	for i := 0; i < 5; i++ {
		require.NoError(t, s.InsertLog(ctx, Log(fmt.Sprintf("k%d", i), "keep", 1, int64(i))))
		require.NoError(t, s.InsertLog(ctx, Log(fmt.Sprintf("d%d", i), "drop", 1, int64(i))))
	}

	require.NoError(t, s.DeleteTask(ctx, drop))

	logs, err := s.ListLogs(ctx, storage.LogQuery{})
	require.NoError(t, err)
	assert.Len(t, logs, 5)
	for _, l := range logs {
		assert.Equal(t, "keep", l.TaskID)
	}

	require.NoError(t, s.DeleteLogsByTask(ctx, "keep"))
	logs, err = s.ListLogs(ctx, storage.LogQuery{})
	require.NoError(t, err)
	assert.Empty(t, logs)

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Task{keep}, tasks)
}

func testReplaceAll(t *testing.T, open Factory) {
	ctx := context.Background()
	s := open(t)

	require.NoError(t, s.InsertTask(ctx, Task("old", 1)))
	require.NoError(t, s.InsertLog(ctx, Log("old-log", "old", 1, 1)))

	tasks := []model.Task{Task("n1", 10), Task("n2", 20)}
	logs := []model.Log{Log("x", "n1", 3, 100), Log("y", "n2", 4, 200)}
	require.NoError(t, s.ReplaceAll(ctx, tasks, logs))

	gotTasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, gotTasks)
	gotLogs, err := s.ListLogs(ctx, storage.LogQuery{Order: storage.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, logs, gotLogs)

	err = s.ReplaceAll(ctx, []model.Task{Task("z", 1)}, []model.Log{Log("bad", "ghost", 1, 1)})
	assert.ErrorIs(t, err, storage.ErrForeignKey)

	err = s.ReplaceAll(ctx, []model.Task{Task("z", 1), Task("z", 2)}, nil)
	assert.ErrorIs(t, err, storage.ErrConflict)

	gotTasks, err = s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, gotTasks, "failed replace must leave data untouched")
	gotLogs, err = s.ListLogs(ctx, storage.LogQuery{Order: storage.OrderAsc})
	require.NoError(t, err)
	assert.Equal(t, logs, gotLogs)

	require.NoError(t, s.ReplaceAll(ctx, nil, nil))
	gotTasks, err = s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, gotTasks)
}

func next[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "stream closed early")
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	var zero T
	return zero
}

// eventually reads snapshots until match accepts one.
func eventually[T any](t *testing.T, ch <-chan T, match func(T) bool) T {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			require.True(t, ok, "stream closed early")
			if match(v) {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for matching snapshot")
			var zero T
			return zero
		}
	}
}

func testWatch(t *testing.T, open Factory) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := open(t)

	taskStream := s.WatchTasks(ctx)
	assert.Empty(t, next(t, taskStream))

	require.NoError(t, s.InsertTask(ctx, Task("t1", 1)))
	eventually(t, taskStream, func(ts []model.Task) bool { return len(ts) == 1 })

	logStream := s.WatchLogs(ctx, storage.LogQuery{TaskID: "t1"})
	assert.Empty(t, next(t, logStream))

	require.NoError(t, s.InsertLog(ctx, Log("l1", "t1", 2, 10)))
	eventually(t, logStream, func(ls []model.Log) bool { return len(ls) == 1 })

	require.NoError(t, s.DeleteTask(ctx, Task("t1", 1)))
	eventually(t, logStream, func(ls []model.Log) bool { return len(ls) == 0 })
	eventually(t, taskStream, func(ts []model.Task) bool { return len(ts) == 0 })

	cancel()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-taskStream:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream not closed after cancel")
		}
	}
}

func testConcurrentWrites(t *testing.T, open Factory) {
	ctx := context.Background()
	s := open(t)
	require.NoError(t, s.InsertTask(ctx, Task("t", 1)))

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.InsertLog(ctx, Log(fmt.Sprintf("l%02d", i), "t", 1, int64(i)))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	logs, err := s.ListLogs(ctx, storage.LogQuery{TaskID: "t"})
	require.NoError(t, err)
	assert.Len(t, logs, n)
}
