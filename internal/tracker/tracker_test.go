package tracker

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/manav03panchal/dailytracker/internal/backup"
	"github.com/manav03panchal/dailytracker/internal/errors"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"github.com/manav03panchal/dailytracker/internal/storage/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 13, 9, 0, 0, 0, time.Local)

func openStore(t *testing.T) storage.Store {
	t.Helper()
	s, err := sqlstore.Open(context.Background(), storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTracker(t *testing.T, store storage.Store) *Tracker {
	t.Helper()
	tr := New(context.Background(), store, Options{Clock: func() time.Time { return fixedNow }})
	t.Cleanup(tr.Close)
	return tr
}

func createTask(t *testing.T, tr *Tracker, name string) *model.Task {
	t.Helper()
	task, err := tr.CreateTask(context.Background(), TaskInput{Name: name, Unit: "reps", Step: 5, Target: 20})
	require.NoError(t, err)
	return task
}

func logCount(t *testing.T, s storage.Store, taskID string) int {
	t.Helper()
	logs, err := s.ListLogs(context.Background(), storage.LogQuery{TaskID: taskID})
	require.NoError(t, err)
	return len(logs)
}

// blockingStore holds GetTask open until release is closed, keeping a
// check-in in flight.
type blockingStore struct {
	storage.Store
	entered chan string
	release chan struct{}
}

func (b *blockingStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	b.entered <- id
	<-b.release
	return b.Store.GetTask(ctx, id)
}

// gatedStore replaces the task stream with one the test drives.
type gatedStore struct {
	storage.Store
	tasks chan []model.Task
}

func (g *gatedStore) WatchTasks(ctx context.Context) <-chan []model.Task {
	out := make(chan []model.Task)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ts := <-g.tasks:
				select {
				case out <- ts:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// =============================================================================
// Home State Tests
// =============================================================================

func TestHomeStateLatch(t *testing.T) {
	gs := &gatedStore{Store: openStore(t), tasks: make(chan []model.Task)}
	tr := newTracker(t, gs)

	assert.Equal(t, HomeLoading, tr.HomeState().Kind)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tr.WaitLoaded(ctx), context.DeadlineExceeded)

	gs.tasks <- []model.Task{}
	require.NoError(t, tr.WaitLoaded(context.Background()))
	assert.Eventually(t, func() bool { return tr.HomeState().Kind == HomeEmpty }, time.Second, time.Millisecond)

	task := model.Task{ID: "t", Name: "Water", Step: 1, Target: 8}
	gs.tasks <- []model.Task{task}
	assert.Eventually(t, func() bool { return tr.HomeState().Kind == HomeSuccess }, time.Second, time.Millisecond)
	assert.Equal(t, []model.Task{task}, tr.HomeState().Tasks)

	gs.tasks <- []model.Task{}
	assert.Eventually(t, func() bool { return tr.HomeState().Kind == HomeEmpty }, time.Second, time.Millisecond,
		"an empty list after loading is Empty, never Loading")
}

func TestWatchHome(t *testing.T) {
	tr := newTracker(t, openStore(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	home := tr.WatchHome(ctx)

	require.NoError(t, tr.WaitLoaded(ctx))
	createTask(t, tr, "Push-ups")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case st := <-home:
			if st.Kind == HomeSuccess {
				require.Len(t, st.Tasks, 1)
				assert.Equal(t, "Push-ups", st.Tasks[0].Name)
				return
			}
		case <-deadline:
			t.Fatal("home state never reached success")
		}
	}
}

func TestHomeKindString(t *testing.T) {
	assert.Equal(t, "loading", HomeLoading.String())
	assert.Equal(t, "empty", HomeEmpty.String())
	assert.Equal(t, "success", HomeSuccess.String())
	assert.Equal(t, "task missing", CheckInTaskMissing.String())
}

// =============================================================================
// Task Tests
// =============================================================================

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tr := newTracker(t, s)

	task, err := tr.CreateTask(ctx, TaskInput{Name: "  Push-ups ", Unit: "reps", Step: 5, Target: 20, Description: " before work "})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Push-ups", task.Name)
	assert.Equal(t, "before work", task.Description)
	assert.Equal(t, model.Millis(fixedNow), task.CreatedAt)
	assert.Equal(t, 0, task.ColorIndex)

	stored, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, *task, *stored)
}

func TestCreateTaskColorCycles(t *testing.T) {
	tr := newTracker(t, openStore(t))

	var colors []int
	for i := 0; i < model.PaletteSize+2; i++ {
		colors = append(colors, createTask(t, tr, "task").ColorIndex)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 0, 1}, colors)
}

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tr := newTracker(t, s)

	tests := []struct {
		name     string
		in       TaskInput
		sentinel error
	}{
		{"blank_name", TaskInput{Name: "  ", Step: 1, Target: 1}, errors.ErrBlankName},
		{"zero_step", TaskInput{Name: "a", Step: 0, Target: 1}, errors.ErrInvalidStep},
		{"negative_target", TaskInput{Name: "a", Step: 1, Target: -1}, errors.ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.CreateTask(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, errors.IsUserError(err))
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}

	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestUpdateAndGetTask(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, openStore(t))
	task := createTask(t, tr, "Water")

	task.Target = 8
	task.Unit = "glasses"
	task.ColorIndex = -3
	require.NoError(t, tr.UpdateTask(ctx, *task))

	got, err := tr.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Target)
	assert.Equal(t, 0, got.ColorIndex)

	_, err = tr.GetTask(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrTaskNotFound)
	assert.True(t, errors.IsUserError(err))

	err = tr.UpdateTask(ctx, model.Task{ID: "missing", Name: "x", Step: 1, Target: 1})
	assert.ErrorIs(t, err, errors.ErrTaskNotFound)

	task.Step = 0
	assert.ErrorIs(t, tr.UpdateTask(ctx, *task), errors.ErrInvalidStep)
}

func TestDeleteTaskCascades(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tr := newTracker(t, s)

	keep := createTask(t, tr, "keep")
	drop := createTask(t, tr, "drop")
	for i := 0; i < 3; i++ {
		require.Equal(t, CheckInInserted, tr.CheckIn(ctx, keep.ID, 1))
		require.Equal(t, CheckInInserted, tr.CheckIn(ctx, drop.ID, 1))
	}

	require.NoError(t, tr.DeleteTask(ctx, *drop))
	assert.Equal(t, 0, logCount(t, s, drop.ID))
	assert.Equal(t, 3, logCount(t, s, keep.ID))
}

// =============================================================================
// Check-in Tests
// =============================================================================

func TestCheckIn(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tr := newTracker(t, s)
	task := createTask(t, tr, "Push-ups")

	assert.Equal(t, CheckInIgnored, tr.CheckIn(ctx, "", 5))
	assert.Equal(t, CheckInIgnored, tr.CheckIn(ctx, "  ", 5))
	assert.Equal(t, CheckInIgnored, tr.CheckIn(ctx, task.ID, 0))
	assert.Equal(t, CheckInIgnored, tr.CheckIn(ctx, task.ID, -2))
	assert.Equal(t, CheckInTaskMissing, tr.CheckIn(ctx, "ghost", 5))
	assert.Equal(t, 0, logCount(t, s, task.ID))

	assert.Equal(t, CheckInInserted, tr.CheckIn(ctx, task.ID, 5))
	assert.Equal(t, CheckInInserted, tr.CheckInStep(ctx, task.ID))
	assert.Equal(t, CheckInTaskMissing, tr.CheckInStep(ctx, "ghost"))

	logs, err := s.ListLogs(ctx, storage.LogQuery{TaskID: task.ID})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, 5, l.Amount)
		assert.Equal(t, model.Millis(fixedNow), l.Timestamp)
	}
	assert.NotEqual(t, logs[0].ID, logs[1].ID)
	assert.False(t, tr.InFlight(task.ID), "in-flight mark is removed")
}

func TestCheckInClampsAmount(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tr := newTracker(t, s)
	task := createTask(t, tr, "Big")

	require.Equal(t, CheckInInserted, tr.CheckIn(ctx, task.ID, model.MaxAmount+10))
	logs, err := s.ListLogs(ctx, storage.LogQuery{TaskID: task.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.MaxAmount, logs[0].Amount)
}

func TestConcurrentCheckInsSameTask(t *testing.T) {
	ctx := context.Background()
	base := openStore(t)
	bs := &blockingStore{Store: base, entered: make(chan string, 4), release: make(chan struct{})}
	tr := newTracker(t, bs)

	task := model.Task{ID: "t1", Name: "A", Step: 1, Target: 1}
	other := model.Task{ID: "t2", Name: "B", Step: 1, Target: 1}
	require.NoError(t, base.InsertTask(ctx, task))
	require.NoError(t, base.InsertTask(ctx, other))

	results := make(chan CheckInResult, 2)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		results <- tr.CheckIn(ctx, task.ID, 1)
	}()
	assert.Equal(t, task.ID, <-bs.entered)
	assert.True(t, tr.InFlight(task.ID))

	assert.Equal(t, CheckInSkipped, tr.CheckIn(ctx, task.ID, 1), "duplicate is skipped while in flight")

	wg.Add(1)
	go func() {
		defer wg.Done()
		results <- tr.CheckIn(ctx, other.ID, 1)
	}()
	assert.Equal(t, other.ID, <-bs.entered, "a different task is not blocked")

	close(bs.release)
	wg.Wait()
	close(results)
	for r := range results {
		assert.Equal(t, CheckInInserted, r)
	}

	assert.Equal(t, 1, logCount(t, base, task.ID))
	assert.Equal(t, 1, logCount(t, base, other.ID))
	assert.False(t, tr.InFlight(task.ID))
}

func TestCheckInAsync(t *testing.T) {
	s := openStore(t)
	tr := newTracker(t, s)
	a := createTask(t, tr, "A")
	b := createTask(t, tr, "B")

	tr.CheckInAsync(a.ID, 2)
	tr.CheckInAsync(b.ID, 3)
	tr.Wait()

	assert.Equal(t, 1, logCount(t, s, a.ID))
	assert.Equal(t, 1, logCount(t, s, b.ID))

	assert.Eventually(t, func() bool {
		totals := tr.TodayTotals()
		return totals[a.ID] == 2 && totals[b.ID] == 3
	}, 5*time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return len(tr.Logs()) == 2 }, 5*time.Second, 5*time.Millisecond)
}

// =============================================================================
// Log Tests
// =============================================================================

func TestLogEditing(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, openStore(t))
	task := createTask(t, tr, "A")
	require.Equal(t, CheckInInserted, tr.CheckIn(ctx, task.ID, 5))

	logs, err := tr.LogsByTask(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	earlier := fixedNow.Add(-26 * time.Hour)
	moved, err := tr.RetimeLog(ctx, logs[0].ID, earlier)
	require.NoError(t, err)
	assert.Equal(t, model.Millis(earlier), moved.Timestamp)

	_, err = tr.RetimeLog(ctx, "missing", earlier)
	assert.ErrorIs(t, err, errors.ErrLogNotFound)

	bad := *moved
	bad.Amount = 0
	assert.ErrorIs(t, tr.UpdateLog(ctx, bad), errors.ErrInvalidAmount)
	bad = *moved
	bad.TaskID = "ghost"
	assert.ErrorIs(t, tr.UpdateLog(ctx, bad), errors.ErrTaskNotFound)

	dayStart := time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)
	inRange, err := tr.LogsByDateRange(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, inRange, 1)

	require.NoError(t, tr.DeleteLog(ctx, *moved))
	logs, err = tr.LogsByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestWatchLogsByTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr := newTracker(t, openStore(t))
	task := createTask(t, tr, "A")

	stream := tr.WatchLogsByTask(ctx, task.ID)
	assert.Empty(t, <-stream)

	require.Equal(t, CheckInInserted, tr.CheckIn(ctx, task.ID, 5))
	select {
	case logs := <-stream:
		assert.Len(t, logs, 1)
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot after check-in")
	}
}

func TestDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tr := newTracker(t, s)
	a := createTask(t, tr, "A")
	b := createTask(t, tr, "B")
	tr.CheckIn(ctx, a.ID, 1)
	tr.CheckIn(ctx, b.ID, 1)

	n, err := tr.DeleteAllLogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	tasks, err := s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	tr.CheckIn(ctx, a.ID, 1)
	n, err = tr.DeleteAllTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	tasks, err = s.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Equal(t, 0, logCount(t, s, ""))
}

// =============================================================================
// Backup Tests
// =============================================================================

func TestExportClearImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tr := newTracker(t, s)
	a := createTask(t, tr, "A")
	b := createTask(t, tr, "B")
	tr.CheckIn(ctx, a.ID, 3)
	tr.CheckIn(ctx, b.ID, 4)

	doc, err := tr.Export(ctx)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, backup.Encode(&buf, doc))

	_, err = tr.DeleteAllTasks(ctx)
	require.NoError(t, err)

	parsed, err := backup.Parse(strings.NewReader(buf.String()), fixedNow)
	require.NoError(t, err)
	require.NoError(t, tr.ApplyImport(ctx, parsed))

	after, err := tr.Export(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, doc.Tasks, after.Tasks)
	assert.ElementsMatch(t, doc.Logs, after.Logs)
}

func TestImportFailureLeavesDataUntouched(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	tr := newTracker(t, s)
	a := createTask(t, tr, "A")
	tr.CheckIn(ctx, a.ID, 3)
	before, err := tr.Export(ctx)
	require.NoError(t, err)

	for _, input := range []string{
		`{"tasks":[{"id":"x","name":"X","unit":"u","step":1,"target":1}],"logs":[{"id":"l","taskId":"ghost","amount":1,"timestamp":1}]}`,
		`{"tasks":[{"id":"x","name":"X","unit":"u","step":0,"target":1}],"logs":[]}`,
	} {
		_, err := backup.Parse(strings.NewReader(input), fixedNow)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidBackup)
	}

	inconsistent := &backup.Document{
		Tasks: []model.Task{{ID: "x", Name: "X", Step: 1, Target: 1}},
		Logs:  []model.Log{{ID: "l", TaskID: "ghost", Amount: 1, Timestamp: 1}},
	}
	err = tr.ApplyImport(ctx, inconsistent)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidBackup)

	after, err := tr.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
