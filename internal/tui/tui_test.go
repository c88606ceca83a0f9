package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 13, 15, 30, 0, 0, time.Local)

type fakeSource struct {
	home chan tracker.HomeState
	logs chan []model.Log

	mu       sync.Mutex
	checkIns []string
	result   tracker.CheckInResult
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		home:   make(chan tracker.HomeState, 1),
		logs:   make(chan []model.Log, 1),
		result: tracker.CheckInInserted,
	}
}

func (f *fakeSource) WatchHome(context.Context) <-chan tracker.HomeState { return f.home }

func (f *fakeSource) WatchLogSnapshots(context.Context) <-chan []model.Log { return f.logs }

func (f *fakeSource) CheckInStep(_ context.Context, id string) tracker.CheckInResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkIns = append(f.checkIns, id)
	return f.result
}

func (f *fakeSource) Now() time.Time { return fixedNow }

func tasks() []model.Task {
	return []model.Task{
		{ID: "a", Name: "Push-ups", Unit: "reps", Step: 5, Target: 20, ColorIndex: 0},
		{ID: "b", Name: "Water", Unit: "glasses", Step: 1, Target: 8, ColorIndex: 1},
	}
}

func newModel(t *testing.T) (*DashboardModel, *fakeSource) {
	t.Helper()
	src := newFakeSource()
	m := NewDashboardModel(context.Background(), DashboardConfig{Source: src})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, src
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// =============================================================================
// ProgressBar Tests
// =============================================================================

func TestProgressBarWidth(t *testing.T) {
	for _, pct := range []float64{-10, 0, 50, 100, 150} {
		assert.Equal(t, 10, lipgloss.Width(ProgressBar(pct, 10, ColorSuccess)), "pct %v", pct)
	}
}

// =============================================================================
// Component Tests
// =============================================================================

func TestTasksComponentView(t *testing.T) {
	tc := &TasksComponent{
		Tasks:  tasks(),
		Totals: map[string]int{"a": 20, "b": 3},
		Cursor: 1,
		Width:  80,
	}
	view := tc.View()

	assert.Contains(t, view, "Push-ups")
	assert.Contains(t, view, "20/20 reps")
	assert.Contains(t, view, "3/8 glasses")
	assert.Contains(t, view, "✓")
	assert.Contains(t, view, "> ")
}

func TestTasksComponentTruncatesLongNames(t *testing.T) {
	long := model.Task{ID: "c", Name: "Read thirty pages of something hard", Unit: "pages", Step: 10, Target: 30}
	tc := &TasksComponent{Tasks: []model.Task{long}, Totals: map[string]int{}, Width: 100}

	view := tc.View()
	assert.Contains(t, view, "Read thirty pages of ...")
	assert.NotContains(t, view, "something hard")
}

func TestEmptyView(t *testing.T) {
	assert.Contains(t, EmptyView(80), "No tasks yet.")
}

func TestHelpBar(t *testing.T) {
	help := HelpBar()
	assert.Contains(t, help, "enter")
	assert.Contains(t, help, "quit")
}

// =============================================================================
// Dashboard Tests
// =============================================================================

func TestDashboardStartsLoading(t *testing.T) {
	m, _ := newModel(t)
	assert.Contains(t, m.View(), "Loading...")
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestDashboardHomeStates(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(homeMsg{Kind: tracker.HomeEmpty, Tasks: []model.Task{}})
	assert.NotNil(t, cmd, "keeps listening for home states")
	assert.Contains(t, m.View(), "No tasks yet.")

	m.Update(homeMsg{Kind: tracker.HomeSuccess, Tasks: tasks()})
	m.Update(logsMsg{{ID: "l", TaskID: "a", Amount: 10, Timestamp: model.Millis(fixedNow)}})
	view := m.View()
	assert.Contains(t, view, "Push-ups")
	assert.Contains(t, view, "10/20 reps")
	assert.Contains(t, view, "last 28 days")
}

func TestDashboardCursor(t *testing.T) {
	m, _ := newModel(t)
	m.Update(homeMsg{Kind: tracker.HomeSuccess, Tasks: tasks()})

	m.Update(key("up"))
	sel, _ := m.Selected()
	assert.Equal(t, "a", sel.ID)

	m.Update(key("down"))
	m.Update(key("down"))
	sel, _ = m.Selected()
	assert.Equal(t, "b", sel.ID, "cursor stops at the last task")

	m.Update(key("k"))
	sel, _ = m.Selected()
	assert.Equal(t, "a", sel.ID)

	m.Update(key("j"))
	m.Update(homeMsg{Kind: tracker.HomeSuccess, Tasks: tasks()[:1]})
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "a", sel.ID, "cursor is clamped when tasks shrink")
}

func TestDashboardCheckIn(t *testing.T) {
	m, src := newModel(t)
	m.Update(homeMsg{Kind: tracker.HomeSuccess, Tasks: tasks()})
	m.Update(key("j"))

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, []string{"b"}, src.checkIns)

	m.Update(msg)
	assert.Contains(t, m.View(), "+1 glasses Water")

	m.Update(tickMsg(fixedNow.Add(3 * time.Second)))
	assert.NotContains(t, m.View(), "+1 glasses Water", "message expires")
}

func TestDashboardCheckInMessages(t *testing.T) {
	task := tasks()[0]
	assert.Equal(t, "+5 reps Push-ups", checkInMessage(checkInMsg{task, tracker.CheckInInserted}))
	assert.Equal(t, "Check-in already in progress", checkInMessage(checkInMsg{task, tracker.CheckInSkipped}))
	assert.Equal(t, "Push-ups no longer exists", checkInMessage(checkInMsg{task, tracker.CheckInTaskMissing}))
	assert.Equal(t, "Check-in failed", checkInMessage(checkInMsg{task, tracker.CheckInFailed}))
}

func TestDashboardCheckInWithoutTasks(t *testing.T) {
	m, src := newModel(t)
	_, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Empty(t, src.checkIns)
}

func TestDashboardQuit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWaitHomeStreams(t *testing.T) {
	ch := make(chan tracker.HomeState, 1)
	ch <- tracker.HomeState{Kind: tracker.HomeEmpty}
	assert.Equal(t, homeMsg{Kind: tracker.HomeEmpty}, waitHome(ch)())

	close(ch)
	assert.Equal(t, closedMsg{}, waitHome(ch)())
}
