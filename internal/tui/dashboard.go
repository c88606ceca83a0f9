package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/manav03panchal/dailytracker/internal/logging"
	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/output"
	"github.com/manav03panchal/dailytracker/internal/progress"
	"github.com/manav03panchal/dailytracker/internal/tracker"
)

// Source is the part of the tracker the dashboard reads from and writes to.
type Source interface {
	WatchHome(ctx context.Context) <-chan tracker.HomeState
	WatchLogSnapshots(ctx context.Context) <-chan []model.Log
	CheckInStep(ctx context.Context, taskID string) tracker.CheckInResult
	Now() time.Time
}

// tickMsg is sent when the clock ticks.
type tickMsg time.Time

// homeMsg carries a new home state.
type homeMsg tracker.HomeState

// logsMsg carries a new log snapshot.
type logsMsg []model.Log

// checkInMsg reports a finished check-in.
type checkInMsg struct {
	task   model.Task
	result tracker.CheckInResult
}

// closedMsg is sent when a stream ends.
type closedMsg struct{}

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	ctx    context.Context
	source Source
	homeCh <-chan tracker.HomeState
	logsCh <-chan []model.Log

	home   tracker.HomeState
	logs   []model.Log
	cursor int

	width      int
	height     int
	message    string
	messageExp time.Time

	refreshInterval time.Duration
	heatmapDays     int
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Source          Source
	RefreshInterval time.Duration
	HeatmapDays     int
}

// NewDashboardModel creates a dashboard and subscribes to the source. The
// subscriptions end when ctx is cancelled.
func NewDashboardModel(ctx context.Context, config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.HeatmapDays <= 0 {
		config.HeatmapDays = 28
	}

	return &DashboardModel{
		ctx:             ctx,
		source:          config.Source,
		homeCh:          config.Source.WatchHome(ctx),
		logsCh:          config.Source.WatchLogSnapshots(ctx),
		home:            tracker.HomeState{Kind: tracker.HomeLoading},
		refreshInterval: config.RefreshInterval,
		heatmapDays:     config.HeatmapDays,
	}
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		waitHome(m.homeCh),
		waitLogs(m.logsCh),
	)
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && time.Time(msg).After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case homeMsg:
		m.home = tracker.HomeState(msg)
		m.cursor = min(m.cursor, max(len(m.home.Tasks)-1, 0))
		return m, waitHome(m.homeCh)

	case logsMsg:
		m.logs = msg
		return m, waitLogs(m.logsCh)

	case checkInMsg:
		m.setMessage(checkInMessage(msg), 2*time.Second)
		return m, nil

	case closedMsg:
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.home.Tasks)-1 {
			m.cursor++
		}
		return m, nil

	case "enter", " ":
		task, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, m.checkInCmd(task)
	}

	return m, nil
}

// Selected returns the task under the cursor.
func (m *DashboardModel) Selected() (model.Task, bool) {
	if m.home.Kind != tracker.HomeSuccess || m.cursor >= len(m.home.Tasks) {
		return model.Task{}, false
	}
	return m.home.Tasks[m.cursor], true
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	width := m.width
	if width == 0 {
		width = output.DefaultWidth
	}

	sections := []string{m.renderHeader()}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	switch m.home.Kind {
	case tracker.HomeLoading:
		sections = append(sections, StyleSubtitle.Render("Loading..."))
	case tracker.HomeEmpty:
		sections = append(sections, EmptyView(width))
	default:
		now := m.source.Now()
		totals := make(map[string]int, len(m.home.Tasks))
		for _, t := range m.home.Tasks {
			totals[t.ID] = progress.DayTotal(m.logs, t.ID, now)
		}
		tasks := &TasksComponent{Tasks: m.home.Tasks, Totals: totals, Cursor: m.cursor, Width: width}
		sections = append(sections, tasks.View())

		if task, ok := m.Selected(); ok {
			heatmap := &HeatmapComponent{
				Task:  task,
				Cells: progress.Heatmap(task, m.logs, now, m.heatmapDays),
				Width: width,
			}
			sections = append(sections, heatmap.View())
		}
	}

	sections = append(sections, HelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("Daily Tracker")
	now := StyleSubtitle.Render(m.source.Now().Format("Mon Jan 2, 15:04"))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", now) + "\n"
}

// setMessage sets a temporary message.
func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = m.source.Now().Add(duration)
}

func checkInMessage(msg checkInMsg) string {
	switch msg.result {
	case tracker.CheckInInserted:
		return fmt.Sprintf("+%s %s", output.FormatAmount(msg.task.Step, msg.task.Unit), msg.task.Name)
	case tracker.CheckInSkipped:
		return "Check-in already in progress"
	case tracker.CheckInTaskMissing:
		return msg.task.Name + " no longer exists"
	default:
		return "Check-in failed"
	}
}

// checkInCmd records one step for task off the UI goroutine.
func (m *DashboardModel) checkInCmd(task model.Task) tea.Cmd {
	return func() tea.Msg {
		return checkInMsg{task: task, result: m.source.CheckInStep(m.ctx, task.ID)}
	}
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitHome(ch <-chan tracker.HomeState) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return homeMsg(st)
	}
}

func waitLogs(ch <-chan []model.Log) tea.Cmd {
	return func() tea.Msg {
		logs, ok := <-ch
		if !ok {
			return closedMsg{}
		}
		return logsMsg(logs)
	}
}

// Run starts the dashboard TUI and blocks until the user quits.
func Run(ctx context.Context, config DashboardConfig) error {
	ctx, cancel := context.WithCancel(logging.WithOp(ctx, "dashboard"))
	defer cancel()

	p := tea.NewProgram(NewDashboardModel(ctx, config), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
