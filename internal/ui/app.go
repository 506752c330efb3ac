package ui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/opsim/internal/config"
	"github.com/simonbystrom/opsim/internal/engine"
	"github.com/simonbystrom/opsim/internal/generate"
	"github.com/simonbystrom/opsim/internal/scheduler"
)

type view int

const (
	viewDashboard view = iota
	viewChat
)

// Source is where the UI reads snapshots from.
type Source interface {
	Snapshot() engine.Snapshot
}

// Controller pauses and resumes the tick loop.
type Controller interface {
	Start(ctx context.Context) error
	Stop() error
	State() scheduler.State
}

type schedulerStateMsg struct {
	state scheduler.State
	err   error
}

type AppModel struct {
	ctx        context.Context
	src        Source
	sched      Controller
	gen        generate.Generator
	genTimeout time.Duration
	activeView view
	// toggling is set while a pause/resume command is in flight.
	toggling bool

	// prompts holds system prompts authored in this session, by agent ID.
	// They are presentation state and never flow back into the engine.
	prompts map[string]string

	dashboard dashboardModel
	chat      chatModel
	styles    Styles

	width  int
	height int
}

func NewApp(ctx context.Context, cfg config.Config, src Source, sched Controller, gen generate.Generator) AppModel {
	s := NewStyles(cfg.Colors)
	return AppModel{
		ctx:        ctx,
		src:        src,
		sched:      sched,
		gen:        gen,
		genTimeout: cfg.Generation.Timeout.Duration,
		activeView: viewDashboard,
		prompts:    make(map[string]string),
		dashboard:  newDashboard(s, cfg.Colors.Processing),
		styles:     s,
	}
}

func (m AppModel) Init() tea.Cmd {
	src := m.src
	return func() tea.Msg {
		return SnapshotMsg(src.Snapshot())
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dashboard.width = msg.Width
		m.dashboard.height = msg.Height
		m.chat.width = msg.Width
		return m, nil

	case SnapshotMsg:
		// Always forward so the dashboard stays current behind the chat.
		m.dashboard, _ = m.dashboard.Update(msg)
		return m, nil

	case schedulerStateMsg:
		m.toggling = false
		m.dashboard, _ = m.dashboard.Update(msg)
		return m, nil

	case SchedulerHaltedMsg:
		m.dashboard, _ = m.dashboard.Update(msg)
		return m, nil

	case chatReplyMsg:
		if m.activeView == viewChat {
			m.chat, _ = m.chat.Update(msg)
		}
		return m, nil

	case promptAuthoredMsg:
		m.prompts[msg.agentID] = msg.prompt
		if m.activeView == viewChat {
			m.chat, _ = m.chat.Update(msg)
		}
		return m, nil

	case chatCloseMsg:
		m.activeView = viewDashboard
		return m, nil
	}

	switch m.activeView {
	case viewChat:
		return m.updateChat(msg)
	default:
		return m.updateDashboard(msg)
	}
}

func (m AppModel) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.toggling {
				return m, nil
			}
			m.toggling = true
			return m, m.toggleCmd()
		case "c", "e":
			a, ok := m.dashboard.selected()
			if !ok {
				return m, nil
			}
			mode := modeTalk
			if keyMsg.String() == "e" {
				mode = modeAuthor
			}
			m.chat = newChat(m.styles, m.gen, m.genTimeout, a, m.promptFor(a.ID, a.SystemPrompt), mode, m.width)
			m.activeView = viewChat
			return m, m.chat.Init()
		}
	}

	var cmd tea.Cmd
	m.dashboard, cmd = m.dashboard.Update(msg)
	return m, cmd
}

func (m AppModel) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m AppModel) promptFor(agentID, seed string) string {
	if p, ok := m.prompts[agentID]; ok {
		return p
	}
	return seed
}

// toggleCmd pauses or resumes the scheduler off the update loop. Stop waits
// for the tick goroutine, which may itself be blocked delivering a
// SnapshotMsg to this program.
func (m AppModel) toggleCmd() tea.Cmd {
	sched, ctx := m.sched, m.ctx
	return func() tea.Msg {
		if sched.State() == scheduler.StateRunning {
			if err := sched.Stop(); err != nil {
				return schedulerStateMsg{err: err}
			}
			return schedulerStateMsg{state: scheduler.StateStopped}
		}
		if err := sched.Start(ctx); err != nil {
			return schedulerStateMsg{err: err}
		}
		return schedulerStateMsg{state: scheduler.StateRunning}
	}
}

func (m AppModel) View() string {
	switch m.activeView {
	case viewChat:
		return m.viewSideBySide(m.chat.ViewContent())
	default:
		return m.dashboard.View()
	}
}

func (m AppModel) viewSideBySide(rightPanel string) string {
	maxWidth := m.width - 4
	if maxWidth < 40 {
		maxWidth = 80
	}

	// 55% for dashboard, 45% for right panel, minus 1 for separator
	dashWidth := maxWidth * 55 / 100
	panelWidth := maxWidth - dashWidth - 1

	dashContent := lipgloss.NewStyle().Width(dashWidth).Render(m.dashboard.ViewContent())
	panelContent := lipgloss.NewStyle().Width(panelWidth).Render(rightPanel)

	sepHeight := max(lipgloss.Height(dashContent), lipgloss.Height(panelContent))
	sepLines := make([]string, sepHeight)
	for i := range sepLines {
		sepLines[i] = "│"
	}
	sep := m.styles.Separator.Render(strings.Join(sepLines, "\n"))

	joined := lipgloss.JoinHorizontal(lipgloss.Top, dashContent, sep, panelContent)

	return m.styles.Border.Width(maxWidth).Render(joined)
}
