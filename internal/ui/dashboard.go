package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/simonbystrom/opsim/internal/agent"
	"github.com/simonbystrom/opsim/internal/engine"
	"github.com/simonbystrom/opsim/internal/scheduler"
)

type sortMode int

const (
	sortByRoster sortMode = iota
	sortByHealth
	sortByThroughput
)

const maxNotifications = 5

type notification struct {
	text  string
	time  time.Time
	style lipgloss.Style
}

// SnapshotMsg carries a committed engine snapshot into the program.
type SnapshotMsg engine.Snapshot

// SchedulerHaltedMsg reports that the tick loop stopped without being paused
// from the dashboard. Err is set when a tick failed.
type SchedulerHaltedMsg struct {
	Err error
}

type dashboardModel struct {
	snap          engine.Snapshot
	state         scheduler.State
	cursor        int
	notifications []notification
	width         int
	height        int
	err           string
	sortBy        sortMode
	styles        Styles
	bar           progress.Model
}

func newDashboard(s Styles, barColor string) dashboardModel {
	bar := progress.New(
		progress.WithSolidFill(barColor),
		progress.WithoutPercentage(),
		progress.WithWidth(20),
	)
	return dashboardModel{
		styles: s,
		bar:    bar,
		state:  scheduler.StateRunning,
	}
}

func (m *dashboardModel) notify(text string, style lipgloss.Style) {
	m.notifications = append(m.notifications, notification{text: text, time: time.Now(), style: style})
	if len(m.notifications) > maxNotifications {
		m.notifications = m.notifications[len(m.notifications)-maxNotifications:]
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		m.snap = engine.Snapshot(msg)
		if n := len(m.snap.Agents); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case schedulerStateMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.state = msg.state
		if msg.state == scheduler.StateRunning {
			m.notify("Simulation resumed", m.styles.Healthy)
		} else {
			m.notify("Simulation paused", m.styles.Paused)
		}
		return m, nil

	case SchedulerHaltedMsg:
		m.state = scheduler.StateStopped
		if msg.Err != nil {
			m.err = msg.Err.Error()
			m.notify("Simulation halted", m.styles.Critical)
		}
		return m, nil

	case tea.KeyMsg:
		m.err = ""
		agents := m.sortedAgents()

		switch msg.String() {
		case "j", "down":
			if m.cursor < len(agents)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "s":
			m.sortBy = (m.sortBy + 1) % 3
		}
	}

	return m, nil
}

// selected returns the agent under the cursor.
func (m dashboardModel) selected() (agent.Agent, bool) {
	agents := m.sortedAgents()
	if len(agents) == 0 || m.cursor >= len(agents) {
		return agent.Agent{}, false
	}
	return agents[m.cursor], true
}

func (m dashboardModel) sortedAgents() []agent.Agent {
	agents := make([]agent.Agent, len(m.snap.Agents))
	copy(agents, m.snap.Agents)

	switch m.sortBy {
	case sortByHealth:
		order := map[agent.Health]int{
			agent.HealthCritical: 0,
			agent.HealthWarning:  1,
			agent.HealthHealthy:  2,
		}
		sort.SliceStable(agents, func(i, j int) bool {
			return order[agents[i].Health] < order[agents[j].Health]
		})
	case sortByThroughput:
		sort.SliceStable(agents, func(i, j int) bool {
			return agents[i].Metrics.TokensPerSec > agents[j].Metrics.TokensPerSec
		})
	}
	return agents
}

func (m dashboardModel) sortLabel() string {
	switch m.sortBy {
	case sortByHealth:
		return "health"
	case sortByThroughput:
		return "tok/s"
	default:
		return "roster"
	}
}

func (m dashboardModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.Logo.Render(renderLogo(m.width - 8)))
	b.WriteString("\n\n")

	status := m.styles.Healthy.Render("● live")
	if m.state != scheduler.StateRunning {
		status = m.styles.Paused.Render("❚❚ paused")
	}
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("tick %d", m.snap.Tick)))
	b.WriteString(" " + status + "  ")
	b.WriteString(m.styles.Revenue.Render(fmt.Sprintf("revenue $%s  leads %d", formatMoney(m.snap.Totals.Revenue), m.snap.Totals.Leads)))
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  completed %d", m.snap.Completed)))
	b.WriteString("\n\n")

	b.WriteString(m.viewAgents())
	b.WriteString(m.viewDetail())
	b.WriteString(m.viewTasks())
	b.WriteString(m.viewAlerts())

	if len(m.notifications) > 0 {
		b.WriteString("\n")
		for i := len(m.notifications) - 1; i >= 0; i-- {
			n := m.notifications[i]
			b.WriteString(n.style.Render(fmt.Sprintf("  %s %s", n.time.Format("15:04:05"), n.text)))
			b.WriteString("\n")
		}
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("  Error: " + m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(fmt.Sprintf("  j/k: select │ s: sort (%s) │ space: pause/resume │ c: chat │ e: edit prompt │ q: quit", m.sortLabel())))

	return b.String()
}

func (m dashboardModel) viewAgents() string {
	var b strings.Builder

	agents := m.sortedAgents()
	if len(agents) == 0 {
		b.WriteString(m.styles.Dim.Render("  Waiting for the first tick..."))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("  %-22s %-18s %-9s %-10s %7s %7s %7s", "Agent", "Role", "Dept", "Health", "tok/s", "succ%", "lat ms")
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n")

	for i, a := range agents {
		health := pad(m.styles.ForHealth(a.Health).Render(string(a.Health)), 10)
		row := fmt.Sprintf("  %-22s %-18s %-9s %s %7.0f %7.1f %7.0f",
			truncate(a.Name, 22),
			truncate(string(a.Role), 18),
			a.Department,
			health,
			a.Metrics.TokensPerSec,
			a.Metrics.SuccessRate,
			a.Metrics.LatencyMs,
		)
		if i == m.cursor {
			row = m.styles.Selected.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func (m dashboardModel) viewDetail() string {
	a, ok := m.selected()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("  ── %s ──", a.Name)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s · %s · model %s · uptime %.2f%% · cost $%.2f\n",
		a.Role, a.Status, a.Model, a.Metrics.Uptime, a.Metrics.TotalCost))
	if g := a.Metrics.Growth; g != nil {
		b.WriteString(m.styles.Revenue.Render(fmt.Sprintf("  generated $%s from %d leads", formatMoney(g.RevenueGenerated), g.LeadsGenerated)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m dashboardModel) viewTasks() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.styles.Header.Render(fmt.Sprintf("  ── Tasks (%d) ──", len(m.snap.Tasks))))
	b.WriteString("\n")

	if len(m.snap.Tasks) == 0 {
		b.WriteString(m.styles.Dim.Render("  idle"))
		b.WriteString("\n")
		return b.String()
	}

	for _, t := range m.snap.Tasks {
		stage := pad(m.styles.ForStage(t.Stage).Render(string(t.Stage)), 11)
		b.WriteString(fmt.Sprintf("  %s %s %-24s %-18s %s\n",
			stage,
			m.bar.ViewAs(t.Progress/100),
			truncate(t.Name, 24),
			truncate(t.AgentName, 18),
			m.styles.Dim.Render(t.Detail+" · "+t.Tool),
		))
	}
	return b.String()
}

func (m dashboardModel) viewAlerts() string {
	if len(m.snap.Alerts) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.styles.Header.Render("  ── Alerts ──"))
	b.WriteString("\n")
	for _, a := range m.snap.Alerts {
		line := fmt.Sprintf("  %s [%s] %s: %s", a.Timestamp.Format("15:04:05"), a.Severity, a.AgentName, a.Message)
		b.WriteString(m.styles.ForSeverity(a.Severity).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m dashboardModel) View() string {
	content := m.ViewContent()

	maxWidth := m.width - 4
	if maxWidth < 40 {
		maxWidth = 80
	}

	return m.styles.Border.Width(maxWidth).Render(content)
}

// pad right-pads a styled string to n visual columns. fmt widths count bytes,
// which breaks with ANSI escape codes.
func pad(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// formatMoney renders n with thousands separators.
func formatMoney(n int64) string {
	s := fmt.Sprint(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// truncate shortens s to at most max display cells, ending in "..." when
// there is room for it.
func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	if max <= 3 {
		return ansi.Truncate(s, max, "")
	}
	return ansi.Truncate(s, max, "...")
}
