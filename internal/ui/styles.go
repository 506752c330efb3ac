package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/opsim/internal/agent"
	"github.com/simonbystrom/opsim/internal/alert"
	"github.com/simonbystrom/opsim/internal/config"
	"github.com/simonbystrom/opsim/internal/task"
)

// Styles holds every lipgloss style the UI renders with.
type Styles struct {
	Title      lipgloss.Style
	Header     lipgloss.Style
	Selected   lipgloss.Style
	Healthy    lipgloss.Style
	Warning    lipgloss.Style
	Critical   lipgloss.Style
	Queue      lipgloss.Style
	Processing lipgloss.Style
	Validating lipgloss.Style
	Success    lipgloss.Style
	Revenue    lipgloss.Style
	Help       lipgloss.Style
	HelpActive lipgloss.Style
	Border     lipgloss.Style
	Separator  lipgloss.Style
	Error      lipgloss.Style
	Logo       lipgloss.Style
	Paused     lipgloss.Style
	Dim        lipgloss.Style
}

// NewStyles builds Styles from the configured palette.
func NewStyles(c config.Colors) Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}

	return Styles{
		Title:      fg(c.Title).Bold(true).Padding(0, 1),
		Header:     fg(c.Header).Bold(true),
		Selected:   lipgloss.NewStyle().Background(lipgloss.Color(c.SelectedBG)).Foreground(lipgloss.Color(c.SelectedFG)),
		Healthy:    fg(c.Healthy),
		Warning:    fg(c.Warning).Bold(true),
		Critical:   fg(c.Critical).Bold(true),
		Queue:      fg(c.Queue),
		Processing: fg(c.Processing),
		Validating: fg(c.Validating).Bold(true),
		Success:    fg(c.Success).Bold(true),
		Revenue:    fg(c.Revenue).Bold(true),
		Help:       fg(c.Help),
		HelpActive: fg(c.HelpActive),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Border)).
			Padding(1, 2),
		Separator: fg(c.Separator),
		Error:     fg(c.Error).Bold(true),
		Logo:      fg(c.Logo).Bold(true),
		Paused:    fg(c.Paused).Bold(true),
		Dim:       fg(c.Help).Italic(true),
	}
}

func (s Styles) ForHealth(h agent.Health) lipgloss.Style {
	switch h {
	case agent.HealthCritical:
		return s.Critical
	case agent.HealthWarning:
		return s.Warning
	default:
		return s.Healthy
	}
}

func (s Styles) ForStage(st task.Stage) lipgloss.Style {
	switch st {
	case task.StageProcessing:
		return s.Processing
	case task.StageValidating:
		return s.Validating
	default:
		return s.Queue
	}
}

func (s Styles) ForSeverity(sev alert.Severity) lipgloss.Style {
	switch sev {
	case alert.SeverityCritical:
		return s.Critical
	case alert.SeverityWarning:
		return s.Warning
	case alert.SeveritySuccess:
		return s.Success
	default:
		return s.HelpActive
	}
}
