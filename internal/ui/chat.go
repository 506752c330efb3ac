package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/opsim/internal/agent"
	"github.com/simonbystrom/opsim/internal/generate"
)

type chatMode int

const (
	modeTalk chatMode = iota
	modeAuthor
)

const maxChatLines = 12

type chatLine struct {
	from string
	text string
}

type chatModel struct {
	gen     generate.Generator
	timeout time.Duration
	mode    chatMode
	agent   agent.Agent
	prompt  string
	input   textinput.Model
	lines   []chatLine
	pending bool
	width   int
	styles  Styles
}

type chatCloseMsg struct{}

type chatReplyMsg struct {
	agentID string
	text    string
}

type promptAuthoredMsg struct {
	agentID string
	prompt  string
}

func newChat(s Styles, gen generate.Generator, timeout time.Duration, a agent.Agent, prompt string, mode chatMode, width int) chatModel {
	in := textinput.New()
	in.CharLimit = 500
	in.Width = max(width-12, 20)
	if mode == modeAuthor {
		in.Placeholder = "describe how the prompt should change"
	} else {
		in.Placeholder = "message " + a.Name
	}
	in.Focus()

	return chatModel{
		gen:     gen,
		timeout: timeout,
		mode:    mode,
		agent:   a,
		prompt:  prompt,
		input:   in,
		width:   width,
		styles:  s,
	}
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) push(from, text string) {
	m.lines = append(m.lines, chatLine{from: from, text: text})
	if len(m.lines) > maxChatLines {
		m.lines = m.lines[len(m.lines)-maxChatLines:]
	}
}

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		if msg.agentID != m.agent.ID {
			return m, nil
		}
		m.pending = false
		m.push(m.agent.Name, msg.text)
		return m, nil

	case promptAuthoredMsg:
		if msg.agentID != m.agent.ID {
			return m, nil
		}
		m.pending = false
		m.prompt = msg.prompt
		m.push("prompt", msg.prompt)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return chatCloseMsg{} }
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.pending {
				return m, nil
			}
			m.input.SetValue("")
			m.pending = true
			m.push("you", text)
			if m.mode == modeAuthor {
				return m, m.authorCmd(text)
			}
			return m, m.sendCmd(text)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) requestContext() (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(context.Background(), m.timeout)
	}
	return context.WithCancel(context.Background())
}

func (m chatModel) sendCmd(text string) tea.Cmd {
	a, prompt := m.agent, m.prompt
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		reply := generate.ChatWithAgent(ctx, m.gen, string(a.Role), prompt, text)
		return chatReplyMsg{agentID: a.ID, text: reply}
	}
}

func (m chatModel) authorCmd(goal string) tea.Cmd {
	a, prompt := m.agent, m.prompt
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		authored := generate.AuthorSystemPrompt(ctx, m.gen, goal, string(a.Role), prompt)
		return promptAuthoredMsg{agentID: a.ID, prompt: authored}
	}
}

func (m chatModel) ViewContent() string {
	var b strings.Builder

	title := "Chat with " + m.agent.Name
	if m.mode == modeAuthor {
		title = "System prompt for " + m.agent.Name
	}
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  %s · %s", m.agent.Role, m.agent.Model)))
	b.WriteString("\n\n")

	if m.mode == modeAuthor {
		b.WriteString(m.styles.Header.Render("  Current prompt"))
		b.WriteString("\n")
		b.WriteString("  " + m.prompt + "\n\n")
	}

	for _, l := range m.lines {
		style := m.styles.HelpActive
		if l.from != "you" {
			style = m.styles.Processing
		}
		b.WriteString(style.Render(fmt.Sprintf("  %s: %s", l.from, l.text)))
		b.WriteString("\n")
	}
	if m.pending {
		b.WriteString(m.styles.Dim.Render("  ..."))
		b.WriteString("\n")
	}

	b.WriteString("\n  " + m.input.View() + "\n\n")
	b.WriteString(m.styles.Help.Render("  enter: send │ esc: back"))
	return b.String()
}
