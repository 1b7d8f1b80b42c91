// Package tui provides the terminal chat surface.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agenthands/cobalt/internal/core"
	"github.com/agenthands/cobalt/internal/core/model"
)

// KeyMap defines keybindings
type KeyMap struct {
	Send key.Binding
	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// Model holds the chat state. The session owns the canonical history; the
// transcript here is the display copy, updated as turns complete so the
// view never reads the session mid-turn.
type Model struct {
	session *core.Session
	input   textinput.Model
	keyMap  KeyMap

	width      int
	height     int
	processing bool
	transcript []model.Turn
	errText    string
}

func New(session *core.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about products, suppliers or warehouses..."
	ti.CharLimit = 512
	ti.Width = 64
	ti.Focus()

	return Model{
		session: session,
		input:   ti,
		keyMap:  DefaultKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

type answerMsg struct {
	result core.TurnResult
}

type errMsg struct {
	err error
}

// askQuestion runs the blocking turn off the UI goroutine. The session
// serializes turns internally; the processing flag keeps the input from
// firing a second one meanwhile.
func askQuestion(session *core.Session, question string) tea.Cmd {
	return func() tea.Msg {
		result, err := session.Ask(context.Background(), question)
		if err != nil {
			return errMsg{err: err}
		}
		return answerMsg{result: result}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case answerMsg:
		m.processing = false
		m.transcript = append(m.transcript, model.Turn{
			Role:    model.RoleAssistant,
			Content: msg.result.Answer,
		})
		return m, nil

	case errMsg:
		m.processing = false
		m.errText = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.Send):
			if m.processing {
				return m, nil
			}
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.processing = true
			m.errText = ""
			m.transcript = append(m.transcript, model.Turn{
				Role:    model.RoleUser,
				Content: question,
			})
			m.input.Reset()
			return m, askQuestion(m.session, question)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	userStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	assistantStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("Supply Chain Assistant"))
	b.WriteString("\n\n")

	for _, t := range m.transcript {
		switch t.Role {
		case model.RoleUser:
			b.WriteString(userStyle.Render("You: "))
		default:
			b.WriteString(assistantStyle.Render("Assistant: "))
		}
		b.WriteString(t.Content)
		b.WriteString("\n\n")
	}

	if m.processing {
		b.WriteString(dimStyle.Render("Thinking..."))
		b.WriteString("\n\n")
	}

	if m.errText != "" {
		b.WriteString(errStyle.Render(m.errText))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: send • ctrl+c: quit"))
	b.WriteString("\n")

	return b.String()
}
