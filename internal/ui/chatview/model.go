// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatview is the chat panel of the TUI: a scrolling transcript, a
// typing indicator and a question input.
//
// The panel renders a *chat.Conversation but never mutates it; the parent
// model submits questions and records replies so that all state changes
// happen on the Bubble Tea event loop.
package chatview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/ui/styles"
)

// ClearCommand typed as a question clears the transcript.
const ClearCommand = "/clear"

// SubmitMsg is emitted when the user presses enter on a question.
type SubmitMsg struct {
	Question string
}

// ClearMsg is emitted for ClearCommand.
type ClearMsg struct{}

// Model is the chat panel.
type Model struct {
	theme    *styles.Theme
	renderer analysis.Renderer

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	width  int
	height int

	// content is the last rendered transcript; the viewport only jumps to
	// the bottom when it changes.
	content string
	typing  bool
}

// New creates the panel.
func New(theme *styles.Theme, renderer analysis.Renderer) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about your document..."
	ti.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		theme:    theme,
		renderer: renderer,
		viewport: viewport.New(80, 10),
		input:    ti,
		spinner:  sp,
	}
}

// SetRenderer replaces the markdown renderer, e.g. after a theme change.
func (m *Model) SetRenderer(r analysis.Renderer) {
	m.renderer = r
	m.content = ""
}

// SetSize lays out the panel in width x height cells.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-4, 10)
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
}

// Focus focuses the question input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes focus from the input.
func (m *Model) Blur() {
	m.input.Blur()
}

// Focused reports whether the input has focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Input returns the current question text.
func (m Model) Input() string {
	return m.input.Value()
}

// Sync re-renders the transcript of conv and scrolls to the bottom when the
// content or the typing indicator changed. It returns a command that keeps
// the typing spinner running.
func (m *Model) Sync(conv *chat.Conversation) tea.Cmd {
	typing := conv != nil && conv.Pending()
	content := m.renderTranscript(conv)
	if typing {
		content += "\n" + m.typingLine()
	}

	changed := content != m.content || typing != m.typing
	startSpinner := typing && !m.typing
	m.content = content
	m.typing = typing
	m.viewport.SetContent(content)
	if changed {
		m.viewport.GotoBottom()
	}
	if startSpinner {
		return m.spinner.Tick
	}
	return nil
}

// Update handles keys and spinner ticks. Conversation changes arrive via
// Sync.
func (m Model) Update(msg tea.Msg, conv *chat.Conversation) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.typing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.Sync(conv)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Submit):
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			if strings.EqualFold(q, ClearCommand) {
				m.input.Reset()
				return m, func() tea.Msg { return ClearMsg{} }
			}
			if conv == nil || !conv.CanSubmit(q) {
				return m, nil
			}
			m.input.Reset()
			return m, func() tea.Msg { return SubmitMsg{Question: q} }
		case key.Matches(msg, keys.PageUp):
			m.viewport.HalfViewUp()
			return m, nil
		case key.Matches(msg, keys.PageDown):
			m.viewport.HalfViewDown()
			return m, nil
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

type keyMap struct {
	Submit   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

var keys = keyMap{
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "send")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("PgUp", "scroll up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("PgDn", "scroll down")),
}

// Bindings are the panel's key hints for the footer.
func Bindings() []key.Binding {
	return []key.Binding{keys.Submit, keys.PageUp, keys.PageDown}
}

// View renders the transcript above the input.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.input.View(),
	)
}

func (m Model) typingLine() string {
	return m.spinner.View() + m.theme.Typing.Render(" LegalEase is typing...")
}

func (m Model) renderTranscript(conv *chat.Conversation) string {
	if conv == nil || conv.Transcript.Len() == 0 {
		return m.theme.Muted.Render("Analyze a document to start chatting about it.")
	}

	bubbleWidth := max(m.width-8, 20)
	var blocks []string
	for _, turn := range conv.Transcript.Turns() {
		if turn.Pending() {
			continue
		}
		blocks = append(blocks, m.renderTurn(turn, bubbleWidth))
	}
	return strings.Join(blocks, "\n")
}

func (m Model) renderTurn(turn chat.Turn, width int) string {
	switch {
	case turn.Role == chat.RoleUser:
		box := m.theme.UserBubble.Width(width).Render(turn.Text)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, box)
	case turn.Failed:
		return m.theme.FailedTurn.Width(width).Render(turn.Text)
	}

	text := turn.Text
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			text = out
		}
	}
	return m.theme.ModelBubble.Width(width).Render(text)
}
