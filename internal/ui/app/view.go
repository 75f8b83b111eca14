// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/legalease-tui/internal/ingest"
	"github.com/jeranaias/legalease-tui/internal/ui/chatview"
	"github.com/jeranaias/legalease-tui/internal/ui/components"
	"github.com/jeranaias/legalease-tui/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	header := m.header.View()
	footer := components.Footer(m.theme, m.width, m.bindings(), m.footerStatus())

	var body string
	switch m.view {
	case ViewDocument:
		body = m.documentView()
	case ViewAnalysis:
		body = m.analysisView()
	default:
		body = m.chat.View()
	}

	height := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if m.toast.Visible() {
		toast := m.toast.View(m.theme, m.width)
		body = fitHeight(body, height-lipgloss.Height(toast)) + "\n" + toast
	} else {
		body = fitHeight(body, height)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) documentView() string {
	if m.picking {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.theme.PanelTitle.Render("Choose a text, PDF or image file"),
			m.picker.View(),
			m.theme.Muted.Render("Enter to open · Esc to go back"),
		)
	}

	lines := []string{
		m.theme.PanelTitle.Render("Your document"),
		m.theme.PanelFocused.Render(m.editor.View()),
		m.inputLine(),
		m.theme.Label.Render("Analysis language: ") + m.theme.Value.Render(m.state.Language()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// inputLine describes what will be analyzed.
func (m Model) inputLine() string {
	in := m.state.Input()
	if in == nil || in.Empty() {
		return m.theme.Muted.Render("Paste text above, drop a file here, or press Ctrl+O to open one (a typed path opens directly).")
	}
	var detail string
	switch v := in.(type) {
	case *ingest.TextInput:
		detail = fmt.Sprintf("%d characters", len([]rune(v.Text)))
	case *ingest.ImageInput:
		detail = m.imageInfo
	}
	label := util.TruncateWidth(in.Source(), max(m.width/2, 10))
	return m.theme.Label.Render("Input: ") + m.theme.Value.Render(label) + m.theme.Muted.Render(" · "+detail)
}

func (m Model) analysisView() string {
	if m.state.Loading() {
		status := m.spinner.View() + " " + m.theme.Progress.Render(m.progress.Current()) +
			m.theme.Muted.Render(fmt.Sprintf("  %s", m.state.Elapsed().Round(time.Second)))
		if len(m.sections) == 0 {
			return status
		}
		return lipgloss.JoinVertical(lipgloss.Left, status, m.report.View())
	}
	if len(m.sections) == 0 {
		return m.theme.Muted.Render("No analysis yet. Add a document, then press Ctrl+R.")
	}
	return m.report.View()
}

// bindings are the key hints for the active view.
func (m Model) bindings() []key.Binding {
	global := []key.Binding{m.keys.NextView, m.keys.Language, m.keys.Theme, m.keys.Quit}
	switch m.view {
	case ViewDocument:
		if m.picking {
			return []key.Binding{m.keys.Dismiss, m.keys.Quit}
		}
		return append([]key.Binding{m.keys.Analyze, m.keys.OpenFile, m.keys.ClearDoc}, global...)
	case ViewAnalysis:
		var out []key.Binding
		if m.state.HasResult() {
			for i, b := range []key.Binding{m.keys.Listen1, m.keys.Listen2, m.keys.Listen3} {
				if _, ok := m.section(sectionAt(i)); ok {
					out = append(out, b)
				}
			}
		}
		out = append(out, m.keys.ScrollDn)
		return append(out, global...)
	default:
		return append(chatview.Bindings(), global...)
	}
}

func (m Model) footerStatus() string {
	if m.baseURL == "" {
		return ""
	}
	return "api " + m.baseURL
}

// fitHeight pads or cuts s to exactly h lines.
func fitHeight(s string, h int) string {
	if h <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
