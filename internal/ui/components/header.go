// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/legalease-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar: brand, view tabs and the active languages.
type Header struct {
	Title    string
	Subtitle string
	Tabs     []string
	Active   int
	Width    int

	// Status is shown on the right, e.g. "English · dark".
	Status string

	theme *styles.Theme
}

// NewHeader creates a header with the default brand.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:    "LegalEase",
		Subtitle: "legal documents in plain language",
		Width:    80,
		theme:    theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetTheme replaces the theme after a toggle.
func (h *Header) SetTheme(theme *styles.Theme) {
	h.theme = theme
}

// View renders the header on two lines: brand and status, then tabs.
func (h *Header) View() string {
	t := h.theme
	brand := t.HeaderTitle.Render(h.Title)
	if h.Subtitle != "" && h.Width >= 60 {
		brand += " " + t.HeaderSubtitle.Render(h.Subtitle)
	}
	status := t.HeaderSubtitle.Render(h.Status)

	gap := h.Width - lipgloss.Width(brand) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	top := brand + strings.Repeat(" ", gap) + status

	tabs := make([]string, len(h.Tabs))
	for i, name := range h.Tabs {
		if i == h.Active {
			tabs[i] = t.TabActive.Render(name)
		} else {
			tabs[i] = t.Tab.Render(name)
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	return t.Header.Width(h.Width).Render(lipgloss.JoinVertical(lipgloss.Left, top, row))
}

// Height is the number of lines View produces.
func (h *Header) Height() int {
	return lipgloss.Height(h.View())
}
