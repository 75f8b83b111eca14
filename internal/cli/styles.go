// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styles for legalease command output.

package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/ui/styles"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Indigo)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(12)

	ValueStyle = lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)
)

// RenderSeparator renders a horizontal rule, 60 cells by default.
func RenderSeparator(width ...int) string {
	w := 60
	if len(width) > 0 && width[0] > 0 {
		w = width[0]
	}
	return DimStyle.Render(strings.Repeat("─", w))
}

// RenderRisk summarizes severity counts as colored dots.
func RenderRisk(counts map[analysis.Severity]int) string {
	var parts []string
	for _, s := range analysis.Severities {
		if n := counts[s]; n > 0 {
			dot := lipgloss.NewStyle().Foreground(styles.SeverityColor(s)).Render("●")
			parts = append(parts, dot+" "+DimStyle.Render(strings.ToLower(s.Label())+" ×")+ValueStyle.Render(strconv.Itoa(n)))
		}
	}
	return strings.Join(parts, "  ")
}
