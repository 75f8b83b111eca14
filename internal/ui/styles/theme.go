// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/legalease-tui/internal/analysis"
)

// Theme holds all the styled components for the application.
type Theme struct {
	IsDark bool

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND TABS
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	Tab            lipgloss.Style
	TabActive      lipgloss.Style

	// ==========================================================================
	// PANELS
	// ==========================================================================

	Panel        lipgloss.Style
	PanelFocused lipgloss.Style
	PanelTitle   lipgloss.Style
	Muted        lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style

	// ==========================================================================
	// ANALYSIS
	// ==========================================================================

	Progress     lipgloss.Style
	Spinner      lipgloss.Style
	SectionTitle lipgloss.Style
	AudioIdle    lipgloss.Style
	AudioBusy    lipgloss.Style
	AudioPlaying lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	UserBubble  lipgloss.Style
	ModelBubble lipgloss.Style
	FailedTurn  lipgloss.Style
	Typing      lipgloss.Style

	// ==========================================================================
	// FOOTER AND TOASTS
	// ==========================================================================

	Footer     lipgloss.Style
	FooterKey  lipgloss.Style
	FooterDesc lipgloss.Style
	ToastError lipgloss.Style
	ToastInfo  lipgloss.Style
}

// DetectDark resolves a configured theme name. "auto" (or anything
// unrecognized) asks the terminal.
func DetectDark(mode string) bool {
	switch strings.ToLower(mode) {
	case "dark":
		return true
	case "light":
		return false
	}
	return termenv.HasDarkBackground()
}

// NewTheme creates a theme for a dark or light background.
func NewTheme(dark bool) *Theme {
	t := &Theme{}
	t.SetDark(dark)
	return t
}

// SetDark switches the background the adaptive colors resolve against.
func (t *Theme) SetDark(dark bool) {
	t.IsDark = dark
	lipgloss.SetHasDarkBackground(dark)
	t.initStyles()
}

// Toggle flips between dark and light.
func (t *Theme) Toggle() {
	t.SetDark(!t.IsDark)
}

// Name is "dark" or "light".
func (t *Theme) Name() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// SetSize updates the theme dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// SeverityDot renders the colored indicator for a risk level.
func (t *Theme) SeverityDot(s analysis.Severity) string {
	return lipgloss.NewStyle().Foreground(SeverityColor(s)).Render("●")
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Tab = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Indigo).
		Padding(0, 2)

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PanelFocused = t.Panel.
		BorderForeground(Indigo)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.Value = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.Progress = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)

	t.SectionTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.AudioIdle = lipgloss.NewStyle().
		Foreground(Cyan)

	t.AudioBusy = lipgloss.NewStyle().
		Foreground(Amber)

	t.AudioPlaying = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.ModelBubble = lipgloss.NewStyle().
		Foreground(ModelBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ModelBubbleBorder).
		Padding(0, 1).
		MarginRight(4)

	t.FailedTurn = t.ModelBubble.
		Foreground(Rose).
		BorderForeground(Rose)

	t.Typing = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Footer = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.FooterKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.FooterDesc = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ToastError = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ToastInfo = t.ToastError.
		Foreground(Emerald).
		BorderForeground(Emerald)
}
