// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/legalease-tui/internal/analysis"
)

func TestDetectDarkExplicit(t *testing.T) {
	if !DetectDark("dark") {
		t.Error("DetectDark(dark) = false")
	}
	if DetectDark("LIGHT") {
		t.Error("DetectDark(LIGHT) = true")
	}
}

func TestToggle(t *testing.T) {
	theme := NewTheme(true)
	if !theme.IsDark || theme.Name() != "dark" {
		t.Fatalf("new dark theme reports %q", theme.Name())
	}
	if !lipgloss.HasDarkBackground() {
		t.Error("lipgloss should resolve adaptive colors against a dark background")
	}

	theme.Toggle()
	if theme.IsDark || theme.Name() != "light" {
		t.Errorf("after toggle theme is %q", theme.Name())
	}
	if lipgloss.HasDarkBackground() {
		t.Error("lipgloss should resolve adaptive colors against a light background")
	}

	theme.Toggle()
	if !theme.IsDark {
		t.Error("second toggle should return to dark")
	}
}

func TestSeverityDot(t *testing.T) {
	theme := NewTheme(false)
	for _, s := range analysis.Severities {
		dot := theme.SeverityDot(s)
		if !strings.Contains(dot, "●") {
			t.Errorf("SeverityDot(%v) = %q, want a dot", s, dot)
		}
		if strings.Contains(dot, s.Glyph()) {
			t.Errorf("SeverityDot(%v) still contains the emoji", s)
		}
	}
}

func TestStylesInitialized(t *testing.T) {
	theme := NewTheme(true)
	theme.SetSize(100, 40)
	if theme.Width != 100 || theme.Height != 40 {
		t.Errorf("SetSize not applied: %dx%d", theme.Width, theme.Height)
	}
	if got := theme.SectionTitle.Render("Summary"); !strings.Contains(got, "Summary") {
		t.Errorf("SectionTitle.Render lost its text: %q", got)
	}
	if theme.PanelFocused.GetBorderStyle() != lipgloss.RoundedBorder() {
		t.Error("focused panel should keep the rounded border")
	}
}
