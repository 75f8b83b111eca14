// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/legalease-tui/internal/ui/styles"
)

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestNewHeader(t *testing.T) {
	h := NewHeader(styles.NewTheme(true))

	if h == nil {
		t.Fatal("NewHeader() returned nil")
	}
	if h.Title != "LegalEase" {
		t.Errorf("NewHeader() Title = %q, want %q", h.Title, "LegalEase")
	}
	if h.Width != 80 {
		t.Errorf("NewHeader() Width = %d, want 80", h.Width)
	}
}

func TestHeaderView(t *testing.T) {
	h := NewHeader(styles.NewTheme(true))
	h.SetWidth(100)
	h.Tabs = []string{"Document", "Analysis", "Chat"}
	h.Active = 1
	h.Status = "Hindi · dark"

	view := h.View()
	for _, want := range []string{"LegalEase", "Document", "Analysis", "Chat", "Hindi"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if h.Height() < 2 {
		t.Errorf("Height() = %d, want at least 2", h.Height())
	}
}

func TestHeaderNarrowDropsSubtitle(t *testing.T) {
	h := NewHeader(styles.NewTheme(false))
	h.SetWidth(40)

	if strings.Contains(h.View(), h.Subtitle) {
		t.Error("narrow header should drop the subtitle")
	}
	for _, line := range strings.Split(h.View(), "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line width %d exceeds header width 40", w)
		}
	}
}
