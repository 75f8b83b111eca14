// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/legalease-tui/internal/ui/styles"
)

func TestToastShowAndDismiss(t *testing.T) {
	var toast Toast
	if toast.Visible() {
		t.Fatal("zero toast should be hidden")
	}

	if cmd := toast.ShowError("Audio failed: quota"); cmd == nil {
		t.Error("ShowError should return an expiry command")
	}
	if !toast.Visible() || toast.Kind() != ToastKindError {
		t.Fatalf("toast not shown as error: %+v", toast)
	}
	if toast.Message() != "Audio failed: quota" {
		t.Errorf("Message() = %q", toast.Message())
	}

	toast.Dismiss()
	if toast.Visible() {
		t.Error("Dismiss should hide the toast")
	}
}

func TestToastExpireIgnoresStaleTimers(t *testing.T) {
	var toast Toast
	toast.ShowError("first")
	stale := ToastExpiredMsg{ID: toast.id}

	toast.ShowInfo("second")
	toast.Expire(stale)
	if !toast.Visible() {
		t.Fatal("a stale timer dismissed the newer toast")
	}

	toast.Expire(ToastExpiredMsg{ID: toast.id})
	if toast.Visible() {
		t.Error("current timer should dismiss the toast")
	}
}

func TestToastView(t *testing.T) {
	theme := styles.NewTheme(true)
	var toast Toast
	if toast.View(theme, 80) != "" {
		t.Error("hidden toast should render nothing")
	}

	toast.ShowError("Could not reach the server")
	out := toast.View(theme, 80)
	if !strings.Contains(out, "Could not reach the server") || !strings.Contains(out, "[X]") {
		t.Errorf("View() = %q", out)
	}
}

func TestFooterFitsWidth(t *testing.T) {
	theme := styles.NewTheme(false)
	bindings := []key.Binding{
		key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("C-r", "analyze")),
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "next view")),
		key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("C-t", "theme")),
	}

	wide := Footer(theme, 120, bindings, "English")
	if !strings.Contains(wide, "analyze") || !strings.Contains(wide, "English") {
		t.Errorf("wide footer missing content: %q", wide)
	}

	narrow := Footer(theme, 30, bindings, "English")
	if strings.Contains(narrow, "theme") {
		t.Errorf("narrow footer should drop trailing hints: %q", narrow)
	}
}
