// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/legalease-tui/internal/ui/styles"
)

// =============================================================================
// TOAST
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	ToastKindError ToastKind = iota
	ToastKindInfo
)

const (
	// ErrorToastDuration is how long an error stays up unless the next
	// attempt dismisses it first.
	ErrorToastDuration = 8 * time.Second

	// InfoToastDuration is how long a status message stays up.
	InfoToastDuration = 3 * time.Second
)

// Toast is a single transient notification. The zero value shows nothing.
type Toast struct {
	id        int
	message   string
	kind      ToastKind
	createdAt time.Time
	duration  time.Duration
}

// ToastExpiredMsg asks the owner to dismiss toast id if it is still shown.
type ToastExpiredMsg struct {
	ID int
}

// ShowError replaces the current toast with an error and returns the
// command that expires it.
func (t *Toast) ShowError(message string) tea.Cmd {
	return t.show(message, ToastKindError, ErrorToastDuration)
}

// ShowInfo replaces the current toast with a status message.
func (t *Toast) ShowInfo(message string) tea.Cmd {
	return t.show(message, ToastKindInfo, InfoToastDuration)
}

func (t *Toast) show(message string, kind ToastKind, d time.Duration) tea.Cmd {
	t.id++
	t.message = message
	t.kind = kind
	t.createdAt = time.Now()
	t.duration = d
	id := t.id
	return tea.Tick(d, func(time.Time) tea.Msg { return ToastExpiredMsg{ID: id} })
}

// Dismiss hides the toast.
func (t *Toast) Dismiss() {
	t.message = ""
}

// Expire dismisses the toast if msg refers to the one currently shown.
func (t *Toast) Expire(msg ToastExpiredMsg) {
	if msg.ID == t.id {
		t.Dismiss()
	}
}

// Visible reports whether a message is shown.
func (t *Toast) Visible() bool {
	return t.message != ""
}

// Message returns the shown message.
func (t *Toast) Message() string {
	return t.message
}

// Kind returns the kind of the shown message.
func (t *Toast) Kind() ToastKind {
	return t.kind
}

// View renders the toast no wider than width.
func (t *Toast) View(theme *styles.Theme, width int) string {
	if !t.Visible() {
		return ""
	}
	style := theme.ToastError
	icon := "[X] "
	if t.kind == ToastKindInfo {
		style = theme.ToastInfo
		icon = "[i] "
	}
	maxWidth := 70
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}
	if maxWidth < 20 {
		maxWidth = 20
	}
	return style.Width(maxWidth).Render(lipgloss.NewStyle().Bold(true).Render(icon) + t.message)
}
