// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global and per-view key bindings.
type KeyMap struct {
	// Global
	NextView key.Binding
	PrevView key.Binding
	Theme    key.Binding
	Language key.Binding
	Quit     key.Binding
	Dismiss  key.Binding

	// Document view
	Analyze  key.Binding
	OpenFile key.Binding
	ClearDoc key.Binding

	// Analysis view
	Listen1  key.Binding
	Listen2  key.Binding
	Listen3  key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "prev view"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("C-t", "theme"),
		),
		Language: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "language"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c", "quit"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("ctrl+r", "ctrl+s"),
			key.WithHelp("C-r", "analyze"),
		),
		OpenFile: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "open file"),
		),
		ClearDoc: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "clear"),
		),
		Listen1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "listen summary"),
		),
		Listen2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "listen clauses"),
		),
		Listen3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "listen advice"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k", "pgup"),
			key.WithHelp("↑/k", "scroll"),
		),
		ScrollDn: key.NewBinding(
			key.WithKeys("down", "j", "pgdown"),
			key.WithHelp("↓/j", "scroll"),
		),
	}
}
