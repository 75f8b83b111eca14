// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package app is the root Bubble Tea model of the legalease TUI.

# Views

  - Document: paste text, or open a text, PDF or image file from the
    picker, a typed path or a file dropped onto the terminal
  - Analysis: streamed sections with per-section read-aloud
  - Chat: questions about the analyzed document

# Concurrency

All state lives in Model and is mutated only in Update. Network calls run
in tea.Cmd goroutines and report back through messages. Analysis chunks
travel over a channel that one command drains at a time, so they arrive
in order; chunks carry the accumulated text, so a chunk skipped under
back-pressure loses nothing. A running analysis is never cancelled before
the program exits; the document cannot change until it finishes.

# Usage

	m := app.New(app.Options{Config: cfg, Backend: client, History: store, Logger: log})
	defer m.Close()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
*/
package app
