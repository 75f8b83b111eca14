// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/audio"
	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/config"
	"github.com/jeranaias/legalease-tui/internal/ingest"
)

// =============================================================================
// DOCUMENT MESSAGES
// =============================================================================

// FileLoadedMsg reports the result of reading a picked file.
type FileLoadedMsg struct {
	Path  string
	Input ingest.Input
	Err   error
}

// =============================================================================
// ANALYSIS MESSAGES
// =============================================================================

// StreamChunkMsg carries the accumulated analysis text of an attempt.
type StreamChunkMsg struct {
	AttemptID   string
	Accumulated string

	stream <-chan tea.Msg
}

// AnalysisDoneMsg ends an attempt.
type AnalysisDoneMsg struct {
	AttemptID string
	Text      string
	Err       error
}

// ProgressTickMsg rotates the loading message of an attempt.
type ProgressTickMsg struct {
	AttemptID string
}

// AnalysisSavedMsg reports the history record of a finished analysis.
type AnalysisSavedMsg struct {
	AttemptID string
	RecordID  string
	Err       error
}

// =============================================================================
// AUDIO MESSAGES
// =============================================================================

// AudioStartedMsg reports the outcome of activating a section's control.
// Playback is nil when the activation stopped playback.
type AudioStartedMsg struct {
	Section  analysis.SectionID
	Control  *audio.Control
	Playback audio.Playback
	Err      error
}

// AudioFinishedMsg is sent when playback ends on its own or is stopped.
type AudioFinishedMsg struct {
	Section analysis.SectionID
	Err     error
}

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// ChatReplyMsg carries the answer for an in-flight question.
type ChatReplyMsg struct {
	Request *chat.Request
	Reply   string
	Err     error
}

// TurnsSavedMsg reports persisting the transcript.
type TurnsSavedMsg struct {
	Err error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigChangedMsg delivers a configuration reloaded from disk.
type ConfigChangedMsg struct {
	Config *config.Config
}
