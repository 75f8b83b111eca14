// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/ingest"
)

// ErrBusy is returned when an analysis is already running.
var ErrBusy = errors.New("an analysis is already running")

// State is the session state. It is owned by one event loop and is not safe
// for concurrent use.
type State struct {
	input    ingest.Input
	language string

	attemptID string
	analysis  string
	done      bool
	loading   bool
	started   time.Time
	finished  time.Time
}

// New creates an empty session analyzing in language.
func New(language string) *State {
	return &State{language: language}
}

// =============================================================================
// INPUT
// =============================================================================

// Input returns the active input, or nil.
func (s *State) Input() ingest.Input { return s.input }

// Text returns the active text input, or "" when none is active.
func (s *State) Text() string {
	if t, ok := s.input.(*ingest.TextInput); ok {
		return t.Text
	}
	return ""
}

// Image returns the active image input, or nil.
func (s *State) Image() *ingest.ImageInput {
	img, _ := s.input.(*ingest.ImageInput)
	return img
}

// SetText records typed or pasted text. An active image is discarded
// together with the analysis.
func (s *State) SetText(text string) {
	if _, isImage := s.input.(*ingest.ImageInput); isImage {
		s.clearAnalysis()
	}
	if text == "" {
		s.input = nil
		return
	}
	s.input = ingest.FromText(text)
}

// SetFile replaces the input with a loaded file and clears the analysis.
func (s *State) SetFile(in ingest.Input) {
	s.input = in
	s.clearAnalysis()
}

// Reset clears input and analysis.
func (s *State) Reset() {
	s.input = nil
	s.clearAnalysis()
}

// =============================================================================
// LANGUAGE
// =============================================================================

// Language returns the analysis language.
func (s *State) Language() string { return s.language }

// SetLanguage changes the language for the next analysis.
func (s *State) SetLanguage(language string) { s.language = language }

// =============================================================================
// ANALYSIS
// =============================================================================

// Begin starts an analysis attempt and returns its ID. Partial text from a
// previous attempt is cleared first.
func (s *State) Begin() (string, error) {
	if s.loading {
		return "", ErrBusy
	}
	if s.input == nil || s.input.Empty() {
		return "", analysis.ErrNoInput
	}
	s.clearAnalysis()
	s.attemptID = uuid.NewString()
	s.loading = true
	s.started = time.Now()
	return s.attemptID, nil
}

// Update replaces the accumulated text of attempt id. Updates for other
// attempts are ignored and reported as false.
func (s *State) Update(id, accumulated string) bool {
	if !s.loading || id != s.attemptID {
		return false
	}
	s.analysis = accumulated
	return true
}

// Finish ends attempt id. On error the partial text is dropped.
func (s *State) Finish(id string, err error) bool {
	if !s.loading || id != s.attemptID {
		return false
	}
	s.loading = false
	s.finished = time.Now()
	if err != nil {
		s.analysis = ""
		s.done = false
		return true
	}
	s.done = true
	return true
}

// AttemptID is the ID of the current or last attempt.
func (s *State) AttemptID() string { return s.attemptID }

// Analysis returns the accumulated analysis text.
func (s *State) Analysis() string { return s.analysis }

// Done reports whether the last attempt completed successfully.
func (s *State) Done() bool { return s.done }

// Loading reports whether an attempt is running.
func (s *State) Loading() bool { return s.loading }

// HasResult reports whether a completed analysis is available.
func (s *State) HasResult() bool { return s.done && s.analysis != "" }

// Elapsed is the duration of the running or last attempt.
func (s *State) Elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	if s.loading {
		return time.Since(s.started)
	}
	return s.finished.Sub(s.started)
}

// Sections parses the current analysis text.
func (s *State) Sections() analysis.Sections {
	return analysis.Parse(s.analysis, s.done)
}

func (s *State) clearAnalysis() {
	s.analysis = ""
	s.done = false
	s.loading = false
}
