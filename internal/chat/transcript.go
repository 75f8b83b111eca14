// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/legalease-tui/internal/backend"
)

// Role tags a turn.
type Role string

const (
	RoleUser  Role = backend.RoleUser
	RoleModel Role = backend.RoleModel
)

// Greeting seeds the transcript once an analysis exists.
const Greeting = "Hello! I have analyzed your document. Do you have any specific questions about it?"

// Turn is one entry of the transcript.
type Turn struct {
	ID   string    `json:"id"`
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`

	// Failed marks a model turn filled with an error message.
	Failed bool `json:"failed,omitempty"`
}

// Pending reports whether the turn is a model placeholder still waiting.
func (t Turn) Pending() bool {
	return t.Role == RoleModel && t.Text == "" && !t.Failed
}

func newTurn(role Role, text string) Turn {
	return Turn{ID: uuid.NewString(), Role: role, Text: text, At: time.Now()}
}

// Transcript is an ordered list of turns. It is not safe for concurrent use.
type Transcript struct {
	turns []Turn
}

// NewTranscript creates a transcript holding turns, e.g. restored from
// storage.
func NewTranscript(turns ...Turn) *Transcript {
	return &Transcript{turns: append([]Turn(nil), turns...)}
}

// Turns returns a copy of the turns.
func (t *Transcript) Turns() []Turn {
	return append([]Turn(nil), t.turns...)
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Last returns the newest turn.
func (t *Transcript) Last() (Turn, bool) {
	if len(t.turns) == 0 {
		return Turn{}, false
	}
	return t.turns[len(t.turns)-1], true
}

// Seed appends a model greeting if the transcript is empty. It reports
// whether the greeting was added.
func (t *Transcript) Seed(greeting string) bool {
	if len(t.turns) > 0 {
		return false
	}
	t.turns = append(t.turns, newTurn(RoleModel, greeting))
	return true
}

// Clear removes every turn.
func (t *Transcript) Clear() {
	t.turns = nil
}

// History converts the turns to the backend wire shape.
func (t *Transcript) History() []backend.HistoryTurn {
	return toHistory(t.turns)
}

func toHistory(turns []Turn) []backend.HistoryTurn {
	history := make([]backend.HistoryTurn, 0, len(turns))
	for _, turn := range turns {
		history = append(history, backend.NewTurn(string(turn.Role), turn.Text))
	}
	return history
}

func (t *Transcript) fill(id, text string, failed bool) bool {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].ID == id {
			t.turns[i].Text = text
			t.turns[i].Failed = failed
			t.turns[i].At = time.Now()
			return true
		}
	}
	return false
}
