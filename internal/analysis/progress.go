// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

// ProgressMessages rotate while an analysis is loading. They are cosmetic
// and not tied to actual progress of the request.
var ProgressMessages = []string{
	"Reading your document...",
	"Finding the important clauses...",
	"Checking for risky terms...",
	"Translating legal jargon into plain language...",
	"Preparing advice for you...",
	"Almost there...",
}

// Progress cycles through ProgressMessages.
type Progress struct {
	index int
}

// Current returns the message to show.
func (p *Progress) Current() string {
	return ProgressMessages[p.index%len(ProgressMessages)]
}

// Advance moves to the next message, wrapping around.
func (p *Progress) Advance() {
	p.index = (p.index + 1) % len(ProgressMessages)
}

// Reset returns to the first message.
func (p *Progress) Reset() {
	p.index = 0
}
