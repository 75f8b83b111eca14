// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/audio"
	"github.com/jeranaias/legalease-tui/internal/imaging"
	"github.com/jeranaias/legalease-tui/internal/ingest"
	"github.com/jeranaias/legalease-tui/internal/language"
)

// section returns the displayed section id.
func (m Model) section(id analysis.SectionID) (analysis.RenderedSection, bool) {
	for _, sec := range m.sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return analysis.RenderedSection{}, false
}

func (m *Model) refreshReport() {
	m.report.SetContent(m.renderReport())
}

// renderReport lays out the sections with their severity counts and, once
// the analysis is done, a play button per section.
func (m Model) renderReport() string {
	if len(m.sections) == 0 {
		return ""
	}
	var b strings.Builder
	for _, sec := range m.sections {
		title := m.theme.SectionTitle.Render(sec.Title)
		if m.state.Done() {
			title += "  " + m.audioButton(sec.ID)
		}
		b.WriteString(title)
		b.WriteString("\n")
		if counts := m.severityLine(sec); counts != "" {
			b.WriteString(counts)
			b.WriteString("\n")
		}
		b.WriteString(sec.Rendered)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) severityLine(sec analysis.RenderedSection) string {
	var parts []string
	for _, s := range analysis.Severities {
		if n := sec.Severities[s]; n > 0 {
			parts = append(parts, m.theme.SeverityDot(s)+" "+m.theme.Muted.Render(fmt.Sprintf("%d %s", n, s.Label())))
		}
	}
	return strings.Join(parts, "   ")
}

// audioButton renders the play control of a section.
func (m Model) audioButton(id analysis.SectionID) string {
	n := strconv.Itoa(int(id) + 1)
	state := audio.Idle
	if c, ok := m.rt.controls[id]; ok {
		state = c.State()
	}
	switch state {
	case audio.Generating:
		return m.theme.AudioBusy.Render(m.spinner.View() + " generating audio...")
	case audio.Playing:
		return m.theme.AudioPlaying.Render("[" + n + "] ■ stop")
	case audio.Ready:
		return m.theme.AudioIdle.Render("[" + n + "] ▶ play again")
	}
	return m.theme.AudioIdle.Render("[" + n + "] ▶ listen")
}

// describeImage summarizes an image input and the size it is sent at.
func describeImage(img *ingest.ImageInput) string {
	if img == nil {
		return ""
	}
	w, h, err := imaging.Dimensions(img.Data)
	if err != nil {
		return fmt.Sprintf("%s, unreadable image: %v", img.MediaType, err)
	}
	sw, sh := imaging.ScaledSize(w, h, imaging.MaxWidth)
	if sw == w && sh == h {
		return fmt.Sprintf("%s, %dx%d", img.MediaType, w, h)
	}
	return fmt.Sprintf("%s, %dx%d (sent as %dx%d JPEG)", img.MediaType, w, h, sw, sh)
}

// languageAfter is the next supported language name.
func languageAfter(name string) string {
	return language.Next(name).Name
}

func keyMatches(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}

// sectionAt maps a play key index to its section.
func sectionAt(i int) analysis.SectionID {
	return analysis.SectionIDs[i]
}
