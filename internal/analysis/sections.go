// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"regexp"
	"strings"
)

// SectionID identifies one of the three result sections.
type SectionID int

const (
	SectionSummary SectionID = iota
	SectionKeyClauses
	SectionAdvice
)

// SectionIDs lists the sections in display order.
var SectionIDs = []SectionID{SectionSummary, SectionKeyClauses, SectionAdvice}

var sectionInfo = [...]struct {
	title string
	slug  string
}{
	SectionSummary:    {"Summary", "summary"},
	SectionKeyClauses: {"Key Clauses Explained", "key-clauses"},
	SectionAdvice:     {"My Advice To You", "advice"},
}

// Title is the header text without the leading hashes.
func (id SectionID) Title() string { return sectionInfo[id].title }

// Slug is a stable identifier for URLs and file names.
func (id SectionID) Slug() string { return sectionInfo[id].slug }

// Marker is the exact header line that starts the section.
func (id SectionID) Marker() string { return "### " + sectionInfo[id].title }

func (id SectionID) String() string { return sectionInfo[id].slug }

// SectionBySlug resolves a slug such as "key-clauses".
func SectionBySlug(slug string) (SectionID, bool) {
	for _, id := range SectionIDs {
		if id.Slug() == slug {
			return id, true
		}
	}
	return 0, false
}

// Sections is the partition of an analysis text.
type Sections struct {
	Summary    string
	KeyClauses string
	Advice     string
}

// Get returns the content of a section.
func (s Sections) Get(id SectionID) string {
	switch id {
	case SectionSummary:
		return s.Summary
	case SectionKeyClauses:
		return s.KeyClauses
	case SectionAdvice:
		return s.Advice
	}
	return ""
}

func (s *Sections) set(id SectionID, content string) {
	switch id {
	case SectionSummary:
		s.Summary = content
	case SectionKeyClauses:
		s.KeyClauses = content
	case SectionAdvice:
		s.Advice = content
	}
}

// Empty reports whether all sections are empty.
func (s Sections) Empty() bool {
	return s.Summary == "" && s.KeyClauses == "" && s.Advice == ""
}

var leadingMarker = regexp.MustCompile(`^#{1,6}[ \t]*`)

// Parse splits text by the section markers. Each section runs from the end
// of its marker to the next marker found (or the end of the text) and is
// trimmed. When no marker is present and done is true, the whole text is
// the Summary; while streaming, such text yields no sections yet.
func Parse(text string, done bool) Sections {
	var out Sections

	starts := make(map[SectionID]int, len(SectionIDs))
	for _, id := range SectionIDs {
		if i := strings.Index(text, id.Marker()); i >= 0 {
			starts[id] = i
		}
	}

	if len(starts) == 0 {
		if done {
			out.Summary = strings.TrimSpace(leadingMarker.ReplaceAllString(strings.TrimSpace(text), ""))
		}
		return out
	}

	for id, start := range starts {
		end := len(text)
		for _, other := range starts {
			if other > start && other < end {
				end = other
			}
		}
		body := text[start+len(id.Marker()) : end]
		body = strings.TrimLeft(body, ": \t")
		out.set(id, strings.TrimSpace(body))
	}
	return out
}
