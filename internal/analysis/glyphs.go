// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"regexp"
	"strings"
)

// Severity is the attention level the backend assigns to a clause.
type Severity int

const (
	SeverityHigh Severity = iota
	SeverityMedium
	SeveritySafe
)

// Severities lists the levels from most to least severe.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeveritySafe}

var severityInfo = [...]struct {
	glyph string
	color string
	hex   string
	label string
}{
	SeverityHigh:   {"🔴", "red", "#EF4444", "High risk"},
	SeverityMedium: {"🟡", "yellow", "#EAB308", "Medium risk"},
	SeveritySafe:   {"🟢", "green", "#22C55E", "Safe"},
}

// Glyph is the emoji the backend embeds in its text.
func (s Severity) Glyph() string { return severityInfo[s].glyph }

// Color is the indicator color name used in CSS classes.
func (s Severity) Color() string { return severityInfo[s].color }

// Hex is the indicator color for terminals.
func (s Severity) Hex() string { return severityInfo[s].hex }

// Label is a short human-readable description.
func (s Severity) Label() string { return severityInfo[s].label }

// ReplaceGlyphs substitutes every severity glyph in text with repl(severity).
func ReplaceGlyphs(text string, repl func(Severity) string) string {
	pairs := make([]string, 0, 2*len(Severities))
	for _, s := range Severities {
		pairs = append(pairs, s.Glyph(), repl(s))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// IndicatorHTML is the inline element that stands in for a glyph in HTML.
func IndicatorHTML(s Severity) string {
	return `<span class="indicator indicator-` + s.Color() + `" title="` + s.Label() + `"></span>`
}

// CountSeverities counts the glyphs of each level in text.
func CountSeverities(text string) map[Severity]int {
	counts := make(map[Severity]int, len(Severities))
	for _, s := range Severities {
		counts[s] = strings.Count(text, s.Glyph())
	}
	return counts
}

var (
	emphasisChars = strings.NewReplacer("*", "", "_", "", "#", "", "`", "")
	blankRun      = regexp.MustCompile(`[ \t]+`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// SpeechText strips glyphs and markdown emphasis so the text reads naturally
// when synthesized.
func SpeechText(markdown string) string {
	text := ReplaceGlyphs(markdown, func(Severity) string { return "" })
	text = emphasisChars.Replace(text)
	text = blankRun.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
