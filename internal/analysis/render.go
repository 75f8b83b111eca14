// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts section markdown, severity glyphs included, to display
// output.
type Renderer interface {
	Render(markdown string) (string, error)
}

// =============================================================================
// HTML
// =============================================================================

// HTMLRenderer renders markdown to sanitized HTML with indicator spans.
type HTMLRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewHTMLRenderer creates a goldmark renderer with GitHub-flavored markdown.
func NewHTMLRenderer() *HTMLRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			// Indicator spans are inline HTML; the policy below sanitizes.
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class", "title").OnElements("span")

	return &HTMLRenderer{md: md, policy: policy}
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(markdown string) (string, error) {
	source := ReplaceGlyphs(markdown, IndicatorHTML)
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// =============================================================================
// TERMINAL
// =============================================================================

// TerminalRenderer renders markdown for the terminal with glamour and draws
// colored dots for severity glyphs.
type TerminalRenderer struct {
	tr   *glamour.TermRenderer
	dots map[Severity]string
}

// NewTerminalRenderer creates a renderer for a dark or light background,
// wrapping at width columns.
func NewTerminalRenderer(dark bool, width int) (*TerminalRenderer, error) {
	style := "light"
	if dark {
		style = "dark"
	}
	if width <= 0 {
		width = 80
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, fmt.Errorf("create terminal renderer: %w", err)
	}

	dots := make(map[Severity]string, len(Severities))
	for _, s := range Severities {
		// Glyphs are two cells wide; keep the column count unchanged.
		dots[s] = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Hex())).Render("●") + " "
	}
	return &TerminalRenderer{tr: tr, dots: dots}, nil
}

// Render implements Renderer.
func (r *TerminalRenderer) Render(markdown string) (string, error) {
	out, err := r.tr.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render terminal: %w", err)
	}
	out = ReplaceGlyphs(out, func(s Severity) string { return r.dots[s] })
	return strings.Trim(out, "\n"), nil
}

// =============================================================================
// PLAIN
// =============================================================================

// PlainRenderer passes markdown through, spelling out severities. It is used
// when output is not a terminal.
type PlainRenderer struct{}

// Render implements Renderer.
func (PlainRenderer) Render(markdown string) (string, error) {
	return ReplaceGlyphs(markdown, func(s Severity) string {
		return "[" + strings.ToUpper(s.Label()) + "]"
	}), nil
}
