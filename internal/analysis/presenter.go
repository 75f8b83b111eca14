// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import "errors"

// RenderedSection is one non-empty section ready for display.
type RenderedSection struct {
	ID       SectionID
	Title    string
	Markdown string

	// Rendered is the renderer output, or Markdown if rendering failed.
	Rendered string

	// Speech is the text handed to speech synthesis.
	Speech string

	Severities map[Severity]int
}

// Presenter turns accumulated analysis text into rendered sections.
type Presenter struct {
	renderer Renderer
}

// NewPresenter creates a presenter using renderer.
func NewPresenter(renderer Renderer) *Presenter {
	return &Presenter{renderer: renderer}
}

// Present parses text and renders every non-empty section in order. A
// rendering failure keeps the raw markdown for that section and is returned
// alongside the sections.
func (p *Presenter) Present(text string, done bool) ([]RenderedSection, error) {
	sections := Parse(text, done)
	var out []RenderedSection
	var errs []error
	for _, id := range SectionIDs {
		content := sections.Get(id)
		if content == "" {
			continue
		}
		rendered, err := p.renderer.Render(content)
		if err != nil {
			errs = append(errs, err)
			rendered = content
		}
		out = append(out, RenderedSection{
			ID:         id,
			Title:      id.Title(),
			Markdown:   content,
			Rendered:   rendered,
			Speech:     SpeechText(content),
			Severities: CountSeverities(content),
		})
	}
	return out, errors.Join(errs...)
}
