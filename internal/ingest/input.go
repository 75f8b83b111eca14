// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ingest

import (
	"errors"
	"strings"

	"github.com/jeranaias/legalease-tui/internal/imaging"
)

// ErrUnknownInput is returned by Visit for values that are neither case.
var ErrUnknownInput = errors.New("unknown input kind")

// Kind identifies the active case of an Input.
type Kind int

const (
	KindText Kind = iota
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Input is a document ready for analysis. The only implementations are
// *TextInput and *ImageInput.
type Input interface {
	Kind() Kind

	// Source is a human-readable label such as a file name.
	Source() string

	// Empty reports whether there is nothing to analyze.
	Empty() bool

	sealed()
}

// TextInput is document text.
type TextInput struct {
	Text  string
	Label string
}

func (t *TextInput) Kind() Kind     { return KindText }
func (t *TextInput) Source() string { return t.Label }
func (t *TextInput) Empty() bool    { return strings.TrimSpace(t.Text) == "" }
func (t *TextInput) sealed()        {}

// ImageInput is an uploaded photo of a document.
type ImageInput struct {
	Data      []byte
	MediaType string
	Label     string
}

func (i *ImageInput) Kind() Kind     { return KindImage }
func (i *ImageInput) Source() string { return i.Label }
func (i *ImageInput) Empty() bool    { return len(i.Data) == 0 }
func (i *ImageInput) sealed()        {}

// PreviewDataURL returns the original image as a data URL for display.
func (i *ImageInput) PreviewDataURL() string {
	return imaging.DataURL(i.MediaType, i.Data)
}

// Visit calls the handler matching the active case of in.
func Visit(in Input, onText func(*TextInput) error, onImage func(*ImageInput) error) error {
	switch v := in.(type) {
	case *TextInput:
		return onText(v)
	case *ImageInput:
		return onImage(v)
	default:
		return ErrUnknownInput
	}
}

// PastedLabel is the source label for text typed or pasted by the user.
const PastedLabel = "Pasted text"

// FromText wraps pasted text.
func FromText(text string) *TextInput {
	return &TextInput{Text: normalizeText(text), Label: PastedLabel}
}
