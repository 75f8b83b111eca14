// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package analysis

import (
	"context"
	"errors"

	"github.com/jeranaias/legalease-tui/internal/backend"
	"github.com/jeranaias/legalease-tui/internal/imaging"
	"github.com/jeranaias/legalease-tui/internal/ingest"
)

// ErrNoInput is returned when there is nothing to analyze. No request is
// made.
var ErrNoInput = errors.New("please paste some text or choose a file to analyze")

// Streamer is the part of the backend client used for analysis.
type Streamer interface {
	AnalyzeTextStream(ctx context.Context, document, language string, cb backend.StreamCallback) (string, error)
	AnalyzeImageStream(ctx context.Context, imageData, language string, cb backend.StreamCallback) (string, error)
}

// Analyze sends in to the matching streaming endpoint and returns the full
// text. Images are normalized first; a decode failure aborts before any
// request. cb sees the accumulated text after every chunk.
func Analyze(ctx context.Context, s Streamer, in ingest.Input, language string, cb backend.StreamCallback) (string, error) {
	if in == nil || in.Empty() {
		return "", ErrNoInput
	}

	var result string
	err := ingest.Visit(in,
		func(t *ingest.TextInput) error {
			var err error
			result, err = s.AnalyzeTextStream(ctx, t.Text, language, cb)
			return err
		},
		func(img *ingest.ImageInput) error {
			normalized, err := imaging.Normalize(img.Data)
			if err != nil {
				return err
			}
			result, err = s.AnalyzeImageStream(ctx, normalized.Base64(), language, cb)
			return err
		},
	)
	return result, err
}

// ChatDocument is the text chat answers are grounded in. Images have no
// extracted text, so the analysis itself stands in for them.
func ChatDocument(in ingest.Input, analysisText string) string {
	if t, ok := in.(*ingest.TextInput); ok {
		return t.Text
	}
	return analysisText
}
