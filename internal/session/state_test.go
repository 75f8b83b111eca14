// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/ingest"
)

func completed(t *testing.T, s *State) {
	t.Helper()
	id, err := s.Begin()
	require.NoError(t, err)
	require.True(t, s.Update(id, "### Summary\nDone."))
	require.True(t, s.Finish(id, nil))
	require.True(t, s.HasResult())
}

func TestImageAfterTextClearsText(t *testing.T) {
	s := New("English")
	s.SetText("lease text")
	completed(t, s)

	img := &ingest.ImageInput{Data: []byte{1, 2}, MediaType: "image/jpeg", Label: "photo.jpg"}
	s.SetFile(img)

	assert.Equal(t, "", s.Text())
	assert.Same(t, img, s.Image())
	assert.Empty(t, s.Analysis())
	assert.False(t, s.HasResult())
}

func TestTextAfterImageClearsImageAndAnalysis(t *testing.T) {
	s := New("English")
	s.SetFile(&ingest.ImageInput{Data: []byte{1}, MediaType: "image/png"})
	completed(t, s)

	s.SetText("typed")
	assert.Nil(t, s.Image())
	assert.Equal(t, "typed", s.Text())
	assert.Empty(t, s.Analysis())
}

func TestTypingKeepsAnalysisForTextInput(t *testing.T) {
	s := New("English")
	s.SetText("lease")
	completed(t, s)

	s.SetText("lease, edited")
	assert.True(t, s.HasResult())
}

func TestNewFileAlwaysClearsAnalysis(t *testing.T) {
	s := New("English")
	s.SetText("one")
	completed(t, s)

	s.SetFile(&ingest.TextInput{Text: "two", Label: "two.txt"})
	assert.False(t, s.HasResult())
	assert.Equal(t, "two", s.Text())
}

func TestBeginRequiresInput(t *testing.T) {
	s := New("English")
	_, err := s.Begin()
	assert.ErrorIs(t, err, analysis.ErrNoInput)

	s.SetText("   ")
	_, err = s.Begin()
	assert.ErrorIs(t, err, analysis.ErrNoInput)
	assert.False(t, s.Loading())
}

func TestBeginWhileLoading(t *testing.T) {
	s := New("English")
	s.SetText("doc")
	_, err := s.Begin()
	require.NoError(t, err)
	_, err = s.Begin()
	assert.ErrorIs(t, err, ErrBusy)
}

func TestFailureClearsPartialText(t *testing.T) {
	s := New("English")
	s.SetText("doc")
	id, err := s.Begin()
	require.NoError(t, err)
	s.Update(id, "### Summary\nhalf")

	s.Finish(id, errors.New("Internal error"))
	assert.Empty(t, s.Analysis())
	assert.False(t, s.Loading())
	assert.False(t, s.Done())
	assert.True(t, s.Sections().Empty())
}

func TestStaleAttemptIgnored(t *testing.T) {
	s := New("English")
	s.SetText("doc")
	first, err := s.Begin()
	require.NoError(t, err)
	s.Finish(first, errors.New("x"))

	second, err := s.Begin()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.False(t, s.Update(first, "stale"))
	assert.True(t, s.Update(second, "### Summary\nfresh"))
	assert.Equal(t, "fresh", s.Sections().Summary)
}
