// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// =============================================================================
// STREAM ACCUMULATOR
// =============================================================================

// StreamAccumulator appends raw body chunks to a growing text. A multi-byte
// character split across two chunks is held back until it is complete.
type StreamAccumulator struct {
	// strings.Builder avoids quadratic copying on long analyses.
	text    strings.Builder
	pending []byte
}

// Write appends p and returns the newly decoded text, which may be empty.
func (a *StreamAccumulator) Write(p []byte) string {
	data := append(a.pending, p...)
	cut := completePrefix(data)
	chunk := string(data[:cut])
	a.pending = append([]byte(nil), data[cut:]...)
	a.text.WriteString(chunk)
	return chunk
}

// Flush appends any held-back bytes. Invalid sequences become U+FFFD.
func (a *StreamAccumulator) Flush() string {
	if len(a.pending) == 0 {
		return ""
	}
	chunk := strings.ToValidUTF8(string(a.pending), "�")
	a.pending = nil
	a.text.WriteString(chunk)
	return chunk
}

// String returns the text accumulated so far.
func (a *StreamAccumulator) String() string {
	return a.text.String()
}

// Reset clears the accumulator for a new attempt.
func (a *StreamAccumulator) Reset() {
	a.text.Reset()
	a.pending = nil
}

// completePrefix returns the length of the longest prefix of data that does
// not end inside a UTF-8 sequence.
func completePrefix(data []byte) int {
	n := len(data)
	for i := n - 1; i >= 0 && i >= n-utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if !utf8.FullRune(data[i:]) {
				return i
			}
			return n
		}
	}
	return n
}

// =============================================================================
// STREAM READER
// =============================================================================

const readBufferSize = 4096

// StreamReader consumes a streamed response body.
type StreamReader struct {
	r      io.Reader
	acc    StreamAccumulator
	chunks int
}

// NewStreamReader creates a stream reader from an io.Reader.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: r}
}

// Process reads until EOF, invoking cb for every non-empty decoded chunk.
// Blocks until the stream is complete or the context is cancelled.
func (s *StreamReader) Process(ctx context.Context, cb StreamCallback) error {
	buf := make([]byte, readBufferSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := s.r.Read(buf)
		if n > 0 {
			s.emit(s.acc.Write(buf[:n]), cb)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.emit(s.acc.Flush(), cb)
				return nil
			}
			return err
		}
	}
}

func (s *StreamReader) emit(chunk string, cb StreamCallback) {
	if chunk == "" {
		return
	}
	s.chunks++
	if cb != nil {
		cb(s.acc.String(), chunk)
	}
}

// Accumulated returns all text read so far.
func (s *StreamReader) Accumulated() string {
	return s.acc.String()
}

// Chunks returns the number of chunks delivered to the callback.
func (s *StreamReader) Chunks() int {
	return s.chunks
}
