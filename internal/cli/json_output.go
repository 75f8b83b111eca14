// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - Machine-readable output for --json.

package cli

import (
	"encoding/json"
	"io"
	"time"
)

// JSONResponse is the envelope every --json command prints.
type JSONResponse struct {
	Success   bool    `json:"success"`
	Data      any     `json:"data"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
	Command   string  `json:"command,omitempty"`
}

// NewJSONResponse wraps data from a successful command.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse wraps a failure.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write prints the response as indented JSON.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// sectionJSON is one analysis section in JSON output.
type sectionJSON struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Markdown string         `json:"markdown"`
	Audio    string         `json:"audio,omitempty"`
	Risk     map[string]int `json:"risk,omitempty"`
}

// analysisJSON is the JSON form of an analysis.
type analysisJSON struct {
	ID        string        `json:"id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Source    string        `json:"source"`
	Kind      string        `json:"kind"`
	Language  string        `json:"language"`
	Sections  []sectionJSON `json:"sections"`
	Raw       string        `json:"raw"`
}
