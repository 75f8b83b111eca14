// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

// Endpoint paths relative to the base URL.
const (
	PathAnalyzeText  = "/analyze-text-stream"
	PathAnalyzeImage = "/analyze-image-stream"
	PathTextToSpeech = "/text-to-speech"
	PathChat         = "/chat-with-document"
)

// Chat roles as understood by the backend.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// AnalyzeTextRequest is the body of PathAnalyzeText.
type AnalyzeTextRequest struct {
	Document string `json:"document"`
	Language string `json:"language"`
}

// AnalyzeImageRequest is the body of PathAnalyzeImage. ImageData is a raw
// base64 JPEG without data URL prefix.
type AnalyzeImageRequest struct {
	ImageData string `json:"image_data"`
	Language  string `json:"language"`
}

// SpeechRequest is the body of PathTextToSpeech.
type SpeechRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// SpeechResponse carries base64 PCM16 audio. MimeType includes the sample
// rate, e.g. "audio/L16;rate=24000".
type SpeechResponse struct {
	AudioData string `json:"audio_data"`
	MimeType  string `json:"mime_type"`
}

// Part is one text part of a history turn.
type Part struct {
	Text string `json:"text"`
}

// HistoryTurn is one prior chat turn.
type HistoryTurn struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// NewTurn builds a single-part history turn.
func NewTurn(role, text string) HistoryTurn {
	return HistoryTurn{Role: role, Parts: []Part{{Text: text}}}
}

// ChatRequest is the body of PathChat.
type ChatRequest struct {
	Document string        `json:"document"`
	History  []HistoryTurn `json:"history"`
	Question string        `json:"question"`
	Language string        `json:"language"`
}

// ChatResponse is the JSON body of PathChat.
type ChatResponse struct {
	Response string `json:"response"`
}

// errorResponse is the JSON error body of the backend.
type errorResponse struct {
	Detail any `json:"detail"`
}
