// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the LegalEase analysis service.
//
// The service exposes four endpoints:
//
//   - POST /analyze-text-stream   {document, language} -> streamed markdown
//   - POST /analyze-image-stream  {image_data, language} -> streamed markdown
//   - POST /text-to-speech        {text, language} -> {audio_data, mime_type}
//   - POST /chat-with-document    {document, history, question, language} -> {response}
//
// Streaming endpoints are read chunk by chunk; the callback receives the
// accumulated text after every chunk so callers can render progressively.
//
// # Usage
//
//	client := backend.NewClient(backend.ResolveBaseURL(host, localURL, deployedURL))
//	text, err := client.AnalyzeTextStream(ctx, doc, "English", func(acc, chunk string) {
//	    fmt.Print(chunk)
//	})
//
// Errors are *ClientError values; use IsTimeout, IsStatus and StatusCode to
// classify them.
package backend
