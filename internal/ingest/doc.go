// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ingest turns user-provided documents into analysis input.
//
// An Input is exactly one of two cases: TextInput (pasted text, a .txt file
// or the text extracted from a PDF) or ImageInput (a photo of a document,
// kept as the original bytes; text recognition happens on the backend).
// Use Visit to handle both cases exhaustively.
//
// # Supported types
//
//   - text/plain: decoded (UTF-8 or UTF-16 with BOM) and NFC-normalized
//   - application/pdf: page texts joined in page order by a blank line
//   - image/*: stored as-is with a preview data URL
//
// Anything else is rejected with ErrUnsupportedType.
package ingest
