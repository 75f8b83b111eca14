// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists finished analyses and their chat transcripts.
//
// # Key Types
//
//   - Store: sqlite-backed history (modernc.org/sqlite, no cgo)
//   - Record: one analysis with the document it was grounded in
//   - Summary: lightweight row for listing
//
// # Usage
//
//	store, err := storage.Open(path)
//	id, err := store.Save(ctx, &storage.Record{...})
//	rec, err := store.Latest(ctx)
//	err = store.SaveTurns(ctx, rec.ID, conv.Transcript.Turns())
//
// # Storage Location
//
// History lives in ~/.legalease/history.db unless [storage].path says
// otherwise.
package storage
