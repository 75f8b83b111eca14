// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server serves stored analyses as HTML reports on a local port.
//
// # Endpoints
//
//   - GET /                                 - List stored analyses
//   - GET /analyses/:id                     - Report page (?theme=dark|light)
//   - GET /analyses/:id/audio/:section      - Section speech as audio/wav
//   - GET /health                           - Health check
//
// Section audio is synthesized on first request and kept for a while in
// an expiring cache; evicted clips are released from disk.
//
// # Usage
//
//	srv := server.New(server.Config{Addr: "127.0.0.1:8750", Store: store, Synth: client})
//	go srv.ListenAndServe()
//	defer srv.Shutdown(ctx)
package server
