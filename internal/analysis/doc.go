// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package analysis runs document analyses and presents their results.
//
// The backend answers with markdown split by three fixed headers:
//
//	### Summary
//	### Key Clauses Explained
//	### My Advice To You
//
// Parse re-derives the sections from the accumulated text on every update,
// so it works the same on a partial stream and on the final result. Clauses
// carry severity glyphs (🔴 high risk, 🟡 medium, 🟢 safe) which renderers
// turn into colored indicators.
//
// Renderers are injected: HTMLRenderer (goldmark) for the browser report and
// TerminalRenderer (glamour) for the TUI and CLI.
package analysis
