// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the document and analysis of one interactive run.
//
// Exactly one input is active at a time. Choosing a file replaces the input
// and clears any analysis; typing text while an image is active clears the
// image and the analysis first. Each analysis attempt gets a fresh ID so
// chunks from an abandoned attempt can be recognized and dropped.
package session
