// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat holds the follow-up conversation about an analyzed document.
//
// A question is handled in two steps so that a UI event loop can own all
// mutation: Begin appends the user turn and an empty model placeholder and
// returns the request to send; Complete fills the placeholder with the
// reply or with a "Sorry, an error occurred: ..." message. Ask does both for
// synchronous callers.
//
// The history sent with a question is the transcript as it was before that
// question's pair of turns was appended.
package chat
