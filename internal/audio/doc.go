// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio turns synthesized speech into playable clips.
//
// The speech backend returns raw 16-bit little-endian mono PCM encoded as
// base64, together with a media type such as "audio/L16;rate=24000". This
// package wraps those samples in a canonical 44-byte WAV header, keeps the
// result in a temporary file and plays it through an external player.
//
// # Key Types
//
//   - Clip: a WAV file on disk, released exactly once
//   - Control: per-section playback state machine with a one-clip cache
//   - Player: starts playback of a clip (ExecPlayer shells out)
//   - Synthesizer: produces speech for a piece of text
//
// # Usage
//
//	ctrl := audio.NewControl(synth, audio.NewExecPlayer(""))
//	defer ctrl.Close()
//	done, err := ctrl.Activate(ctx, sectionText, "Hindi")
//	if err != nil {
//	    return err // "Audio failed: ..."
//	}
//	<-done
package audio
