// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// =============================================================================
// STATE
// =============================================================================

// State is the playback state of a Control.
type State int

const (
	Idle State = iota
	Generating
	Ready
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Generating:
		return "generating"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrBusy      = errors.New("audio is already being generated")
	ErrEmptyText = errors.New("there is no text to read aloud")
	ErrClosed    = errors.New("audio control closed")
)

// FailedError wraps a synthesis or playback failure. Its message is the
// user-facing "Audio failed: <message>".
type FailedError struct {
	Err error
}

func (e *FailedError) Error() string {
	return "Audio failed: " + e.Err.Error()
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

// =============================================================================
// SYNTHESIZER
// =============================================================================

// Speech is a synthesized utterance as returned by the speech backend.
type Speech struct {
	AudioData string // base64 PCM16
	MimeType  string // e.g. "audio/L16;rate=24000"
}

// Synthesizer produces speech for text in a language.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, language string) (*Speech, error)
}

// SynthesizerFunc adapts a function to Synthesizer.
type SynthesizerFunc func(ctx context.Context, text, language string) (*Speech, error)

func (f SynthesizerFunc) Synthesize(ctx context.Context, text, language string) (*Speech, error) {
	return f(ctx, text, language)
}

// Synthesize requests speech and frames it as a clip in dir.
func Synthesize(ctx context.Context, synth Synthesizer, dir, text, language string) (*Clip, error) {
	speech, err := synth.Synthesize(ctx, text, language)
	if err != nil {
		return nil, err
	}
	wav, err := BuildWAV(speech.AudioData, speech.MimeType)
	if err != nil {
		return nil, err
	}
	return NewClip(dir, wav)
}

// =============================================================================
// CONTROL
// =============================================================================

// Control is the play button of one section. It caches at most one clip,
// generated on first activation and replayed afterwards.
type Control struct {
	synth  Synthesizer
	player Player
	dir    string

	mu       sync.Mutex
	state    State
	clip     *Clip
	playback Playback
	closed   bool
}

// Option configures a Control.
type Option func(*Control)

// WithTempDir sets the directory for clip files.
func WithTempDir(dir string) Option {
	return func(c *Control) { c.dir = dir }
}

// NewControl creates an idle control.
func NewControl(synth Synthesizer, player Player, opts ...Option) *Control {
	c := &Control{synth: synth, player: player}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Control) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HasClip reports whether a clip is cached.
func (c *Control) HasClip() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clip != nil
}

// Clip returns the cached clip, or nil.
func (c *Control) Clip() *Clip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clip
}

// Activate presses the play button.
//
// While playing, it stops playback and rewinds, returning a nil Playback.
// Otherwise it generates the clip if none is cached yet and starts playing
// it from the start. text must already be stripped of markup.
func (c *Control) Activate(ctx context.Context, text, language string) (Playback, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	switch c.state {
	case Generating:
		c.mu.Unlock()
		return nil, ErrBusy
	case Playing:
		pb := c.playback
		c.playback = nil
		c.state = Ready
		c.mu.Unlock()
		pb.Stop()
		return nil, nil
	}

	if c.clip == nil {
		if strings.TrimSpace(text) == "" {
			c.mu.Unlock()
			return nil, ErrEmptyText
		}
		c.state = Generating
		c.mu.Unlock()

		clip, err := Synthesize(ctx, c.synth, c.dir, text, language)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			if clip != nil {
				clip.Release()
			}
			return nil, ErrClosed
		}
		if err != nil {
			c.state = Idle
			c.mu.Unlock()
			return nil, &FailedError{Err: err}
		}
		c.clip = clip
		c.state = Ready
	}

	pb, err := c.player.Play(ctx, c.clip.Path())
	if err != nil {
		c.state = Ready
		c.mu.Unlock()
		return nil, &FailedError{Err: err}
	}
	c.playback = pb
	c.state = Playing
	c.mu.Unlock()

	go c.watch(pb)
	return pb, nil
}

// watch returns the control to Ready when playback ends on its own.
func (c *Control) watch(pb Playback) {
	<-pb.Done()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playback == pb {
		c.playback = nil
		if !c.closed {
			c.state = Ready
		}
	}
}

// Close stops playback and releases the cached clip. Later calls are no-ops.
func (c *Control) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	pb, clip := c.playback, c.clip
	c.playback, c.clip = nil, nil
	c.state = Idle
	c.mu.Unlock()

	if pb != nil {
		pb.Stop()
	}
	if clip != nil {
		return clip.Release()
	}
	return nil
}
