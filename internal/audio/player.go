// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// ErrNoPlayer is returned when no audio player command can be found.
var ErrNoPlayer = errors.New("no audio player found (install aplay, paplay, afplay or ffplay)")

// Playback is a running playback of a clip.
type Playback interface {
	// Done is closed when playback ends, either naturally or via Stop.
	Done() <-chan struct{}

	// Err is the playback result once Done is closed. Stopped playback
	// reports nil.
	Err() error

	// Stop ends playback. Playback never resumes from the stop position.
	Stop()
}

// Player starts playback of WAV files.
type Player interface {
	Play(ctx context.Context, path string) (Playback, error)
}

// candidates are tried in order when no player command is configured.
var candidates = [][]string{
	{"afplay"},
	{"paplay"},
	{"aplay", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
}

// ExecPlayer plays clips by running an external command with the clip path
// appended as the last argument.
type ExecPlayer struct {
	command []string

	once     sync.Once
	resolved []string
	err      error
}

// NewExecPlayer creates a player. An empty command selects the first
// available candidate on PATH.
func NewExecPlayer(command string) *ExecPlayer {
	return &ExecPlayer{command: strings.Fields(command)}
}

func (p *ExecPlayer) resolve() ([]string, error) {
	p.once.Do(func() {
		if len(p.command) > 0 {
			if _, err := exec.LookPath(p.command[0]); err != nil {
				p.err = fmt.Errorf("audio player %q: %w", p.command[0], err)
				return
			}
			p.resolved = p.command
			return
		}
		for _, c := range candidates {
			if _, err := exec.LookPath(c[0]); err == nil {
				p.resolved = c
				return
			}
		}
		p.err = ErrNoPlayer
	})
	return p.resolved, p.err
}

// Play starts the player process. The returned Playback finishes when the
// process exits.
func (p *ExecPlayer) Play(ctx context.Context, path string) (Playback, error) {
	argv, err := p.resolve()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	args := append(append([]string{}, argv[1:]...), path)
	cmd := exec.CommandContext(ctx, argv[0], args...)
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}

	pb := &execPlayback{done: make(chan struct{}), cancel: cancel}
	go func() {
		err := cmd.Wait()
		pb.mu.Lock()
		if !pb.stopped {
			pb.err = err
		}
		pb.mu.Unlock()
		cancel()
		close(pb.done)
	}()
	return pb, nil
}

type execPlayback struct {
	done   chan struct{}
	cancel context.CancelFunc

	mu      sync.Mutex
	stopped bool
	err     error
}

func (p *execPlayback) Done() <-chan struct{} { return p.done }

func (p *execPlayback) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *execPlayback) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.cancel()
}
