// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jeranaias/legalease-tui/internal/util"
)

// ErrReleased is returned when a released clip is used.
var ErrReleased = errors.New("clip released")

// Clip is a playable WAV file. Each clip owns a temporary file that is
// removed by Release; Release is safe to call more than once but only the
// first call has an effect.
type Clip struct {
	path       string
	size       int
	sampleRate int

	mu       sync.Mutex
	released bool
	once     sync.Once
}

// NewClip writes wav to a new temporary file in dir (os.TempDir when empty).
func NewClip(dir string, wav []byte) (*Clip, error) {
	hdr, err := ReadHeader(wav)
	if err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, "legalease-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create clip file: %w", err)
	}
	if _, err := f.Write(wav); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("write clip file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("close clip file: %w", err)
	}
	return &Clip{path: f.Name(), size: len(wav), sampleRate: hdr.SampleRate}, nil
}

// Path returns the clip file path. It is empty after Release.
func (c *Clip) Path() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return ""
	}
	return c.path
}

// Size is the byte length of the WAV data, header included.
func (c *Clip) Size() int { return c.size }

// SampleRate is the rate declared in the clip header.
func (c *Clip) SampleRate() int { return c.sampleRate }

// Bytes reads the clip back from disk.
func (c *Clip) Bytes() ([]byte, error) {
	path := c.Path()
	if path == "" {
		return nil, ErrReleased
	}
	return os.ReadFile(path)
}

// SaveAs copies the clip to dest atomically.
func (c *Clip) SaveAs(dest string) error {
	data, err := c.Bytes()
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(dest, data, 0644)
}

// Released reports whether Release has run.
func (c *Clip) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// Release removes the backing file.
func (c *Clip) Release() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		c.released = true
		c.mu.Unlock()
		if rmErr := os.Remove(c.path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = rmErr
		}
	})
	return err
}
