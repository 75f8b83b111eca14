// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/audio"
	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/config"
	"github.com/jeranaias/legalease-tui/internal/ingest"
	"github.com/jeranaias/legalease-tui/internal/storage"
)

// streamBuffer bounds the chunk channel of one attempt.
const streamBuffer = 64

// loadFile reads a picked file off the event loop.
func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		in, err := ingest.LoadFile(path)
		return FileLoadedMsg{Path: path, Input: in, Err: err}
	}
}

// startAnalysis runs one attempt in the background and returns the channel
// its messages arrive on. The done message is always delivered last.
func startAnalysis(ctx context.Context, s analysis.Streamer, id string, in ingest.Input, lang string) <-chan tea.Msg {
	ch := make(chan tea.Msg, streamBuffer)
	go func() {
		defer close(ch)
		text, err := analysis.Analyze(ctx, s, in, lang, func(accumulated, _ string) {
			select {
			case ch <- StreamChunkMsg{AttemptID: id, Accumulated: accumulated, stream: ch}:
			default:
				// Chunks are cumulative; the next one supersedes this.
			}
		})
		ch <- AnalysisDoneMsg{AttemptID: id, Text: text, Err: err}
	}()
	return ch
}

// waitForStream delivers the next message of an attempt.
func waitForStream(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// progressTick rotates the loading message after interval.
func progressTick(id string, interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = config.Default().UI.ProgressInterval
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return ProgressTickMsg{AttemptID: id}
	})
}

// saveAnalysis records a finished analysis in history.
func saveAnalysis(ctx context.Context, h History, id string, rec *storage.Record) tea.Cmd {
	if h == nil {
		return nil
	}
	return func() tea.Msg {
		recordID, err := h.Save(ctx, rec)
		return AnalysisSavedMsg{AttemptID: id, RecordID: recordID, Err: err}
	}
}

// saveTurns persists a transcript snapshot.
func saveTurns(ctx context.Context, h History, recordID string, turns []chat.Turn) tea.Cmd {
	if h == nil || recordID == "" {
		return nil
	}
	return func() tea.Msg {
		return TurnsSavedMsg{Err: h.SaveTurns(ctx, recordID, turns)}
	}
}

// sendChat sends a question and reports the answer.
func sendChat(ctx context.Context, s chat.Sender, req *chat.Request) tea.Cmd {
	return func() tea.Msg {
		reply, err := s.Chat(ctx, req.Payload)
		return ChatReplyMsg{Request: req, Reply: reply, Err: err}
	}
}

// activateAudio presses a section's play button. Synthesis can take a while,
// so it runs as a command.
func activateAudio(ctx context.Context, id analysis.SectionID, c *audio.Control, text, lang string) tea.Cmd {
	return func() tea.Msg {
		pb, err := c.Activate(ctx, text, lang)
		return AudioStartedMsg{Section: id, Control: c, Playback: pb, Err: err}
	}
}

// waitForPlayback reports when pb ends.
func waitForPlayback(id analysis.SectionID, pb audio.Playback) tea.Cmd {
	return func() tea.Msg {
		<-pb.Done()
		return AudioFinishedMsg{Section: id, Err: pb.Err()}
	}
}

// waitForConfig delivers the next reloaded configuration.
func waitForConfig(ch <-chan *config.Config) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return ConfigChangedMsg{Config: cfg}
	}
}
