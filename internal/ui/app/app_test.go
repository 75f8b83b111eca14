// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/audio"
	"github.com/jeranaias/legalease-tui/internal/backend"
	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/config"
	"github.com/jeranaias/legalease-tui/internal/ingest"
	"github.com/jeranaias/legalease-tui/internal/storage"
	"github.com/jeranaias/legalease-tui/internal/ui/chatview"
)

const sampleAnalysis = "### Summary\nA one-year lease. 🟢\n\n" +
	"### Key Clauses Explained\n- **Rent** 🔴 is due on the 1st.\n\n" +
	"### My Advice To You\nNegotiate the late fee. 🟡"

// =============================================================================
// FAKES
// =============================================================================

type fakeBackend struct {
	mu       sync.Mutex
	chunks   []string
	chatErr  error
	ttsErr   error
	requests []backend.ChatRequest
	ttsCalls int
}

func (f *fakeBackend) stream(cb backend.StreamCallback) (string, error) {
	f.mu.Lock()
	chunks := append([]string(nil), f.chunks...)
	f.mu.Unlock()
	acc := ""
	for _, c := range chunks {
		acc += c
		cb(acc, c)
	}
	return acc, nil
}

func (f *fakeBackend) AnalyzeTextStream(_ context.Context, _, _ string, cb backend.StreamCallback) (string, error) {
	return f.stream(cb)
}

func (f *fakeBackend) AnalyzeImageStream(_ context.Context, _, _ string, cb backend.StreamCallback) (string, error) {
	return f.stream(cb)
}

func (f *fakeBackend) Chat(_ context.Context, req backend.ChatRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return "You may sublet with written consent.", nil
}

func (f *fakeBackend) Synthesize(_ context.Context, _, _ string) (*audio.Speech, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttsCalls++
	if f.ttsErr != nil {
		return nil, f.ttsErr
	}
	return &audio.Speech{
		AudioData: base64.StdEncoding.EncodeToString([]byte{1, 0, 2, 0, 3, 0, 4, 0}),
		MimeType:  "audio/L16;rate=16000",
	}, nil
}

type fakePlayback struct {
	done chan struct{}
	once sync.Once
}

func (p *fakePlayback) Done() <-chan struct{} { return p.done }
func (p *fakePlayback) Err() error            { return nil }
func (p *fakePlayback) Stop()                 { p.once.Do(func() { close(p.done) }) }

type fakePlayer struct{}

func (fakePlayer) Play(context.Context, string) (audio.Playback, error) {
	return &fakePlayback{done: make(chan struct{})}, nil
}

type fakeHistory struct {
	mu      sync.Mutex
	records []*storage.Record
	turns   map[string][]chat.Turn
}

func (h *fakeHistory) Save(_ context.Context, rec *storage.Record) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return "rec-1", nil
}

func (h *fakeHistory) SaveTurns(_ context.Context, id string, turns []chat.Turn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.turns == nil {
		h.turns = make(map[string][]chat.Turn)
	}
	h.turns[id] = turns
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func newModel(t *testing.T, fb *fakeBackend, h History) Model {
	t.Helper()
	cfg := config.Default()
	cfg.UI.Theme = "dark"
	cfg.Audio.TempDir = t.TempDir()
	m := New(Options{
		Config:  cfg,
		Backend: fb,
		History: h,
		Player:  fakePlayer{},
		BaseURL: "http://localhost:8000",
	})
	t.Cleanup(func() { m.Close() })
	return update(m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func ctrl(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// findMsg runs cmd, descending into batches, until it yields a T. Commands
// that only fire after a delay must not precede the wanted one.
func findMsg[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	var walk func(tea.Cmd) (T, bool)
	walk = func(c tea.Cmd) (T, bool) {
		var zero T
		if c == nil {
			return zero, false
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			for _, sub := range msg {
				if v, ok := walk(sub); ok {
					return v, true
				}
			}
		case T:
			return msg, true
		}
		return zero, false
	}
	v, ok := walk(cmd)
	require.True(t, ok, "command did not produce %T", v)
	return v
}

// analyzed runs a text analysis to completion.
func analyzed(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	m = update(m, runes("The tenant shall pay rent monthly."))
	m = update(m, ctrl(tea.KeyCtrlR))
	require.True(t, m.Session().Loading())
	return updateCmd(m, AnalysisDoneMsg{AttemptID: m.Session().AttemptID(), Text: sampleAnalysis})
}

// =============================================================================
// ANALYSIS
// =============================================================================

func TestAnalyzeRequiresInput(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)

	m = update(m, ctrl(tea.KeyCtrlR))

	assert.Equal(t, ViewDocument, m.CurrentView())
	assert.False(t, m.Session().Loading())
	assert.True(t, m.toast.Visible())
	assert.Equal(t, analysis.ErrNoInput.Error(), m.toast.Message())
}

func TestAnalyzeStreamsSections(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m = update(m, runes("The tenant shall pay rent."))
	m = update(m, ctrl(tea.KeyCtrlR))

	require.Equal(t, ViewAnalysis, m.CurrentView())
	id := m.Session().AttemptID()

	m = update(m, StreamChunkMsg{AttemptID: id, Accumulated: "### Summary\nA one-year"})
	require.Len(t, m.Sections(), 1)
	assert.Equal(t, analysis.SectionSummary, m.Sections()[0].ID)
	assert.Equal(t, 0, m.Conversation().Transcript.Len(), "no greeting before the analysis completes")

	m = update(m, AnalysisDoneMsg{AttemptID: id, Text: sampleAnalysis})
	assert.True(t, m.Session().HasResult())
	assert.Len(t, m.Sections(), 3)
	assert.Equal(t, "The tenant shall pay rent.", m.Conversation().Document())

	turns := m.Conversation().Transcript.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, chat.Greeting, turns[0].Text)
	assert.Equal(t, chat.RoleModel, turns[0].Role)
}

func TestStartAnalysisDeliversDoneLast(t *testing.T) {
	fb := &fakeBackend{chunks: []string{"### Sum", "mary\nHi", " there"}}
	ch := startAnalysis(context.Background(), fb, "a1", ingest.FromText("doc"), "English")

	var msgs []tea.Msg
	for msg := range ch {
		msgs = append(msgs, msg)
	}
	require.NotEmpty(t, msgs)

	done, ok := msgs[len(msgs)-1].(AnalysisDoneMsg)
	require.True(t, ok, "last message should be AnalysisDoneMsg")
	assert.Equal(t, "### Summary\nHi there", done.Text)
	assert.NoError(t, done.Err)

	prev := ""
	for _, msg := range msgs[:len(msgs)-1] {
		chunk := msg.(StreamChunkMsg)
		assert.Equal(t, "a1", chunk.AttemptID)
		assert.True(t, strings.HasPrefix(chunk.Accumulated, prev), "chunks accumulate")
		prev = chunk.Accumulated
	}
}

func TestEscDoesNotStopAnalysis(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m = update(m, runes("contract"))
	m = update(m, ctrl(tea.KeyCtrlR))
	id := m.Session().AttemptID()

	m = update(m, ctrl(tea.KeyEsc))
	assert.True(t, m.Session().Loading())

	m = update(m, StreamChunkMsg{AttemptID: id, Accumulated: "### Summary\nA one-year"})
	m = update(m, AnalysisDoneMsg{AttemptID: id, Text: sampleAnalysis})
	assert.True(t, m.Session().HasResult())
	assert.Len(t, m.Sections(), 3)
}

func TestDocumentFixedWhileLoading(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("Another contract."), 0644))

	m := newModel(t, &fakeBackend{}, nil)
	m = update(m, runes("contract"))
	m = update(m, ctrl(tea.KeyCtrlR))
	m = update(m, ctrl(tea.KeyShiftTab))
	require.Equal(t, ViewDocument, m.CurrentView())

	m = update(m, ctrl(tea.KeyCtrlX))
	assert.Equal(t, "contract", m.Session().Text())
	assert.Equal(t, waitMessage, m.toast.Message())

	m = update(m, runes(" edited"))
	assert.Equal(t, "contract", m.Session().Text())

	m = update(m, loadFile(path)())
	assert.Equal(t, "contract", m.Session().Text())
	assert.True(t, m.Session().Loading())
}

func TestAnalysisFailureShowsError(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m = update(m, runes("contract"))
	m = update(m, ctrl(tea.KeyCtrlR))
	id := m.Session().AttemptID()

	m = update(m, StreamChunkMsg{AttemptID: id, Accumulated: "### Summary\npartial"})
	m = update(m, AnalysisDoneMsg{AttemptID: id, Err: errors.New("server error (500)")})

	assert.Empty(t, m.Sections(), "partial text is dropped on failure")
	assert.False(t, m.Session().HasResult())
	assert.Equal(t, "server error (500)", m.toast.Message())

	// The next attempt dismisses the error.
	m = update(m, ctrl(tea.KeyCtrlR))
	assert.False(t, m.toast.Visible())
}

func TestAnalysisSavedToHistory(t *testing.T) {
	h := &fakeHistory{}
	m := newModel(t, &fakeBackend{}, h)

	m, cmd := analyzed(t, m)
	saved := findMsg[AnalysisSavedMsg](t, cmd)
	require.NoError(t, saved.Err)

	require.Len(t, h.records, 1)
	rec := h.records[0]
	assert.Equal(t, ingest.PastedLabel, rec.Source)
	assert.Equal(t, ingest.KindText, rec.Kind)
	assert.Equal(t, "English", rec.Language)
	assert.Equal(t, sampleAnalysis, rec.Analysis)

	m, cmd = updateCmd(m, saved)
	assert.Equal(t, "rec-1", m.RecordID())
	turnsSaved := findMsg[TurnsSavedMsg](t, cmd)
	assert.NoError(t, turnsSaved.Err)
	assert.Len(t, h.turns["rec-1"], 1)
}

func TestResetDiscardsResult(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m, _ = analyzed(t, m)
	m = update(m, ctrl(tea.KeyShiftTab))
	require.Equal(t, ViewDocument, m.CurrentView())

	m = update(m, ctrl(tea.KeyCtrlX))

	assert.Nil(t, m.Session().Input())
	assert.False(t, m.Session().HasResult())
	assert.Empty(t, m.Sections())
	assert.Empty(t, m.Conversation().Document())
}

// =============================================================================
// FILES
// =============================================================================

func TestLoadTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lease.txt")
	require.NoError(t, os.WriteFile(path, []byte("Clause 1. Rent is due monthly."), 0644))
	m := newModel(t, &fakeBackend{}, nil)

	loaded := loadFile(path)().(FileLoadedMsg)
	require.NoError(t, loaded.Err)
	m = update(m, loaded)

	require.NotNil(t, m.Session().Input())
	assert.Equal(t, "lease.txt", m.Session().Input().Source())
	assert.Equal(t, "Clause 1. Rent is due monthly.", m.Session().Text())
}

func TestLoadImageFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2048, 10))))
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	m := newModel(t, &fakeBackend{}, nil)

	m = update(m, loadFile(path)())

	require.NotNil(t, m.Session().Image())
	assert.Contains(t, m.imageInfo, "2048x10")
	assert.Contains(t, m.imageInfo, "sent as 1024x5")

	// Typing replaces the image.
	m = update(m, runes("typed instead"))
	assert.Nil(t, m.Session().Image())
	assert.Equal(t, "typed instead", m.Session().Text())
}

func TestPastedPathLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lease.txt")
	require.NoError(t, os.WriteFile(path, []byte("Clause 1. Rent is due monthly."), 0644))
	m := newModel(t, &fakeBackend{}, nil)

	m, cmd := updateCmd(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("'" + path + "'"), Paste: true})
	loaded := findMsg[FileLoadedMsg](t, cmd)
	require.NoError(t, loaded.Err)
	assert.Equal(t, path, loaded.Path)
	assert.Empty(t, m.editor.Value(), "the path is not typed into the document")

	m = update(m, loaded)
	assert.Equal(t, "lease.txt", m.Session().Input().Source())
	assert.Equal(t, "Clause 1. Rent is due monthly.", m.Session().Text())
}

func TestTypedPathOpensWithCtrlO(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lease.txt")
	require.NoError(t, os.WriteFile(path, []byte("Clause 2. No pets."), 0644))
	m := newModel(t, &fakeBackend{}, nil)

	m = update(m, runes(path))
	m, cmd := updateCmd(m, ctrl(tea.KeyCtrlO))
	assert.False(t, m.picking)

	m = update(m, findMsg[FileLoadedMsg](t, cmd))
	assert.Equal(t, "lease.txt", m.Session().Input().Source())
	assert.Equal(t, "Clause 2. No pets.", m.Session().Text())
	assert.Empty(t, m.editor.Value())
}

func TestPastedTextIsNotAPath(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("The tenant shall pay.txt"), Paste: true})
	assert.Equal(t, "The tenant shall pay.txt", m.Session().Text())

	m, _ = updateCmd(m, ctrl(tea.KeyCtrlX))
	m, _ = updateCmd(m, ctrl(tea.KeyCtrlO))
	assert.True(t, m.picking, "without a path the picker opens")
}

func TestFilePath(t *testing.T) {
	dir := t.TempDir()
	spaced := filepath.Join(dir, "my lease.pdf")
	require.NoError(t, os.WriteFile(spaced, []byte("%PDF-1.4"), 0644))
	other := filepath.Join(dir, "notes.zip")
	require.NoError(t, os.WriteFile(other, []byte("PK"), 0644))

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain", spaced, spaced, true},
		{"double quoted", `"` + spaced + `"`, spaced, true},
		{"escaped spaces", strings.ReplaceAll(spaced, " ", `\ `), spaced, true},
		{"file url", "file://" + strings.ReplaceAll(spaced, " ", "%20"), spaced, true},
		{"trailing newline", spaced + "\n", spaced, true},
		{"missing", filepath.Join(dir, "gone.pdf"), "", false},
		{"directory", dir, "", false},
		{"unsupported extension", other, "", false},
		{"two lines", spaced + "\n" + spaced, "", false},
		{"prose", "Rent is due monthly.", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := filePath(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFileError(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m = update(m, loadFile(filepath.Join(t.TempDir(), "missing.pdf"))())
	assert.True(t, m.toast.Visible())
	assert.Nil(t, m.Session().Input())
}

// =============================================================================
// AUDIO
// =============================================================================

func TestListenCachesClipPerSection(t *testing.T) {
	fb := &fakeBackend{}
	m := newModel(t, fb, nil)
	m, _ = analyzed(t, m)

	m, cmd := updateCmd(m, runes("1"))
	started := findMsg[AudioStartedMsg](t, cmd)
	require.NoError(t, started.Err)
	require.NotNil(t, started.Playback)
	m = update(m, started)
	c := m.rt.controls[analysis.SectionSummary]
	require.NotNil(t, c)
	assert.Equal(t, audio.Playing, c.State())

	// Pressing again while playing stops and rewinds.
	m, cmd = updateCmd(m, runes("1"))
	stopped := findMsg[AudioStartedMsg](t, cmd)
	assert.Nil(t, stopped.Playback)
	m = update(m, stopped)
	assert.Equal(t, audio.Ready, c.State())

	// Replay uses the cached clip.
	_, cmd = updateCmd(m, runes("1"))
	replay := findMsg[AudioStartedMsg](t, cmd)
	require.NotNil(t, replay.Playback)
	assert.Equal(t, 1, fb.ttsCalls)

	clip := c.Clip()
	require.NotNil(t, clip)
	require.NoError(t, m.Close())
	assert.True(t, clip.Released())
	assert.NoError(t, m.Close(), "Close is idempotent")
}

func TestListenBeforeResultDoesNothing(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m = update(m, ctrl(tea.KeyTab))
	_, cmd := updateCmd(m, runes("1"))
	assert.Nil(t, cmd)
}

func TestListenFailureShowsAudioError(t *testing.T) {
	fb := &fakeBackend{ttsErr: errors.New("quota exceeded")}
	m := newModel(t, fb, nil)
	m, _ = analyzed(t, m)

	m, cmd := updateCmd(m, runes("2"))
	started := findMsg[AudioStartedMsg](t, cmd)
	m = update(m, started)

	assert.Equal(t, "Audio failed: quota exceeded", m.toast.Message())
	assert.Equal(t, audio.Idle, m.rt.controls[analysis.SectionKeyClauses].State())
}

// =============================================================================
// CHAT
// =============================================================================

func TestChatRoundTrip(t *testing.T) {
	fb := &fakeBackend{}
	m := newModel(t, fb, nil)
	m, _ = analyzed(t, m)

	m, cmd := updateCmd(m, chatview.SubmitMsg{Question: "Can I sublet?"})
	require.Equal(t, 3, m.Conversation().Transcript.Len(), "greeting, question and placeholder")

	reply := findMsg[ChatReplyMsg](t, cmd)
	require.Len(t, fb.requests, 1)
	req := fb.requests[0]
	assert.Equal(t, "Can I sublet?", req.Question)
	assert.Len(t, req.History, 1, "history excludes the new pair")
	assert.Equal(t, "English", req.Language)

	m = update(m, reply)
	last, ok := m.Conversation().Transcript.Last()
	require.True(t, ok)
	assert.Equal(t, "You may sublet with written consent.", last.Text)
	assert.False(t, m.Conversation().Pending())
}

func TestChatFailureBecomesTurn(t *testing.T) {
	fb := &fakeBackend{chatErr: errors.New("connection refused")}
	m := newModel(t, fb, nil)
	m, _ = analyzed(t, m)

	m, cmd := updateCmd(m, chatview.SubmitMsg{Question: "Is the deposit refundable?"})
	m = update(m, findMsg[ChatReplyMsg](t, cmd))

	last, _ := m.Conversation().Transcript.Last()
	assert.Equal(t, "Sorry, an error occurred: connection refused", last.Text)
	assert.True(t, last.Failed)
}

func TestChatBeforeAnalysis(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m = update(m, chatview.SubmitMsg{Question: "Hello?"})
	assert.Equal(t, chat.ErrNoDocument.Error(), m.toast.Message())
	assert.Equal(t, 0, m.Conversation().Transcript.Len())
}

func TestClearTranscript(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m, _ = analyzed(t, m)
	m = update(m, chatview.ClearMsg{})
	assert.Equal(t, 0, m.Conversation().Transcript.Len())
}

// =============================================================================
// SHELL
// =============================================================================

func TestLanguageCyclingIsPerView(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)

	m = update(m, ctrl(tea.KeyCtrlL))
	assert.Equal(t, "Hindi", m.Session().Language())
	assert.Equal(t, "English", m.Conversation().Language())

	m = update(m, ctrl(tea.KeyTab))
	m = update(m, ctrl(tea.KeyTab))
	require.Equal(t, ViewChat, m.CurrentView())
	m = update(m, ctrl(tea.KeyCtrlL))
	assert.Equal(t, "Hindi", m.Session().Language())
	assert.Equal(t, "Hindi", m.Conversation().Language())
}

func TestThemeToggle(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	require.Equal(t, "dark", m.ThemeName())
	m = update(m, ctrl(tea.KeyCtrlT))
	assert.Equal(t, "light", m.ThemeName())
	m = update(m, ctrl(tea.KeyCtrlT))
	assert.Equal(t, "dark", m.ThemeName())
}

func TestViewCycle(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	for _, want := range []View{ViewAnalysis, ViewChat, ViewDocument} {
		m = update(m, ctrl(tea.KeyTab))
		assert.Equal(t, want, m.CurrentView())
	}
	m = update(m, ctrl(tea.KeyShiftTab))
	assert.Equal(t, ViewChat, m.CurrentView())
}

func TestConfigReload(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	cfg := config.Default()
	cfg.UI.Theme = "light"
	cfg.Chat.Language = "Tamil"

	m = update(m, ConfigChangedMsg{Config: cfg})

	assert.Equal(t, "light", m.ThemeName())
	assert.Equal(t, "Tamil", m.Conversation().Language())
	assert.Equal(t, "English", m.Session().Language())
}

func TestViewRendersHeaderAndFooter(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	view := m.View()
	assert.Contains(t, view, "LegalEase")
	assert.Contains(t, view, "Document")
	assert.Contains(t, view, "analyze")
	assert.Equal(t, 30, strings.Count(view, "\n")+1)

	m, _ = analyzed(t, m)
	view = m.View()
	assert.Contains(t, view, "Summary")
	assert.Contains(t, view, "listen")
	assert.NotContains(t, view, "🔴")
}

func TestQuitClosesModel(t *testing.T) {
	m := newModel(t, &fakeBackend{}, nil)
	m, cmd := updateCmd(m, ctrl(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
	assert.Error(t, m.rt.ctx.Err())
}
