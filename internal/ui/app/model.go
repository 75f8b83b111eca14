// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/audio"
	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/config"
	"github.com/jeranaias/legalease-tui/internal/session"
	"github.com/jeranaias/legalease-tui/internal/storage"
	"github.com/jeranaias/legalease-tui/internal/ui/chatview"
	"github.com/jeranaias/legalease-tui/internal/ui/components"
	"github.com/jeranaias/legalease-tui/internal/ui/styles"
)

// =============================================================================
// VIEWS
// =============================================================================

// View identifies a screen of the TUI.
type View int

const (
	ViewDocument View = iota
	ViewAnalysis
	ViewChat

	viewCount
)

var viewNames = [...]string{"Document", "Analysis", "Chat"}

func (v View) String() string {
	if v < 0 || v >= viewCount {
		return "Unknown"
	}
	return viewNames[v]
}

// AllowedFileTypes are the extensions offered by the file picker.
var AllowedFileTypes = []string{".txt", ".md", ".pdf", ".png", ".jpg", ".jpeg", ".webp", ".gif", ".bmp", ".tif", ".tiff"}

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Backend is everything the TUI needs from the LegalEase API.
// *backend.Client implements it.
type Backend interface {
	analysis.Streamer
	chat.Sender
	audio.Synthesizer
}

// History persists finished analyses and their transcripts.
// *storage.Store implements it.
type History interface {
	Save(ctx context.Context, rec *storage.Record) (string, error)
	SaveTurns(ctx context.Context, analysisID string, turns []chat.Turn) error
}

// Options configures New. Backend is required.
type Options struct {
	Config  *config.Config
	Backend Backend

	// History is optional; nil disables saving.
	History History

	// Player defaults to an ExecPlayer for Config.Audio.Player.
	Player audio.Player

	Logger *zap.Logger

	// ConfigChanges delivers configurations reloaded from disk.
	ConfigChanges <-chan *config.Config

	// BaseURL is shown in the footer.
	BaseURL string
}

// runtime holds the resources shared by every copy of Model.
type runtime struct {
	ctx      context.Context
	cancel   context.CancelFunc
	controls map[analysis.SectionID]*audio.Control

	closeOnce sync.Once
	closeErr  error
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	cfg      *config.Config
	backend  Backend
	history  History
	player   audio.Player
	log      *zap.Logger
	configCh <-chan *config.Config
	baseURL  string

	rt   *runtime
	keys KeyMap

	theme     *styles.Theme
	renderer  analysis.Renderer
	presenter *analysis.Presenter
	header    *components.Header
	toast     components.Toast

	view   View
	width  int
	height int

	// Session
	state     *session.State
	conv      *chat.Conversation
	recordID  string
	progress  analysis.Progress
	sections  []analysis.RenderedSection
	imageInfo string

	// Widgets
	editor     textarea.Model
	syncedText string
	picker     filepicker.Model
	picking    bool
	spinner    spinner.Model
	spinning   bool
	report     viewport.Model
	chat       chatview.Model

	quitting bool
}

// New creates the root model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	player := opts.Player
	if player == nil {
		player = audio.NewExecPlayer(cfg.Audio.Player)
	}

	ctx, cancel := context.WithCancel(context.Background())
	theme := styles.NewTheme(styles.DetectDark(cfg.UI.Theme))
	renderer := newRenderer(theme.IsDark, 80)

	editor := textarea.New()
	editor.Placeholder = "Paste the text of your legal document here..."
	editor.CharLimit = 0
	editor.ShowLineNumbers = false
	editor.Focus()

	picker := filepicker.New()
	picker.AllowedTypes = AllowedFileTypes
	picker.AutoHeight = false
	if wd, err := os.Getwd(); err == nil {
		picker.CurrentDirectory = wd
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Spinner

	header := components.NewHeader(theme)
	header.Tabs = viewNames[:]

	m := Model{
		cfg:       cfg,
		backend:   opts.Backend,
		history:   opts.History,
		player:    player,
		log:       log,
		configCh:  opts.ConfigChanges,
		baseURL:   opts.BaseURL,
		rt:        &runtime{ctx: ctx, cancel: cancel, controls: make(map[analysis.SectionID]*audio.Control)},
		keys:      DefaultKeyMap(),
		theme:     theme,
		renderer:  renderer,
		presenter: analysis.NewPresenter(renderer),
		header:    header,
		state:     session.New(cfg.Analysis.Language),
		conv:      chat.NewConversation("", cfg.Chat.Language),
		editor:    editor,
		picker:    picker,
		spinner:   sp,
		report:    viewport.New(80, 20),
		chat:      chatview.New(theme, renderer),
	}
	m.syncHeader()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForConfig(m.configCh))
}

// Close cancels in-flight work and releases every audio clip. It is safe to
// call more than once.
func (m Model) Close() error {
	m.rt.closeOnce.Do(func() {
		m.rt.closeErr = m.closeControls()
		m.rt.cancel()
	})
	return m.rt.closeErr
}

// CurrentView returns the active screen.
func (m Model) CurrentView() View { return m.view }

// Session exposes the analysis state.
func (m Model) Session() *session.State { return m.state }

// Conversation exposes the chat state.
func (m Model) Conversation() *chat.Conversation { return m.conv }

// Sections returns the sections currently displayed.
func (m Model) Sections() []analysis.RenderedSection { return m.sections }

// RecordID is the history ID of the current analysis, if it was saved.
func (m Model) RecordID() string { return m.recordID }

// ThemeName is "dark" or "light".
func (m Model) ThemeName() string { return m.theme.Name() }

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case FileLoadedMsg:
		return m.handleFileLoaded(msg)

	case StreamChunkMsg:
		if m.state.Update(msg.AttemptID, msg.Accumulated) {
			m.present()
		}
		return m, waitForStream(msg.stream)

	case AnalysisDoneMsg:
		return m.handleAnalysisDone(msg)

	case ProgressTickMsg:
		if !m.state.Loading() || msg.AttemptID != m.state.AttemptID() {
			return m, nil
		}
		m.progress.Advance()
		return m, progressTick(msg.AttemptID, m.cfg.UI.ProgressInterval)

	case AnalysisSavedMsg:
		return m.handleAnalysisSaved(msg)

	case AudioStartedMsg:
		return m.handleAudioStarted(msg)

	case AudioFinishedMsg:
		m.refreshReport()
		if msg.Err != nil {
			m.log.Warn("playback failed", zap.String("section", msg.Section.String()), zap.Error(msg.Err))
			return m, m.toast.ShowError((&audio.FailedError{Err: msg.Err}).Error())
		}
		return m, nil

	case chatview.SubmitMsg:
		return m.handleChatSubmit(msg)

	case chatview.ClearMsg:
		m.conv.Transcript.Clear()
		return m, tea.Batch(m.chat.Sync(m.conv), m.persistTurns())

	case ChatReplyMsg:
		m.conv.Complete(msg.Request, msg.Reply, msg.Err)
		if msg.Err != nil {
			m.log.Warn("chat request failed", zap.Error(msg.Err))
		}
		return m, tea.Batch(m.chat.Sync(m.conv), m.persistTurns())

	case TurnsSavedMsg:
		if msg.Err != nil {
			m.log.Warn("save transcript", zap.Error(msg.Err))
		}
		return m, nil

	case ConfigChangedMsg:
		m.applyConfig(msg.Config)
		return m, tea.Batch(waitForConfig(m.configCh), m.toast.ShowInfo("Configuration reloaded"))

	case components.ToastExpiredMsg:
		m.toast.Expire(msg)
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if msg.ID == m.spinner.ID() {
			if m.busy() {
				var cmd tea.Cmd
				m.spinner, cmd = m.spinner.Update(msg)
				cmds = append(cmds, cmd)
				m.refreshReport()
			} else {
				m.spinning = false
			}
		}
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg, m.conv)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	return m.forward(msg)
}

// forward passes messages Update does not handle to the widgets that may
// own them (cursor blinks, directory listings).
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.picking {
		return m.updatePicker(msg)
	}
	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)
	m.chat, cmd = m.chat.Update(msg, m.conv)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keyMatches(msg, m.keys.Quit) {
		m.quitting = true
		if err := m.Close(); err != nil {
			m.log.Warn("close", zap.Error(err))
		}
		return m, tea.Quit
	}

	if m.picking {
		if keyMatches(msg, m.keys.Dismiss) {
			m.picking = false
			return m, nil
		}
		return m.updatePicker(msg)
	}

	switch {
	case keyMatches(msg, m.keys.NextView):
		return m.switchView((m.view + 1) % viewCount)
	case keyMatches(msg, m.keys.PrevView):
		return m.switchView((m.view + viewCount - 1) % viewCount)
	case keyMatches(msg, m.keys.Theme):
		m.theme.Toggle()
		m.restyle()
		return m, m.toast.ShowInfo("Theme: " + m.theme.Name())
	case keyMatches(msg, m.keys.Language):
		return m.cycleLanguage()
	case keyMatches(msg, m.keys.Dismiss):
		m.toast.Dismiss()
		return m, nil
	}

	switch m.view {
	case ViewDocument:
		return m.updateDocument(msg)
	case ViewAnalysis:
		return m.updateAnalysis(msg)
	default:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg, m.conv)
		return m, cmd
	}
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.view = v
	m.header.Active = int(v)
	m.editor.Blur()
	m.chat.Blur()
	switch v {
	case ViewDocument:
		return m, m.editor.Focus()
	case ViewChat:
		return m, tea.Batch(m.chat.Focus(), m.chat.Sync(m.conv))
	}
	return m, nil
}

// cycleLanguage advances the chat language in the chat view and the
// analysis language elsewhere. The two are independent.
func (m Model) cycleLanguage() (tea.Model, tea.Cmd) {
	if m.view == ViewChat {
		next := languageAfter(m.conv.Language())
		m.conv.SetLanguage(next)
		m.syncHeader()
		return m, m.toast.ShowInfo("Chat language: " + next)
	}
	next := languageAfter(m.state.Language())
	m.state.SetLanguage(next)
	m.syncHeader()
	return m, m.toast.ShowInfo("Analysis language: " + next)
}

// =============================================================================
// DOCUMENT
// =============================================================================

func (m Model) updateDocument(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keyMatches(msg, m.keys.Analyze) {
		return m.analyze()
	}
	// The document is fixed until the running analysis finishes.
	if m.state.Loading() {
		if keyMatches(msg, m.keys.OpenFile) || keyMatches(msg, m.keys.ClearDoc) {
			return m, m.toast.ShowInfo(waitMessage)
		}
		return m, nil
	}

	switch {
	case keyMatches(msg, m.keys.OpenFile):
		m.toast.Dismiss()
		if path, ok := filePath(m.editor.Value()); ok {
			return m, loadFile(path)
		}
		m.picking = true
		return m, m.picker.Init()
	case keyMatches(msg, m.keys.ClearDoc):
		m.resetDocument()
		return m, nil
	}

	// A file dropped onto the terminal arrives as its pasted path.
	if msg.Paste {
		if path, ok := filePath(string(msg.Runes)); ok {
			return m, loadFile(path)
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if v := m.editor.Value(); v != m.syncedText {
		m.syncedText = v
		hadImage := m.state.Image() != nil
		m.state.SetText(v)
		if hadImage {
			m.discardResult()
		}
	}
	return m, cmd
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		return m, tea.Batch(cmd, loadFile(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		return m, tea.Batch(cmd, m.toast.ShowError("Unsupported file type: "+path))
	}
	return m, cmd
}

func (m Model) handleFileLoaded(msg FileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Warn("load file", zap.String("path", msg.Path), zap.Error(msg.Err))
		return m, m.toast.ShowError(msg.Err.Error())
	}
	if m.state.Loading() {
		return m, m.toast.ShowInfo(waitMessage)
	}
	m.discardResult()
	m.state.SetFile(msg.Input)
	m.editor.Reset()
	m.syncedText = ""
	m.imageInfo = describeImage(m.state.Image())
	m.log.Info("file loaded",
		zap.String("path", msg.Path),
		zap.Stringer("kind", msg.Input.Kind()))
	return m, m.toast.ShowInfo("Loaded " + msg.Input.Source())
}

func (m *Model) resetDocument() {
	m.state.Reset()
	m.discardResult()
	m.editor.Reset()
	m.syncedText = ""
	m.imageInfo = ""
	m.toast.Dismiss()
}

// discardResult drops everything derived from the previous analysis. The
// chat transcript is kept.
func (m *Model) discardResult() {
	if err := m.closeControls(); err != nil {
		m.log.Warn("release audio", zap.Error(err))
	}
	m.sections = nil
	m.recordID = ""
	m.conv.SetDocument("")
	m.refreshReport()
}

// =============================================================================
// ANALYSIS
// =============================================================================

func (m Model) analyze() (tea.Model, tea.Cmd) {
	m.toast.Dismiss()
	id, err := m.state.Begin()
	if errors.Is(err, session.ErrBusy) {
		return m, nil
	}
	if err != nil {
		return m, m.toast.ShowError(err.Error())
	}

	m.discardResult()
	m.progress.Reset()

	m.log.Info("analysis started",
		zap.String("attempt", id),
		zap.Stringer("kind", m.state.Input().Kind()),
		zap.String("language", m.state.Language()))
	stream := startAnalysis(m.rt.ctx, m.backend, id, m.state.Input(), m.state.Language())

	next, focus := m.switchView(ViewAnalysis)
	m = next.(Model)
	m.report.GotoTop()
	return m, tea.Batch(focus, waitForStream(stream), progressTick(id, m.cfg.UI.ProgressInterval), m.startSpinner())
}

func (m Model) handleAnalysisDone(msg AnalysisDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err == nil {
		m.state.Update(msg.AttemptID, msg.Text)
	}
	if !m.state.Finish(msg.AttemptID, msg.Err) {
		return m, nil
	}

	if msg.Err != nil {
		m.sections = nil
		m.refreshReport()
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		m.log.Warn("analysis failed", zap.String("attempt", msg.AttemptID), zap.Error(msg.Err))
		return m, m.toast.ShowError(msg.Err.Error())
	}

	m.present()
	m.log.Info("analysis finished",
		zap.String("attempt", msg.AttemptID),
		zap.Int("sections", len(m.sections)),
		zap.Duration("elapsed", m.state.Elapsed()))

	in := m.state.Input()
	document := analysis.ChatDocument(in, m.state.Analysis())
	m.conv.SetDocument(document)
	m.conv.Transcript.Seed(chat.Greeting)

	rec := &storage.Record{
		Source:   in.Source(),
		Kind:     in.Kind(),
		Language: m.state.Language(),
		Document: document,
		Analysis: m.state.Analysis(),
	}
	return m, tea.Batch(m.chat.Sync(m.conv), saveAnalysis(m.rt.ctx, m.history, msg.AttemptID, rec))
}

func (m Model) handleAnalysisSaved(msg AnalysisSavedMsg) (tea.Model, tea.Cmd) {
	if msg.AttemptID != m.state.AttemptID() {
		return m, nil
	}
	if msg.Err != nil {
		m.log.Warn("save analysis", zap.Error(msg.Err))
		return m, m.toast.ShowInfo("Analysis not saved to history")
	}
	m.recordID = msg.RecordID
	return m, m.persistTurns()
}

func (m *Model) present() {
	sections, err := m.presenter.Present(m.state.Analysis(), m.state.Done())
	if err != nil {
		m.log.Debug("render sections", zap.Error(err))
	}
	m.sections = sections
	m.refreshReport()
}

func (m Model) updateAnalysis(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case keyMatches(msg, m.keys.Analyze):
		return m.analyze()
	case keyMatches(msg, m.keys.Listen1):
		return m.listen(analysis.SectionSummary)
	case keyMatches(msg, m.keys.Listen2):
		return m.listen(analysis.SectionKeyClauses)
	case keyMatches(msg, m.keys.Listen3):
		return m.listen(analysis.SectionAdvice)
	}
	var cmd tea.Cmd
	m.report, cmd = m.report.Update(msg)
	return m, cmd
}

// =============================================================================
// AUDIO
// =============================================================================

func (m Model) listen(id analysis.SectionID) (tea.Model, tea.Cmd) {
	if !m.state.HasResult() {
		return m, nil
	}
	sec, ok := m.section(id)
	if !ok {
		return m, nil
	}
	c := m.control(id)
	if c.State() == audio.Generating {
		return m, nil
	}
	m.toast.Dismiss()
	return m, tea.Batch(activateAudio(m.rt.ctx, id, c, sec.Speech, m.state.Language()), m.startSpinner())
}

func (m Model) handleAudioStarted(msg AudioStartedMsg) (tea.Model, tea.Cmd) {
	if m.rt.controls[msg.Section] != msg.Control {
		if msg.Playback != nil {
			msg.Playback.Stop()
		}
		return m, nil
	}
	m.refreshReport()

	switch {
	case msg.Err == nil && msg.Playback != nil:
		return m, waitForPlayback(msg.Section, msg.Playback)
	case msg.Err == nil:
		return m, nil
	case errors.Is(msg.Err, audio.ErrBusy), errors.Is(msg.Err, audio.ErrClosed):
		return m, nil
	}
	m.log.Warn("audio", zap.String("section", msg.Section.String()), zap.Error(msg.Err))
	return m, m.toast.ShowError(msg.Err.Error())
}

// control returns the play button of a section, creating it on first use.
func (m Model) control(id analysis.SectionID) *audio.Control {
	if c, ok := m.rt.controls[id]; ok {
		return c
	}
	c := audio.NewControl(m.backend, m.player, audio.WithTempDir(m.cfg.Audio.TempDir))
	m.rt.controls[id] = c
	return c
}

func (m Model) closeControls() error {
	var errs []error
	for id, c := range m.rt.controls {
		errs = append(errs, c.Close())
		delete(m.rt.controls, id)
	}
	return errors.Join(errs...)
}

// =============================================================================
// CHAT
// =============================================================================

func (m Model) handleChatSubmit(msg chatview.SubmitMsg) (tea.Model, tea.Cmd) {
	m.toast.Dismiss()
	req, err := m.conv.Begin(msg.Question)
	if err != nil {
		return m, m.toast.ShowError(err.Error())
	}
	m.log.Debug("chat question",
		zap.Int("history", len(req.Payload.History)),
		zap.String("language", req.Payload.Language))
	return m, tea.Batch(m.chat.Sync(m.conv), sendChat(m.rt.ctx, m.backend, req))
}

func (m Model) persistTurns() tea.Cmd {
	return saveTurns(m.rt.ctx, m.history, m.recordID, m.conv.Transcript.Turns())
}

// =============================================================================
// LAYOUT AND THEME
// =============================================================================

func (m *Model) resize(width, height int) {
	widthChanged := width != m.width
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)

	body := m.bodyHeight()
	m.editor.SetWidth(max(width-4, 10))
	m.editor.SetHeight(max(body-6, 3))
	m.picker.Height = max(body-3, 3)
	m.report.Width = width
	m.report.Height = max(body-2, 3)
	m.chat.SetSize(width, body)

	if widthChanged {
		m.restyle()
	}
}

// bodyHeight is the space between header and footer.
func (m Model) bodyHeight() int {
	return max(m.height-m.header.Height()-1, 3)
}

// restyle rebuilds everything that depends on the theme or the width.
func (m *Model) restyle() {
	m.renderer = newRenderer(m.theme.IsDark, max(m.width-4, 20))
	m.presenter = analysis.NewPresenter(m.renderer)
	m.spinner.Style = m.theme.Spinner
	m.chat.SetRenderer(m.renderer)
	m.chat.Sync(m.conv)
	if m.state.Analysis() != "" {
		m.present()
	}
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	old := m.cfg
	m.cfg = cfg
	if cfg.UI.Theme != old.UI.Theme {
		m.theme.SetDark(styles.DetectDark(cfg.UI.Theme))
		m.restyle()
	}
	if cfg.Analysis.Language != old.Analysis.Language {
		m.state.SetLanguage(cfg.Analysis.Language)
	}
	if cfg.Chat.Language != old.Chat.Language {
		m.conv.SetLanguage(cfg.Chat.Language)
	}
	m.syncHeader()
	m.log.Info("configuration reloaded")
}

func (m *Model) syncHeader() {
	m.header.Active = int(m.view)
	m.header.Status = "Analysis: " + m.state.Language() + " · Chat: " + m.conv.Language() + " · " + m.theme.Name()
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// busy reports whether something the spinner stands for is running.
func (m Model) busy() bool {
	if m.state.Loading() {
		return true
	}
	for _, c := range m.rt.controls {
		if c.State() == audio.Generating {
			return true
		}
	}
	return false
}

func newRenderer(dark bool, width int) analysis.Renderer {
	r, err := analysis.NewTerminalRenderer(dark, width)
	if err != nil {
		return analysis.PlainRenderer{}
	}
	return r
}
