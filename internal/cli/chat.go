// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive questions about a stored analysis.
//
// Usage:
//
//	legalease chat              Chat about the latest analysis
//	legalease chat 3f2a9c1e     Chat about a specific analysis
//
// Commands inside chat:
//
//	/lang NAME   Change the answer language
//	/clear       Forget the conversation
//	/quit        Leave (Ctrl+D works too)
//
// The transcript is stored with the analysis after every answer, so a chat
// continues where it stopped.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/config"
	"github.com/jeranaias/legalease-tui/internal/language"
	"github.com/jeranaias/legalease-tui/internal/storage"
)

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads one line of user input per prompt.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// linerReader provides history and line editing in a terminal.
type linerReader struct {
	line        *liner.State
	historyFile string
}

func newLinerReader() *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &linerReader{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history (owner read/write only) and restores the terminal.
func (r *linerReader) Close() error {
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0o700); err == nil {
		if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			r.line.WriteHistory(f)
			f.Close()
		}
	}
	return r.line.Close()
}

// scanReader reads piped input; the prompt is written to w.
type scanReader struct {
	scanner *bufio.Scanner
	w       io.Writer
}

func (r *scanReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.w, prompt)
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	fmt.Fprintln(r.w)
	return r.scanner.Text(), nil
}

func (r *scanReader) Close() error { return nil }

func newLineReader(env *Env) lineReader {
	if f, ok := env.Stdin.(*os.File); ok && f == os.Stdin && IsTTY() {
		return newLinerReader()
	}
	return &scanReader{scanner: bufio.NewScanner(env.Stdin), w: env.Stdout}
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func runChat(ctx context.Context, args Args, env *Env) error {
	if err := requireStore(env, "chat"); err != nil {
		return err
	}

	rec, err := loadRecord(ctx, env.Store, args.ID)
	if err != nil {
		return err
	}
	turns, err := env.Store.LoadTurns(ctx, rec.ID)
	if err != nil {
		return NewCommandError("chat", "load transcript", err)
	}

	langName := args.ChatLanguage
	if langName == "" {
		langName = env.Config.Chat.Language
	}
	lang, err := language.Parse(langName)
	if err != nil {
		return ErrInvalidValue("chat-lang", langName, strings.Join(language.Names(), ", "))
	}

	conv := chat.NewConversation(rec.Document, lang.Name)
	conv.Transcript = chat.NewTranscript(turns...)
	if conv.Transcript.Seed(chat.Greeting) {
		saveChatTurns(ctx, env, rec.ID, conv)
	}

	renderer := reportRenderer(env.Stdout, true)
	fmt.Fprintln(env.Stdout, TitleStyle.Render("Chatting about "+rec.Source))
	fmt.Fprintln(env.Stdout, DimStyle.Render(fmt.Sprintf("%s · answers in %s · /lang NAME, /clear, /quit", shortID(rec.ID), lang.Name)))
	fmt.Fprintln(env.Stdout)
	for _, t := range conv.Transcript.Turns() {
		printTurn(env.Stdout, renderer, t)
	}

	in := newLineReader(env)
	defer in.Close()

	for ctx.Err() == nil {
		line, err := in.Prompt("you> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				break
			}
			return NewCommandError("chat", "read", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit := chatCommand(ctx, env, rec.ID, conv, line)
			if quit {
				break
			}
			continue
		}

		turn, err := conv.Ask(ctx, env.Backend, line)
		switch {
		case errors.Is(err, chat.ErrEmptyQuestion), errors.Is(err, chat.ErrNoDocument), errors.Is(err, chat.ErrPending):
			fmt.Fprintln(env.Stdout, WarningStyle.Render(err.Error()))
			continue
		case err != nil:
			env.Logger.Warn("chat request failed", zap.String("id", rec.ID), zap.Error(err))
		}
		printTurn(env.Stdout, renderer, turn)
		saveChatTurns(ctx, env, rec.ID, conv)
	}
	return nil
}

// chatCommand runs a slash command and reports whether to quit.
func chatCommand(ctx context.Context, env *Env, id string, conv *chat.Conversation, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	switch strings.ToLower(name) {
	case "/quit", "/exit", "/q":
		return true
	case "/clear":
		conv.Transcript.Clear()
		saveChatTurns(ctx, env, id, conv)
		fmt.Fprintln(env.Stdout, DimStyle.Render("Conversation cleared."))
	case "/lang":
		l, err := language.Parse(arg)
		if err != nil {
			fmt.Fprintln(env.Stdout, WarningStyle.Render(err.Error()))
			return false
		}
		conv.SetLanguage(l.Name)
		fmt.Fprintln(env.Stdout, DimStyle.Render("Answers will be in "+l.Name+"."))
	default:
		fmt.Fprintln(env.Stdout, DimStyle.Render("Commands: /lang NAME, /clear, /quit"))
	}
	return false
}

func printTurn(w io.Writer, r analysis.Renderer, t chat.Turn) {
	if t.Role == chat.RoleUser {
		fmt.Fprintln(w, PromptStyle.Render("you> ")+t.Text)
		return
	}
	text := t.Text
	if t.Failed {
		fmt.Fprintln(w, ErrorStyle.Render(text))
		fmt.Fprintln(w)
		return
	}
	if out, err := r.Render(text); err == nil {
		text = out
	}
	fmt.Fprintln(w, PromptStyle.Render("legalease> ")+strings.TrimSpace(text))
	fmt.Fprintln(w)
}

func saveChatTurns(ctx context.Context, env *Env, id string, conv *chat.Conversation) {
	if err := env.Store.SaveTurns(ctx, id, conv.Transcript.Turns()); err != nil {
		env.Logger.Warn("save chat turns", zap.String("id", id), zap.Error(err))
	}
}

// loadRecord returns the analysis with id (a unique prefix works), or the
// latest one when id is empty.
func loadRecord(ctx context.Context, store *storage.Store, id string) (*storage.Record, error) {
	if id == "" {
		return store.Latest(ctx)
	}
	return store.Get(ctx, id)
}
