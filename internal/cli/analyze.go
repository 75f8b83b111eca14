// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// analyze.go - The analyze command: one document in, one report out.
//
// Usage:
//
//	legalease analyze lease.pdf
//	legalease analyze photo.jpg --lang Tamil --audio-dir ./audio
//	cat terms.txt | legalease analyze - > report.md
//	legalease analyze --text "The tenant shall..." --json
//	legalease analyze lease.pdf --html --out lease.html
//
// When stdout is a pipe the streamed text is written as it arrives. In a
// terminal the finished report is rendered with glamour, and a rotating
// progress message is shown on stderr while waiting.

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/audio"
	"github.com/jeranaias/legalease-tui/internal/ingest"
	"github.com/jeranaias/legalease-tui/internal/language"
	"github.com/jeranaias/legalease-tui/internal/server"
	"github.com/jeranaias/legalease-tui/internal/storage"
	"github.com/jeranaias/legalease-tui/internal/util"
)

// audioConcurrency bounds parallel speech requests for --audio-dir.
const audioConcurrency = 3

func runAnalyze(ctx context.Context, args Args, env *Env) error {
	lang, err := analysisLanguage(args, env)
	if err != nil {
		return err
	}

	in, err := readInput(args, env.Stdin)
	if err != nil {
		return err
	}

	streamRaw := !args.JSON && !args.HTML && args.Out == "" && !IsTerminal(env.Stdout)
	var streamed bool
	cb := func(_, chunk string) {
		if streamRaw {
			streamed = true
			io.WriteString(env.Stdout, chunk)
		}
	}

	stop := startProgress(env.Stderr, env.Config.UI.ProgressInterval, !args.JSON && IsTerminal(env.Stderr))
	started := time.Now()
	text, err := analysis.Analyze(ctx, env.Backend, in, lang, cb)
	stop()
	if err != nil {
		return NewCommandError("analyze", in.Source(), err)
	}
	env.Logger.Info("analysis complete",
		zap.String("source", in.Source()),
		zap.String("kind", in.Kind().String()),
		zap.String("language", lang),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(started)))

	rec := &storage.Record{
		Source:   in.Source(),
		Kind:     in.Kind(),
		Language: lang,
		Document: analysis.ChatDocument(in, text),
		Analysis: text,
	}
	if env.Store != nil && !args.NoSave {
		if _, err := env.Store.Save(ctx, rec); err != nil {
			env.Logger.Warn("save analysis", zap.Error(err))
			fmt.Fprintln(env.Stderr, WarningStyle.Render("Analysis not saved to history: "+err.Error()))
		} else if !args.JSON {
			fmt.Fprintln(env.Stderr, DimStyle.Render("Saved as "+shortID(rec.ID)))
		}
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	var audioFiles map[analysis.SectionID]string
	if args.AudioDir != "" {
		audioFiles, err = writeSectionAudio(ctx, env, text, lang, args.AudioDir)
		if err != nil {
			return NewCommandError("analyze", "audio", err)
		}
	}

	if streamed {
		if !strings.HasSuffix(text, "\n") {
			fmt.Fprintln(env.Stdout)
		}
		return nil
	}

	var out bytes.Buffer
	switch {
	case args.JSON:
		if err := NewJSONResponse("analyze", recordJSON(rec, audioFiles)).Write(&out); err != nil {
			return err
		}
	case args.HTML:
		opts := server.ReportOptions{Theme: env.Config.UI.Theme}
		if img, ok := in.(*ingest.ImageInput); ok {
			opts.ImagePreview = img.PreviewDataURL()
		}
		if err := server.WriteReport(&out, rec, opts); err != nil {
			env.Logger.Warn("render html", zap.Error(err))
		}
	default:
		writeReport(&out, rec, reportRenderer(env.Stdout, args.Out == ""))
	}

	if args.Out != "" {
		if err := util.AtomicWriteFile(args.Out, out.Bytes(), 0o644); err != nil {
			return NewCommandError("analyze", "write", err)
		}
		if !args.JSON {
			fmt.Fprintln(env.Stderr, SuccessStyle.Render("Wrote "+args.Out))
		}
		return nil
	}
	_, err = env.Stdout.Write(out.Bytes())
	return err
}

// analysisLanguage resolves --lang against the configured default.
func analysisLanguage(args Args, env *Env) (string, error) {
	name := args.Language
	if name == "" {
		name = env.Config.Analysis.Language
	}
	l, err := language.Parse(name)
	if err != nil {
		return "", ErrInvalidValue("language", name, strings.Join(language.Names(), ", "))
	}
	return l.Name, nil
}

// readInput loads the document from --text, stdin ("-") or a file.
func readInput(args Args, stdin io.Reader) (ingest.Input, error) {
	switch {
	case args.Text != "":
		if args.File != "" {
			return nil, &ValidationError{Field: "input", Reason: "give either a file or --text, not both"}
		}
		return ingest.FromText(args.Text), nil
	case args.File == "":
		return nil, ErrMissingArgument("file", "legalease analyze lease.pdf")
	case args.File == "-":
		in, err := ingest.LoadReader("stdin", stdin)
		if err != nil {
			return nil, NewCommandError("analyze", "read stdin", err)
		}
		return in, nil
	default:
		in, err := ingest.LoadFile(args.File)
		if err != nil {
			return nil, NewCommandError("analyze", "load", err)
		}
		return in, nil
	}
}

// startProgress rotates the cosmetic progress messages on w until the
// returned function is called.
func startProgress(w io.Writer, interval time.Duration, enabled bool) func() {
	if !enabled {
		return func() {}
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var p analysis.Progress
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			fmt.Fprintf(w, "\r\033[K%s", DimStyle.Render(p.Current()))
			select {
			case <-done:
				fmt.Fprint(w, "\r\033[K")
				return
			case <-ticker.C:
				p.Advance()
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

// reportRenderer picks glamour for a terminal and plain markdown otherwise.
func reportRenderer(stdout io.Writer, toStdout bool) analysis.Renderer {
	if toStdout && IsTerminal(stdout) && ColorsEnabled() {
		r, err := analysis.NewTerminalRenderer(HasDarkBackground(), TerminalWidth(stdout)-2)
		if err == nil {
			return r
		}
	}
	return analysis.PlainRenderer{}
}

// writeReport renders every section of rec under its heading.
func writeReport(w io.Writer, rec *storage.Record, r analysis.Renderer) {
	sections, _ := analysis.NewPresenter(r).Present(rec.Analysis, true)
	_, plain := r.(analysis.PlainRenderer)
	if len(sections) == 0 {
		fmt.Fprintln(w, DimStyle.Render("The analysis came back empty."))
		return
	}
	for i, sec := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if plain {
			fmt.Fprintf(w, "### %s\n\n%s\n", sec.Title, strings.TrimSpace(sec.Rendered))
			continue
		}
		title := SectionStyle.Render(sec.Title)
		if risk := RenderRisk(sec.Severities); risk != "" {
			title += "  " + risk
		}
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, sec.Rendered)
	}
}

// writeSectionAudio synthesizes every non-empty section into
// dir/<section>.wav. Each clip is released once copied.
func writeSectionAudio(ctx context.Context, env *Env, text, lang, dir string) (map[analysis.SectionID]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	sections := analysis.Parse(text, true)

	var mu sync.Mutex
	files := make(map[analysis.SectionID]string)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(audioConcurrency)
	for _, id := range analysis.SectionIDs {
		speech := analysis.SpeechText(sections.Get(id))
		if speech == "" {
			continue
		}
		g.Go(func() error {
			clip, err := audio.Synthesize(gctx, env.Backend, env.Config.Audio.TempDir, speech, lang)
			if err != nil {
				return fmt.Errorf("%s: %w", id.Title(), &audio.FailedError{Err: err})
			}
			defer clip.Release()

			dest := filepath.Join(dir, id.Slug()+".wav")
			if err := clip.SaveAs(dest); err != nil {
				return err
			}
			mu.Lock()
			files[id] = dest
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return files, err
	}
	return files, nil
}

func recordJSON(rec *storage.Record, audioFiles map[analysis.SectionID]string) analysisJSON {
	sections, _ := analysis.NewPresenter(analysis.PlainRenderer{}).Present(rec.Analysis, true)
	out := analysisJSON{
		ID:        rec.ID,
		CreatedAt: rec.CreatedAt,
		Source:    rec.Source,
		Kind:      rec.Kind.String(),
		Language:  rec.Language,
		Sections:  make([]sectionJSON, 0, len(sections)),
		Raw:       rec.Analysis,
	}
	for _, sec := range sections {
		sj := sectionJSON{
			ID:       sec.ID.Slug(),
			Title:    sec.Title,
			Markdown: sec.Markdown,
			Audio:    audioFiles[sec.ID],
		}
		for s, n := range sec.Severities {
			if n == 0 {
				continue
			}
			if sj.Risk == nil {
				sj.Risk = make(map[string]int)
			}
			sj.Risk[s.Color()] = n
		}
		out.Sections = append(out.Sections, sj)
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
