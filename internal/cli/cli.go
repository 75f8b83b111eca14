// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing and dispatch for legalease.

package cli

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/audio"
	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/config"
	"github.com/jeranaias/legalease-tui/internal/storage"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAnalyze
	CmdChat
	CmdHistory
	CmdStatus
	CmdServe
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdTUI:     "tui",
	CmdAnalyze: "analyze",
	CmdChat:    "chat",
	CmdHistory: "history",
	CmdStatus:  "status",
	CmdServe:   "serve",
	CmdConfig:  "config",
	CmdVersion: "version",
	CmdHelp:    "help",
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return "unknown"
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Host     string
	Language string
	Verbose  bool
	JSON     bool

	// analyze
	Text     string
	File     string
	HTML     bool
	Out      string
	AudioDir string
	NoSave   bool

	// chat
	ChatLanguage string

	// serve
	Addr string

	// history and config
	Subcommand string
	ID         string
	ConfigKey  string
	ConfigVal  string
	Limit      int

	// Unknown is an unrecognized command name.
	Unknown string

	// Raw args (remaining after the command name)
	Raw []string
}

const usageText = `legalease - plain-language analysis of legal documents

Paste a contract or open a text, PDF or image file. LegalEase explains it
in three parts (Summary, Key Clauses Explained, My Advice To You), marks
risky clauses, reads sections aloud and answers follow-up questions.

Usage:
  legalease                         Start the TUI (default)
  legalease analyze FILE            Analyze a text, PDF or image file
  legalease analyze -               Analyze stdin
  legalease analyze --text "..."    Analyze literal text
  legalease chat [ID]               Ask questions about a stored analysis
  legalease history [list]          List stored analyses
  legalease history show ID         Show a stored analysis and its chat
  legalease history delete ID       Delete a stored analysis
  legalease status                  Check the analysis service
  legalease serve                   Serve stored reports in a browser
  legalease config [show|get|set|path]
  legalease version

Analyze Options:
  --html                Write HTML instead of terminal output
  --out FILE            Write the report to FILE
  --audio-dir DIR       Also save each section as DIR/<section>.wav
  --no-save             Do not store the analysis in history

Chat Options:
  --chat-lang LANG      Answer language (default from config)

History Options:
  --limit N             Number of analyses to list (default 20)

Serve Options:
  --addr HOST:PORT      Listen address (default from config)

Global Options:
  --host HOST           Host this client runs as; localhost selects the
                        local service, anything else the deployed one
  --lang, -l LANG       Analysis language: English, Hindi, Gujarati,
                        Kannada, Marathi, Tamil or Telugu
  --json                Machine-readable output
  -v, --verbose         Log warnings to stderr
  -h, --help            Show this help

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer, jsonMode bool) error {
	if jsonMode {
		return NewJSONResponse("version", map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go":         runtime.Version(),
		}).Write(w)
	}
	fmt.Fprintf(w, "legalease version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s\n", runtime.Version())
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// Parse parses argv (without the program name) into a command and its
// arguments.
func Parse(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	name := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch name {
	case "tui":
		return CmdTUI, args

	case "analyze", "analyse", "a":
		parseAnalyzeArgs(&args, remaining)
		return CmdAnalyze, args

	case "chat":
		p := NewArgParser(remaining)
		args.ID = p.Positional(0)
		args.ChatLanguage = p.Flag("chat-lang")
		return CmdChat, args

	case "history", "hist", "h":
		p := NewArgParser(remaining)
		args.Subcommand = strings.ToLower(p.Subcommand())
		if args.Subcommand == "" {
			args.Subcommand = "list"
		}
		args.ID = p.Positional(1)
		args.Limit = p.FlagIntOrDefault("limit", 20)
		return CmdHistory, args

	case "status", "s":
		return CmdStatus, args

	case "serve":
		p := NewArgParser(remaining)
		args.Addr = p.Flag("addr")
		return CmdServe, args

	case "config":
		p := NewArgParser(remaining)
		args.Subcommand = strings.ToLower(p.Subcommand())
		if args.Subcommand == "" {
			args.Subcommand = "show"
		}
		args.ConfigKey = p.Positional(1)
		args.ConfigVal = JoinPositionalArgs(p, 2)
		return CmdConfig, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		args.Unknown = name
		return CmdHelp, args
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--host":
			if i+1 < len(args) {
				i++
				parsed.Host = args[i]
			}
		case "--lang", "-l":
			if i+1 < len(args) {
				i++
				parsed.Language = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--host="):
				parsed.Host = strings.TrimPrefix(arg, "--host=")
			case strings.HasPrefix(arg, "--lang="):
				parsed.Language = strings.TrimPrefix(arg, "--lang=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}
	return remaining, parsed
}

func parseAnalyzeArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining, "html", "no-save")
	args.File = p.Positional(0)
	args.Text = p.Flag("text")
	args.HTML = p.BoolFlag("html")
	args.Out = p.FlagOr("out", "o")
	args.AudioDir = p.Flag("audio-dir")
	args.NoSave = p.BoolFlag("no-save")
}

// =============================================================================
// DISPATCH
// =============================================================================

// Backend is the analysis service as seen by commands. *backend.Client
// implements it.
type Backend interface {
	analysis.Streamer
	chat.Sender
	audio.Synthesizer
	Ping(ctx context.Context) error
	BaseURL() string
}

// Env carries the dependencies commands run with.
type Env struct {
	Config     *config.Config
	ConfigPath string
	Backend    Backend

	// Store is nil when history is disabled or could not be opened.
	Store *storage.Store

	Logger *zap.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes a non-TUI command.
func Run(ctx context.Context, cmd Command, args Args, env *Env) error {
	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}
	switch cmd {
	case CmdAnalyze:
		return runAnalyze(ctx, args, env)
	case CmdChat:
		return runChat(ctx, args, env)
	case CmdHistory:
		return runHistory(ctx, args, env)
	case CmdStatus:
		return runStatus(ctx, args, env)
	case CmdServe:
		return runServe(ctx, args, env)
	case CmdConfig:
		return runConfig(args, env)
	case CmdVersion:
		return PrintVersion(env.Stdout, args.JSON)
	case CmdHelp:
		PrintUsage(env.Stdout)
		if args.Unknown != "" {
			return &ValidationError{Field: "command", Value: args.Unknown, Reason: "unknown command", Example: "legalease help"}
		}
		return nil
	}
	return fmt.Errorf("command %s has no handler", cmd)
}

// requireStore fails when history is unavailable.
func requireStore(env *Env, command string) error {
	if env.Store == nil {
		return NewCommandError(command, "", fmt.Errorf("history is disabled (set storage.disabled = false)"))
	}
	return nil
}
