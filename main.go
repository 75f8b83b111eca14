// legalease - plain-language analysis of legal documents in the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/legalease-tui/internal/backend"
	"github.com/jeranaias/legalease-tui/internal/cli"
	"github.com/jeranaias/legalease-tui/internal/config"
	"github.com/jeranaias/legalease-tui/internal/language"
	"github.com/jeranaias/legalease-tui/internal/logging"
	"github.com/jeranaias/legalease-tui/internal/storage"
	"github.com/jeranaias/legalease-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	cmd, args := cli.Parse(argv)

	// Help and version never need configuration.
	if cmd == cli.CmdHelp || cmd == cli.CmdVersion {
		err := cli.Run(context.Background(), cmd, args, &cli.Env{Stdout: os.Stdout, Stderr: os.Stderr})
		return exitWith(err, args)
	}

	configPath, err := config.Path()
	if err != nil {
		return exitWith(err, args)
	}
	cfg, err := config.Load()
	if err != nil {
		return exitWith(err, args)
	}
	if err := applyOverrides(cfg, args); err != nil {
		return exitWith(err, args)
	}

	logger, err := openLogger(cfg, args)
	if err != nil {
		return exitWith(err, args)
	}
	defer logger.Close()

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:           cfg.Backend.BaseURL(),
		Timeout:           cfg.Backend.Timeout,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		Logger:            logger.Logger,
	})
	logger.Info("starting",
		zap.String("command", cmd.String()),
		zap.String("version", Version),
		zap.String("base_url", client.BaseURL()))

	store := openStore(cfg, logger.Logger)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd == cli.CmdTUI {
		return exitWith(runTUI(ctx, cfg, configPath, args, client, store, logger), args)
	}

	env := &cli.Env{
		Config:     cfg,
		ConfigPath: configPath,
		Backend:    client,
		Store:      store,
		Logger:     logger.Logger,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
	return exitWith(cli.Run(ctx, cmd, args, env), args)
}

// applyOverrides layers --host and --lang over the loaded configuration.
func applyOverrides(cfg *config.Config, args cli.Args) error {
	if args.Host != "" {
		cfg.Backend.Host = args.Host
	}
	if args.Language != "" {
		l, err := language.Parse(args.Language)
		if err != nil {
			return cli.ErrInvalidValue("lang", args.Language, "English, Hindi, Tamil, ...")
		}
		cfg.Analysis.Language = l.Name
	}
	return nil
}

// openLogger writes to the log file; --verbose also echoes warnings to
// stderr outside the TUI.
func openLogger(cfg *config.Config, args cli.Args) (*logging.Logger, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	opts := logging.Options{Path: path, Level: cfg.Logging.Level}
	if args.Verbose {
		opts.Stderr = os.Stderr
	}
	logger, err := logging.New(opts)
	if err != nil {
		// A read-only home still runs, just without a log.
		fmt.Fprintln(os.Stderr, cli.WarningStyle.Render("logging disabled: "+err.Error()))
		return logging.Nop(), nil
	}
	return logger, nil
}

// openStore returns nil when history is disabled or unavailable.
func openStore(cfg *config.Config, log *zap.Logger) *storage.Store {
	if cfg.Storage.Disabled {
		return nil
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		log.Warn("history path", zap.Error(err))
		return nil
	}
	store, err := storage.Open(path)
	if err != nil {
		log.Warn("open history", zap.String("path", path), zap.Error(err))
		return nil
	}
	return store
}

func runTUI(ctx context.Context, cfg *config.Config, configPath string, args cli.Args,
	client *backend.Client, store *storage.Store, logger *logging.Logger) error {

	changes := make(chan *config.Config, 1)
	watcher, err := config.Watch(configPath, config.DefaultDebounce,
		func(next *config.Config) {
			if err := applyOverrides(next, args); err != nil {
				logger.Warn("reloaded config", zap.Error(err))
				return
			}
			if err := logger.SetLevel(next.Logging.Level); err != nil {
				logger.Warn("log level", zap.Error(err))
			}
			// Keep only the newest configuration.
			select {
			case <-changes:
			default:
			}
			changes <- next
		},
		func(err error) { logger.Warn("config reload failed", zap.Error(err)) },
	)
	if err != nil {
		logger.Warn("config watcher disabled", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	opts := app.Options{
		Config:        cfg,
		Backend:       client,
		Logger:        logger.Logger,
		ConfigChanges: changes,
		BaseURL:       client.BaseURL(),
	}
	if store != nil {
		opts.History = store
	}
	model := app.New(opts)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func exitWith(err error, args cli.Args) int {
	if err == nil {
		return cli.ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return cli.ExitSuccess
	}
	cli.DisplayError(os.Stderr, err, args.JSON)
	return cli.GetExitCode(err)
}
