// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Serving stored reports to a browser.

package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/legalease-tui/internal/server"
)

// shutdownTimeout bounds the graceful stop of the report server.
const shutdownTimeout = 5 * time.Second

func runServe(ctx context.Context, args Args, env *Env) error {
	if err := requireStore(env, "serve"); err != nil {
		return err
	}
	addr := args.Addr
	if addr == "" {
		addr = env.Config.Server.Addr
	}

	srv := server.New(server.Config{
		Addr:    addr,
		Store:   env.Store,
		Synth:   env.Backend,
		Logger:  env.Logger,
		TempDir: env.Config.Audio.TempDir,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	fmt.Fprintln(env.Stderr, SuccessStyle.Render("Serving reports on http://"+addr)+DimStyle.Render("  (Ctrl+C to stop)"))
	env.Logger.Info("report server started", zap.String("addr", addr))

	select {
	case err := <-errc:
		srv.Close()
		return NewCommandError("serve", "", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		env.Logger.Warn("shutdown report server", zap.Error(err))
		return NewCommandError("serve", "shutdown", err)
	}
	env.Logger.Info("report server stopped")
	return nil
}
