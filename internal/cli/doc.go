// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// commands of legalease.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed arguments with global and command-specific flags
//   - Env: Configuration, backend client and history store a command runs with
//   - ArgParser: Flag and positional splitting shared by the commands
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	if cmd == cli.CmdTUI {
//	    // start the Bubble Tea program
//	}
//	if err := cli.Run(ctx, cmd, args, env); err != nil {
//	    cli.DisplayError(os.Stderr, err, args.JSON)
//	    os.Exit(cli.GetExitCode(err))
//	}
//
// # Commands Overview
//
//   - analyze: Analyze a file, stdin or literal text
//   - chat: Ask questions about a stored analysis
//   - history: List, show and delete stored analyses
//   - status: Check the analysis service
//   - serve: Browse stored reports over HTTP
//   - config: Show and edit configuration
//
// All commands support --json for scripting.
package cli
