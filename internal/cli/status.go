// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Reachability of the analysis service and local state.
//
// Output Fields:
//
//	Service    Base URL chosen from the host
//	Reachable  Whether the service answered
//	Languages  Analysis and chat defaults
//	History    Stored analyses, or disabled
//	Config     Path of the config file

package cli

import (
	"context"
	"fmt"
	"time"
)

// pingTimeout bounds the status check.
const pingTimeout = 10 * time.Second

type statusJSON struct {
	BaseURL      string `json:"base_url"`
	Reachable    bool   `json:"reachable"`
	Error        string `json:"error,omitempty"`
	LatencyMS    int64  `json:"latency_ms"`
	Language     string `json:"language"`
	ChatLanguage string `json:"chat_language"`
	History      int    `json:"history"`
	HistoryOn    bool   `json:"history_enabled"`
	ConfigPath   string `json:"config_path"`
}

func runStatus(ctx context.Context, args Args, env *Env) error {
	st := statusJSON{
		BaseURL:      env.Backend.BaseURL(),
		Language:     env.Config.Analysis.Language,
		ChatLanguage: env.Config.Chat.Language,
		ConfigPath:   env.ConfigPath,
	}
	if args.Language != "" {
		st.Language = args.Language
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	started := time.Now()
	err := env.Backend.Ping(pingCtx)
	cancel()
	st.LatencyMS = time.Since(started).Milliseconds()
	st.Reachable = err == nil
	if err != nil {
		st.Error = err.Error()
	}

	if env.Store != nil {
		st.HistoryOn = true
		if items, err := env.Store.List(ctx, 0); err == nil {
			st.History = len(items)
		}
	}

	if args.JSON {
		return NewJSONResponse("status", st).Write(env.Stdout)
	}

	fmt.Fprintln(env.Stdout, TitleStyle.Render("LegalEase Status"))
	fmt.Fprintln(env.Stdout, RenderSeparator(40))
	printField(env.Stdout, "Service", st.BaseURL)
	if st.Reachable {
		printField(env.Stdout, "Reachable", SuccessStyle.Render(fmt.Sprintf("yes (%dms)", st.LatencyMS)))
	} else {
		printField(env.Stdout, "Reachable", ErrorStyle.Render("no: "+st.Error))
	}
	printField(env.Stdout, "Languages", fmt.Sprintf("analysis %s, chat %s", st.Language, st.ChatLanguage))
	if st.HistoryOn {
		printField(env.Stdout, "History", fmt.Sprintf("%d analyses", st.History))
	} else {
		printField(env.Stdout, "History", DimStyle.Render("disabled"))
	}
	printField(env.Stdout, "Config", st.ConfigPath)
	return nil
}
