// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for legalease.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LEGALEASE_*)
//   - ~/.legalease/config.toml (LEGALEASE_HOME moves the directory)
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	baseURL := cfg.Backend.BaseURL()
//
// Watch reloads the file when it changes on disk and hands the new
// configuration to a callback.
package config
