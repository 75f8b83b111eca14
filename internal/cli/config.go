// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Inspecting and editing ~/.legalease/config.toml.
//
// Usage:
//
//	legalease config [show]          Effective configuration
//	legalease config get ui.theme
//	legalease config set analysis.language Tamil
//	legalease config path

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/legalease-tui/internal/config"
)

func runConfig(args Args, env *Env) error {
	switch args.Subcommand {
	case "show", "list":
		if args.JSON {
			return NewJSONResponse("config", env.Config).Write(env.Stdout)
		}
		fmt.Fprint(env.Stdout, env.Config.String())
		return nil

	case "path":
		if args.JSON {
			return NewJSONResponse("config", map[string]string{"path": env.ConfigPath}).Write(env.Stdout)
		}
		fmt.Fprintln(env.Stdout, env.ConfigPath)
		return nil

	case "get":
		if args.ConfigKey == "" {
			return ErrMissingArgument("key", "legalease config get ui.theme")
		}
		v, err := env.Config.Get(args.ConfigKey)
		if err != nil {
			return keyError(args.ConfigKey, err)
		}
		if args.JSON {
			return NewJSONResponse("config", map[string]any{"key": args.ConfigKey, "value": v}).Write(env.Stdout)
		}
		fmt.Fprintln(env.Stdout, v)
		return nil

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return ErrMissingArgument("key and value", "legalease config set analysis.language Tamil")
		}
		return configSet(args, env)
	}
	return &ValidationError{
		Field:   "subcommand",
		Value:   args.Subcommand,
		Reason:  "expected show, get, set or path",
		Example: "legalease config get ui.theme",
	}
}

// configSet edits the file itself rather than the effective configuration,
// so command-line and environment overrides are not persisted.
func configSet(args Args, env *Env) error {
	cfg, err := config.LoadFromPath(env.ConfigPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return err
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return keyError(args.ConfigKey, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(cfg, env.ConfigPath); err != nil {
		return NewCommandError("config", "set", err)
	}

	v, _ := cfg.Get(args.ConfigKey)
	if args.JSON {
		return NewJSONResponse("config", map[string]any{"key": args.ConfigKey, "value": v}).Write(env.Stdout)
	}
	fmt.Fprintln(env.Stdout, SuccessStyle.Render(fmt.Sprintf("%s = %v", args.ConfigKey, v)))
	return nil
}

func keyError(key string, err error) error {
	return &ValidationError{
		Field:   "key",
		Value:   key,
		Reason:  err.Error(),
		Example: "one of " + strings.Join(config.Keys(), ", "),
	}
}
