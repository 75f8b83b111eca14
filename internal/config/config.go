// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/legalease-tui/internal/backend"
	"github.com/jeranaias/legalease-tui/internal/language"
	"github.com/jeranaias/legalease-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete legalease configuration.
type Config struct {
	Backend  BackendConfig  `toml:"backend"`
	Analysis AnalysisConfig `toml:"analysis"`
	Chat     ChatConfig     `toml:"chat"`
	UI       UIConfig       `toml:"ui"`
	Audio    AudioConfig    `toml:"audio"`
	Logging  LoggingConfig  `toml:"logging"`
	Storage  StorageConfig  `toml:"storage"`
	Server   ServerConfig   `toml:"server"`
}

// BackendConfig selects and tunes the analysis service.
type BackendConfig struct {
	// Host is the name this client runs as. A loopback host selects
	// LocalURL, anything else DeployedURL.
	Host string `toml:"host"`

	LocalURL    string `toml:"local_url"`
	DeployedURL string `toml:"deployed_url"`

	// Timeout for non-streaming requests.
	Timeout time.Duration `toml:"timeout"`

	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// BaseURL resolves the service origin from Host.
func (b BackendConfig) BaseURL() string {
	return backend.ResolveBaseURL(b.Host, b.LocalURL, b.DeployedURL)
}

// AnalysisConfig holds analysis defaults.
type AnalysisConfig struct {
	Language string `toml:"language"`
}

// ChatConfig holds chat defaults. The chat language is independent of the
// analysis language.
type ChatConfig struct {
	Language string `toml:"language"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto" (detect terminal background).
	Theme string `toml:"theme"`

	// ProgressInterval is how often the loading message changes.
	ProgressInterval time.Duration `toml:"progress_interval"`
}

// AudioConfig configures speech playback.
type AudioConfig struct {
	// Player is the command used to play WAV files; empty picks one from PATH.
	Player string `toml:"player"`

	// TempDir holds generated clips; empty uses the OS temp dir.
	TempDir string `toml:"temp_dir"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level string `toml:"level"`

	// File is the log path; empty uses ~/.legalease/legalease.log.
	File string `toml:"file"`
}

// StorageConfig configures the history database.
type StorageConfig struct {
	// Path is the sqlite file; empty uses ~/.legalease/history.db.
	Path string `toml:"path"`

	// Disabled turns off history.
	Disabled bool `toml:"disabled"`
}

// ServerConfig configures the report server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Host:              "",
			LocalURL:          backend.DefaultLocalURL,
			DeployedURL:       backend.DefaultDeployedURL,
			Timeout:           60 * time.Second,
			RequestsPerSecond: 2,
		},
		Analysis: AnalysisConfig{Language: language.Default},
		Chat:     ChatConfig{Language: language.Default},
		UI: UIConfig{
			Theme:            "auto",
			ProgressInterval: 2 * time.Second,
		},
		Logging: LoggingConfig{Level: "info"},
		Server:  ServerConfig{Addr: "127.0.0.1:8750"},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the legalease configuration directory path.
func Dir() (string, error) {
	if dir := os.Getenv("LEGALEASE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".legalease"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath returns the configured or default log file.
func (c *Config) LogPath() (string, error) {
	return c.inDir(c.Logging.File, "legalease.log")
}

// HistoryPath returns the configured or default history database.
func (c *Config) HistoryPath() (string, error) {
	return c.inDir(c.Storage.Path, "history.db")
}

func (c *Config) inDir(explicit, name string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads ~/.legalease/config.toml, writing defaults there on first run.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg := Default()
		// A read-only home still gets a working default config.
		_ = SaveTOML(cfg, path)
		cfg.ApplyEnvOverrides()
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath loads a specific TOML file over the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, err
	}
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg. Keys missing from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg to path atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# legalease configuration file\n")
	buf.WriteString("# Languages: " + strings.Join(language.Names(), ", ") + "\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	for field, raw := range map[string]string{
		"backend.local_url":    c.Backend.LocalURL,
		"backend.deployed_url": c.Backend.DeployedURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("invalid URL %q", raw)})
		}
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, ValidationError{Field: "backend.timeout", Message: "must not be negative"})
	}
	if c.Backend.RequestsPerSecond < 0 {
		errs = append(errs, ValidationError{Field: "backend.requests_per_second", Message: "must not be negative"})
	}

	for field, name := range map[string]string{
		"analysis.language": c.Analysis.Language,
		"chat.language":     c.Chat.Language,
	} {
		if !language.Valid(name) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("unsupported language %q, must be one of: %s", name, strings.Join(language.Names(), ", ")),
			})
		}
	}

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{Field: "ui.theme", Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme)})
	}
	if c.UI.ProgressInterval < 0 {
		errs = append(errs, ValidationError{Field: "ui.progress_interval", Message: "must not be negative"})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, ValidationError{Field: "logging.level", Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values that would break the application.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Backend.LocalURL == "" {
		c.Backend.LocalURL = d.Backend.LocalURL
	}
	if c.Backend.DeployedURL == "" {
		c.Backend.DeployedURL = d.Backend.DeployedURL
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = d.Backend.Timeout
	}
	if c.Analysis.Language == "" {
		c.Analysis.Language = d.Analysis.Language
	}
	if c.Chat.Language == "" {
		c.Chat.Language = d.Chat.Language
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.ProgressInterval == 0 {
		c.UI.ProgressInterval = d.UI.ProgressInterval
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	// Canonical display names, so "hi" in the file becomes "Hindi".
	if l, err := language.Parse(c.Analysis.Language); err == nil {
		c.Analysis.Language = l.Name
	}
	if l, err := language.Parse(c.Chat.Language); err == nil {
		c.Chat.Language = l.Name
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - LEGALEASE_HOST: overrides backend.host
//   - LEGALEASE_LANGUAGE: overrides analysis.language
//   - LEGALEASE_CHAT_LANGUAGE: overrides chat.language
//   - LEGALEASE_THEME: overrides ui.theme
//   - LEGALEASE_LOG_LEVEL: overrides logging.level
//   - LEGALEASE_AUDIO_PLAYER: overrides audio.player
func (c *Config) ApplyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"LEGALEASE_HOST", &c.Backend.Host},
		{"LEGALEASE_LANGUAGE", &c.Analysis.Language},
		{"LEGALEASE_CHAT_LANGUAGE", &c.Chat.Language},
		{"LEGALEASE_THEME", &c.UI.Theme},
		{"LEGALEASE_LOG_LEVEL", &c.Logging.Level},
		{"LEGALEASE_AUDIO_PLAYER", &c.Audio.Player},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g. "ui.theme").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value from its string form using dot notation.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	return setFieldValue(field, value)
}

// lookup walks the toml tags of the config structs.
func (c *Config) lookup(key string) (reflect.Value, error) {
	parts := strings.Split(key, ".")
	if key == "" || len(parts) != 2 {
		return reflect.Value{}, fmt.Errorf("invalid key %q (want section.name)", key)
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return v, nil
}

func fieldByTag(v reflect.Value, tag string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if strings.EqualFold(t.Field(i).Tag.Get("toml"), strings.ReplaceAll(tag, "-", "_")) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue parses value into field according to its kind.
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value: %v", err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value: %v", err)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value: %v", err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %v", err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("cannot set %s field", field.Kind())
	}
	return nil
}

// Keys returns all configuration keys in dot notation.
func Keys() []string {
	var keys []string
	root := reflect.TypeOf(Config{})
	for i := 0; i < root.NumField(); i++ {
		section := root.Field(i)
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, section.Tag.Get("toml")+"."+section.Type.Field(j).Tag.Get("toml"))
		}
	}
	return keys
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
