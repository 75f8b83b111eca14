// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/legalease-tui/internal/backend"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"LEGALEASE_HOST", "LEGALEASE_LANGUAGE", "LEGALEASE_CHAT_LANGUAGE",
		"LEGALEASE_THEME", "LEGALEASE_LOG_LEVEL", "LEGALEASE_AUDIO_PLAYER",
	} {
		t.Setenv(k, "")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "English", cfg.Analysis.Language)
	assert.Equal(t, "English", cfg.Chat.Language)
	assert.Equal(t, 2*time.Second, cfg.UI.ProgressInterval)
	assert.Equal(t, backend.DefaultDeployedURL, cfg.Backend.BaseURL())
}

func TestBaseURLFollowsHost(t *testing.T) {
	cfg := Default()
	cfg.Backend.Host = "localhost"
	assert.Equal(t, backend.DefaultLocalURL, cfg.Backend.BaseURL())
	cfg.Backend.Host = "legalease.example.com"
	assert.Equal(t, backend.DefaultDeployedURL, cfg.Backend.BaseURL())
}

func TestLoadWritesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("LEGALEASE_HOME", dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().UI.Theme, cfg.UI.Theme)
	assert.FileExists(t, filepath.Join(dir, "config.toml"))

	again, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg.Backend, again.Backend)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Analysis.Language = "Tamil"
	cfg.Chat.Language = "Hindi"
	cfg.UI.Theme = "light"
	cfg.Backend.Timeout = 90 * time.Second
	require.NoError(t, SaveTOML(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "Tamil", loaded.Analysis.Language)
	assert.Equal(t, "Hindi", loaded.Chat.Language)
	assert.Equal(t, "light", loaded.UI.Theme)
	assert.Equal(t, 90*time.Second, loaded.Backend.Timeout)
}

func TestLoadFromPathPartialFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[analysis]\nlanguage = \"hi\"\n"), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "Hindi", cfg.Analysis.Language)
	assert.Equal(t, "English", cfg.Chat.Language)
	assert.Equal(t, backend.DefaultLocalURL, cfg.Backend.LocalURL)
}

func TestLoadFromPathRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ncolour = \"red\"\n"), 0644))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ui.colour")
}

func TestLoadFromPathRejectsInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chat]\nlanguage = \"Klingon\"\n"), 0644))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat.language")
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Backend.LocalURL = "ftp://nope"
	cfg.UI.Theme = "neon"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
}

func TestApplyEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEGALEASE_HOST", "127.0.0.1")
	t.Setenv("LEGALEASE_LANGUAGE", "Marathi")
	t.Setenv("LEGALEASE_CHAT_LANGUAGE", "Telugu")
	t.Setenv("LEGALEASE_THEME", "dark")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "127.0.0.1", cfg.Backend.Host)
	assert.Equal(t, "Marathi", cfg.Analysis.Language)
	assert.Equal(t, "Telugu", cfg.Chat.Language)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, backend.DefaultLocalURL, cfg.Backend.BaseURL())
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("ui.theme", "light"))
	v, err := cfg.Get("ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	require.NoError(t, cfg.Set("backend.timeout", "5s"))
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)

	require.NoError(t, cfg.Set("backend.requests_per_second", "0.5"))
	assert.Equal(t, 0.5, cfg.Backend.RequestsPerSecond)

	require.NoError(t, cfg.Set("storage.disabled", "true"))
	assert.True(t, cfg.Storage.Disabled)

	assert.Error(t, cfg.Set("backend.timeout", "soon"))
	assert.Error(t, cfg.Set("ui.missing", "x"))
	_, err = cfg.Get("ui")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "backend.host")
	assert.Contains(t, keys, "chat.language")
	assert.Contains(t, keys, "ui.progress_interval")

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestPathHelpers(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LEGALEASE_HOME", dir)

	cfg := Default()
	logPath, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "legalease.log"), logPath)

	cfg.Storage.Path = "/tmp/other.db"
	dbPath, err := cfg.HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", dbPath)
}

func TestWatcherReloads(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	changes := make(chan *Config, 4)
	w, err := Watch(path, 20*time.Millisecond, func(c *Config) { changes <- c }, nil)
	require.NoError(t, err)
	defer w.Close()

	cfg := Default()
	cfg.UI.Theme = "light"
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case got := <-changes:
		assert.Equal(t, "light", got.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}
