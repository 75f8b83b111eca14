// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/jeranaias/legalease-tui/internal/analysis"
	"github.com/jeranaias/legalease-tui/internal/audio"
	"github.com/jeranaias/legalease-tui/internal/storage"
)

// ============================================================================
// CONFIG
// ============================================================================

const (
	// DefaultClipTTL is how long a synthesized clip stays cached.
	DefaultClipTTL = 30 * time.Minute

	clipCleanupInterval = 5 * time.Minute
)

// Store is the subset of *storage.Store the server reads.
type Store interface {
	Get(ctx context.Context, id string) (*storage.Record, error)
	List(ctx context.Context, limit int) ([]storage.Summary, error)
}

// Config configures a Server.
type Config struct {
	Addr   string
	Store  Store
	Synth  audio.Synthesizer
	Logger *zap.Logger

	// TempDir holds cached clips; empty uses the OS temp dir.
	TempDir string

	// ClipTTL overrides DefaultClipTTL.
	ClipTTL time.Duration

	// SpeechPerSecond limits audio synthesis requests (0 means 1).
	SpeechPerSecond float64
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the local report server.
type Server struct {
	cfg      Config
	log      *zap.Logger
	engine   *gin.Engine
	renderer *analysis.HTMLRenderer
	clips    *cache.Cache
	group    singleflight.Group
	http     *http.Server
}

// New builds the gin engine and routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ClipTTL <= 0 {
		cfg.ClipTTL = DefaultClipTTL
	}
	if cfg.SpeechPerSecond <= 0 {
		cfg.SpeechPerSecond = 1
	}

	s := &Server{
		cfg:      cfg,
		log:      cfg.Logger.Named("server"),
		renderer: analysis.NewHTMLRenderer(),
		clips:    cache.New(cfg.ClipTTL, clipCleanupInterval),
	}
	s.clips.OnEvicted(func(key string, v interface{}) {
		if clip, ok := v.(*audio.Clip); ok {
			if err := clip.Release(); err != nil {
				s.log.Warn("release clip", zap.String("key", key), zap.Error(err))
			}
		}
	})

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery())
	engine.Use(Logger(s.log))
	engine.Use(SecurityHeaders())
	engine.SetHTMLTemplate(pages)

	engine.GET("/", s.handleIndex)
	engine.GET("/health", s.handleHealth)
	engine.GET("/analyses/:id", s.handleReport)
	engine.GET("/analyses/:id/audio/:section",
		RateLimit(rate.NewLimiter(rate.Limit(cfg.SpeechPerSecond), 3)),
		s.handleAudio)

	s.engine = engine
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on cfg.Addr until Shutdown.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", zap.String("addr", s.cfg.Addr))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener and releases every cached clip.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.Close()
	return err
}

// Close releases every cached clip.
func (s *Server) Close() {
	for key := range s.clips.Items() {
		s.clips.Delete(key) // runs OnEvicted
	}
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "clips": s.clips.ItemCount()})
}

func (s *Server) handleIndex(c *gin.Context) {
	items, err := s.cfg.Store.List(c.Request.Context(), 0)
	if err != nil {
		s.log.Error("list analyses", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.HTML(http.StatusOK, "index", gin.H{
		"Theme": themeOf(c),
		"Items": items,
	})
}

type reportSection struct {
	Title    string
	Slug     string
	HTML     template.HTML
	AudioURL string
}

func (s *Server) handleReport(c *gin.Context) {
	rec, ok := s.record(c)
	if !ok {
		return
	}

	sections, err := reportSections(s.renderer, rec, true)
	if err != nil {
		s.log.Warn("render report", zap.String("id", rec.ID), zap.Error(err))
	}

	c.HTML(http.StatusOK, "report", gin.H{
		"Theme":    themeOf(c),
		"Record":   rec,
		"Sections": sections,
	})
}

func (s *Server) handleAudio(c *gin.Context) {
	rec, ok := s.record(c)
	if !ok {
		return
	}
	id, ok := analysis.SectionBySlug(c.Param("section"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown section"})
		return
	}
	text := analysis.SpeechText(analysis.Parse(rec.Analysis, true).Get(id))
	if text == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "section is empty"})
		return
	}

	data, err := s.clipBytes(c.Request.Context(), rec.ID+"/"+id.Slug(), text, rec.Language)
	if err != nil {
		s.log.Error("synthesize section",
			zap.String("id", rec.ID), zap.String("section", id.Slug()), zap.Error(err))
		msg := (&audio.FailedError{Err: err}).Error()
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": msg})
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, "audio/wav", data)
}

// clipBytes returns the cached clip for key, synthesizing it once.
func (s *Server) clipBytes(ctx context.Context, key, text, language string) ([]byte, error) {
	if v, found := s.clips.Get(key); found {
		if data, err := v.(*audio.Clip).Bytes(); err == nil {
			return data, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		clip, err := audio.Synthesize(ctx, s.cfg.Synth, s.cfg.TempDir, text, language)
		if err != nil {
			return nil, err
		}
		s.clips.SetDefault(key, clip)
		return clip, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*audio.Clip).Bytes()
}

func (s *Server) record(c *gin.Context) (*storage.Record, bool) {
	rec, err := s.cfg.Store.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return nil, false
	case err != nil:
		s.log.Error("load analysis", zap.String("id", c.Param("id")), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return rec, true
}

func themeOf(c *gin.Context) string {
	if strings.EqualFold(c.Query("theme"), "dark") {
		return "dark"
	}
	return "light"
}
