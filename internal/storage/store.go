// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/ingest"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound = errors.New("analysis not found")
	ErrEmpty    = errors.New("no analyses stored")
)

// =============================================================================
// TYPES
// =============================================================================

// Record is a stored analysis.
type Record struct {
	ID        string
	CreatedAt time.Time
	Source    string
	Kind      ingest.Kind
	Language  string

	// Document is the text chat questions are grounded in.
	Document string

	// Analysis is the raw markdown returned by the backend.
	Analysis string
}

// Summary is a record without its large text fields.
type Summary struct {
	ID        string
	CreatedAt time.Time
	Source    string
	Kind      ingest.Kind
	Language  string
	Turns     int
}

// =============================================================================
// STORE
// =============================================================================

// Store is the sqlite history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path. ":memory:" works
// for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps an
	// in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec, assigning an ID and timestamp when missing. Saving an
// existing ID replaces the analysis text and keeps its chat turns.
func (s *Store) Save(ctx context.Context, rec *Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, created_at, source, kind, language, document, analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			language = excluded.language,
			document = excluded.document,
			analysis = excluded.analysis`,
		rec.ID, rec.CreatedAt.UnixNano(), rec.Source, rec.Kind.String(),
		rec.Language, rec.Document, rec.Analysis)
	if err != nil {
		return "", fmt.Errorf("save analysis: %w", err)
	}
	return rec.ID, nil
}

// Get loads one record. A unique ID prefix is accepted.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, source, kind, language, document, analysis
		FROM analyses WHERE substr(id, 1, length(?)) = ?
		ORDER BY (id = ?) DESC LIMIT 2`, id, id, id)
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	defer rows.Close()

	var found []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	switch {
	case len(found) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case found[0].ID == id || len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("ambiguous id prefix %q", id)
	}
}

// Latest returns the newest record.
func (s *Store) Latest(ctx context.Context) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, source, kind, language, document, analysis
		FROM analyses ORDER BY created_at DESC LIMIT 1`)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	return rec, err
}

// List returns summaries, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.created_at, a.source, a.kind, a.language,
			(SELECT COUNT(*) FROM chat_turns t WHERE t.analysis_id = a.id)
		FROM analyses a ORDER BY a.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum  Summary
			at   int64
			kind string
		)
		if err := rows.Scan(&sum.ID, &at, &sum.Source, &kind, &sum.Language, &sum.Turns); err != nil {
			return nil, fmt.Errorf("list analyses: %w", err)
		}
		sum.CreatedAt = time.Unix(0, at)
		sum.Kind = parseKind(kind)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a record and its chat turns.
func (s *Store) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, rec.ID); err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	return nil
}

// =============================================================================
// CHAT TURNS
// =============================================================================

// SaveTurns replaces the stored transcript of an analysis. Pending
// placeholders are skipped.
func (s *Store) SaveTurns(ctx context.Context, analysisID string, turns []chat.Turn) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save turns: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_turns WHERE analysis_id = ?`, analysisID); err != nil {
		return fmt.Errorf("save turns: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chat_turns (analysis_id, seq, id, role, text, at, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("save turns: %w", err)
	}
	defer stmt.Close()

	seq := 0
	for _, turn := range turns {
		if turn.Pending() {
			continue
		}
		if _, err := stmt.ExecContext(ctx, analysisID, seq, turn.ID, string(turn.Role),
			turn.Text, turn.At.UnixNano(), turn.Failed); err != nil {
			return fmt.Errorf("save turns: %w", err)
		}
		seq++
	}
	return tx.Commit()
}

// LoadTurns returns the stored transcript of an analysis in order.
func (s *Store) LoadTurns(ctx context.Context, analysisID string) ([]chat.Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, text, at, failed FROM chat_turns
		WHERE analysis_id = ? ORDER BY seq`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("load turns: %w", err)
	}
	defer rows.Close()

	var turns []chat.Turn
	for rows.Next() {
		var (
			turn chat.Turn
			role string
			at   int64
		)
		if err := rows.Scan(&turn.ID, &role, &turn.Text, &at, &turn.Failed); err != nil {
			return nil, fmt.Errorf("load turns: %w", err)
		}
		turn.Role = chat.Role(role)
		turn.At = time.Unix(0, at)
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec  Record
		at   int64
		kind string
	)
	if err := row.Scan(&rec.ID, &at, &rec.Source, &kind, &rec.Language, &rec.Document, &rec.Analysis); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}
	rec.CreatedAt = time.Unix(0, at)
	rec.Kind = parseKind(kind)
	return &rec, nil
}

func parseKind(s string) ingest.Kind {
	if s == ingest.KindImage.String() {
		return ingest.KindImage
	}
	return ingest.KindText
}
