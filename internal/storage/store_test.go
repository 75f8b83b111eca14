// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/legalease-tui/internal/chat"
	"github.com/jeranaias/legalease-tui/internal/ingest"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(source string, at time.Time) *Record {
	return &Record{
		CreatedAt: at,
		Source:    source,
		Kind:      ingest.KindText,
		Language:  "English",
		Document:  "The tenant shall pay rent monthly.",
		Analysis:  "### Summary\nA lease.\n### Key Clauses Explained\n🔴 Rent\n### My Advice To You\nRead it.",
	}
}

func TestSaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("lease.pdf", time.Now())
	id, err := store.Save(ctx, rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, rec.ID)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "lease.pdf", got.Source)
	assert.Equal(t, ingest.KindText, got.Kind)
	assert.Equal(t, rec.Analysis, got.Analysis)
	assert.Equal(t, rec.Document, got.Document)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Microsecond)

	byPrefix, err := store.Get(ctx, id[:8])
	require.NoError(t, err)
	assert.Equal(t, id, byPrefix.ID)
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTreatsWildcardsLiterally(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	id, err := store.Save(ctx, sampleRecord("only.txt", time.Now()))
	require.NoError(t, err)

	for _, pattern := range []string{"%", "_", "________", id[:4] + "%"} {
		_, err := store.Get(ctx, pattern)
		assert.ErrorIs(t, err, ErrNotFound, pattern)
	}
	assert.ErrorIs(t, store.Delete(ctx, "%"), ErrNotFound)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "only.txt", got.Source)
}

func TestSaveReplacesAnalysis(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("a.txt", time.Now())
	_, err := store.Save(ctx, rec)
	require.NoError(t, err)

	rec.Analysis = "### Summary\nUpdated."
	_, err = store.Save(ctx, rec)
	require.NoError(t, err)

	got, err := store.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "### Summary\nUpdated.", got.Analysis)
}

func TestLatestAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, ErrEmpty)

	base := time.Now().Add(-time.Hour)
	for i, name := range []string{"first.txt", "second.pdf", "third.jpg"} {
		rec := sampleRecord(name, base.Add(time.Duration(i)*time.Minute))
		if name == "third.jpg" {
			rec.Kind = ingest.KindImage
		}
		_, err := store.Save(ctx, rec)
		require.NoError(t, err)
	}

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "third.jpg", latest.Source)
	assert.Equal(t, ingest.KindImage, latest.Kind)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third.jpg", all[0].Source)
	assert.Equal(t, "first.txt", all[2].Source)

	two, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestTurnsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("lease.txt", time.Now())
	_, err := store.Save(ctx, rec)
	require.NoError(t, err)

	tr := chat.NewTranscript()
	tr.Seed(chat.Greeting)
	turns := append(tr.Turns(),
		chat.Turn{ID: "u1", Role: chat.RoleUser, Text: "Can I sublet?", At: time.Now()},
		chat.Turn{ID: "m1", Role: chat.RoleModel, Text: chat.ErrorPrefix + "boom", At: time.Now(), Failed: true},
		chat.Turn{ID: "m2", Role: chat.RoleModel, Text: "", At: time.Now()}, // pending
	)
	require.NoError(t, store.SaveTurns(ctx, rec.ID, turns))

	loaded, err := store.LoadTurns(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, chat.Greeting, loaded[0].Text)
	assert.Equal(t, chat.RoleUser, loaded[1].Role)
	assert.True(t, loaded[2].Failed)

	sums, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, sums[0].Turns)

	require.NoError(t, store.SaveTurns(ctx, rec.ID, loaded[:1]))
	loaded, err = store.LoadTurns(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestDeleteCascades(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("lease.txt", time.Now())
	_, err := store.Save(ctx, rec)
	require.NoError(t, err)
	require.NoError(t, store.SaveTurns(ctx, rec.ID, []chat.Turn{
		{ID: "u1", Role: chat.RoleUser, Text: "hi", At: time.Now()},
	}))

	require.NoError(t, store.Delete(ctx, rec.ID))
	_, err = store.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	turns, err := store.LoadTurns(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, turns)

	assert.ErrorIs(t, store.Delete(ctx, rec.ID), ErrNotFound)
}
