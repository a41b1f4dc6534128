// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/manara-go/internal/model"
	"github.com/olegiv/manara-go/internal/testutil"
)

func uploadBytes(t *testing.T, s *Store, content []byte, p UploadParams) FileRecord {
	t.Helper()
	rec, err := s.Upload(context.Background(), bytes.NewReader(content), p)
	require.NoError(t, err)
	return rec
}

func TestUploadAndOpenRoundTrip(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)

	// Spans multiple chunks plus a partial tail.
	content := bytes.Repeat([]byte("manara"), ChunkSize/2)
	rec := uploadBytes(t, s, content, UploadParams{
		Filename:    "warehouse.webp",
		ContentType: "image/webp",
	})

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, int64(len(content)), rec.Length)

	wantETag := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(wantETag[:]), rec.ETag)

	rc, got, err := s.Open(context.Background(), rec.ID)
	require.NoError(t, err)
	defer rc.Close()

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "warehouse.webp", got.Filename)
	assert.Equal(t, "image/webp", got.ContentType)

	read, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(content, read), "content mismatch after round trip")
}

func TestUploadEmptyContent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)

	rec := uploadBytes(t, s, nil, UploadParams{Filename: "empty.bin", ContentType: "application/octet-stream"})
	assert.Equal(t, int64(0), rec.Length)

	rc, _, err := s.Open(context.Background(), rec.ID)
	require.NoError(t, err)
	defer rc.Close()

	read, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Empty(t, read)
}

func TestUploadSetsExplicitActiveFlag(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)

	rec := uploadBytes(t, s, []byte("x"), UploadParams{
		Filename:    "banner.webp",
		ContentType: "image/webp",
		Meta:        Metadata{Page: "home"},
	})

	require.True(t, rec.Metadata.IsActive.Valid)
	assert.True(t, rec.Metadata.IsActive.Bool)
	assert.True(t, rec.Metadata.Active())
}

func TestMetadataActiveTreatsUnsetAsActive(t *testing.T) {
	assert.True(t, Metadata{}.Active())
	assert.True(t, Metadata{IsActive: sql.NullBool{Bool: true, Valid: true}}.Active())
	assert.False(t, Metadata{IsActive: sql.NullBool{Bool: false, Valid: true}}.Active())
}

func TestGetNotFound(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)

	_, err := s.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)

	rec := uploadBytes(t, s, []byte("payload"), UploadParams{Filename: "doc.pdf", ContentType: "application/pdf"})

	require.NoError(t, s.Delete(context.Background(), rec.ID))

	_, err := s.Get(context.Background(), rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var chunks int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM media_chunks WHERE file_id = ?`, rec.ID).Scan(&chunks))
	assert.Equal(t, 0, chunks)

	err = s.Delete(context.Background(), rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "second delete should report not found")
}

func TestListFilters(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)
	ctx := context.Background()

	home := uploadBytes(t, s, []byte("a"), UploadParams{
		Filename:    "logistic.webp",
		ContentType: "image/webp",
		Meta:        Metadata{Page: "home", Title: model.Text{EN: "Shipping", AR: "شحن"}},
	})
	about := uploadBytes(t, s, []byte("b"), UploadParams{
		Filename:    "team.webp",
		ContentType: "image/webp",
		Meta:        Metadata{Page: "about"},
	})
	inactive := uploadBytes(t, s, []byte("c"), UploadParams{
		Filename:    "old.webp",
		ContentType: "image/webp",
		Meta: Metadata{
			Page:     "home",
			IsActive: sql.NullBool{Bool: false, Valid: true},
		},
	})

	all, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	homeOnly, err := s.List(ctx, ListFilter{Page: "home"})
	require.NoError(t, err)
	require.Len(t, homeOnly, 2)
	assert.Equal(t, home.ID, homeOnly[0].ID)
	assert.Equal(t, inactive.ID, homeOnly[1].ID)

	activeHome, err := s.List(ctx, ListFilter{Page: "home", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, activeHome, 1)
	assert.Equal(t, home.ID, activeHome[0].ID)

	byName, err := s.List(ctx, ListFilter{FilenameContains: "team"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, about.ID, byName[0].ID)
}

func TestListTreatsLegacyNullActiveAsActive(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)
	ctx := context.Background()

	rec := uploadBytes(t, s, []byte("x"), UploadParams{
		Filename: "legacy.webp", ContentType: "image/webp",
		Meta: Metadata{Page: "home"},
	})
	// Simulate a row imported without an active flag.
	_, err := db.Exec(`UPDATE media_files SET is_active = NULL WHERE id = ?`, rec.ID)
	require.NoError(t, err)

	active, err := s.List(ctx, ListFilter{Page: "home", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.True(t, active[0].Metadata.Active())
}

func TestListExcludesVariantsByDefault(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)
	ctx := context.Background()

	parent := uploadBytes(t, s, []byte("full"), UploadParams{Filename: "hero.webp", ContentType: "image/webp"})
	variant := uploadBytes(t, s, []byte("thumb"), UploadParams{
		Filename:    "hero_thumb.webp",
		ContentType: "image/webp",
		Meta:        Metadata{VariantOf: parent.ID},
	})

	listed, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, parent.ID, listed[0].ID)

	withVariants, err := s.List(ctx, ListFilter{IncludeVariants: true})
	require.NoError(t, err)
	assert.Len(t, withVariants, 2)

	variants, err := s.ListVariants(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, variant.ID, variants[0].ID)
}

func TestDeleteWithVariants(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)
	ctx := context.Background()

	parent := uploadBytes(t, s, []byte("full"), UploadParams{Filename: "hero.webp", ContentType: "image/webp"})
	variant := uploadBytes(t, s, []byte("thumb"), UploadParams{
		Filename: "hero_thumb.webp", ContentType: "image/webp",
		Meta: Metadata{VariantOf: parent.ID},
	})

	require.NoError(t, s.DeleteWithVariants(ctx, parent.ID))

	_, err := s.Get(ctx, parent.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, variant.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMetadata(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)
	ctx := context.Background()

	rec := uploadBytes(t, s, []byte("x"), UploadParams{
		Filename: "banner.webp", ContentType: "image/webp",
		Meta: Metadata{
			Page:  "home",
			Title: model.Text{EN: "Old", AR: "قديم"},
		},
	})

	pos := int64(3)
	inactive := false
	titleEN := "New"
	require.NoError(t, s.UpdateMetadata(ctx, rec.ID, MetadataPatch{
		Position: &pos,
		IsActive: &inactive,
		TitleEN:  &titleEN,
	}))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "home", got.Metadata.Page, "untouched fields keep their values")
	assert.Equal(t, "قديم", got.Metadata.Title.AR)
	assert.Equal(t, "New", got.Metadata.Title.EN)
	require.True(t, got.Metadata.Position.Valid)
	assert.Equal(t, int64(3), got.Metadata.Position.Int64)
	require.True(t, got.Metadata.IsActive.Valid)
	assert.False(t, got.Metadata.IsActive.Bool)

	err = s.UpdateMetadata(ctx, "no-such-id", MetadataPatch{Position: &pos})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.UpdateMetadata(ctx, "no-such-id", MetadataPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateContentBecomesSeparateObjects(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	s := NewStore(db)

	content := []byte("identical bytes")
	a := uploadBytes(t, s, content, UploadParams{Filename: "a.webp", ContentType: "image/webp"})
	b := uploadBytes(t, s, content, UploadParams{Filename: "b.webp", ContentType: "image/webp"})

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.ETag, b.ETag)
}
