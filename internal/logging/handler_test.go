// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/manara-go/internal/store"
	"github.com/olegiv/manara-go/internal/testutil"
)

func TestAuditHandlerMirrorsWarnings(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	var buf bytes.Buffer
	inner := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewAuditHandler(inner, db))

	logger.Info("routine startup")
	logger.Warn("token verification failed", "source", "auth", "remote", "10.0.0.1")
	logger.Error("upload rejected", "filename", "huge.bin")

	events, err := store.New(db).ListAuditEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2, "INFO must not reach the audit log")

	// Newest first.
	assert.Equal(t, LevelError, events[0].Level)
	assert.Equal(t, "upload rejected", events[0].Message)
	assert.Equal(t, "media", events[0].Source)

	assert.Equal(t, LevelWarning, events[1].Level)
	assert.Equal(t, "auth", events[1].Source)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(events[1].Metadata), &meta))
	assert.Equal(t, "10.0.0.1", meta["remote"])
	assert.NotContains(t, meta, "source")

	// The inner handler still sees everything.
	assert.Contains(t, buf.String(), "routine startup")
}

func TestAuditHandlerInfersSource(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	inner := slog.NewTextHandler(&bytes.Buffer{}, nil)
	logger := slog.New(NewAuditHandler(inner, db))

	logger.Warn("banner metadata update failed")
	logger.Warn("cache backend unreachable")
	logger.Warn("disk almost full")

	events, err := store.New(db).ListAuditEvents(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "system", events[0].Source)
	assert.Equal(t, "cache", events[1].Source)
	assert.Equal(t, "media", events[2].Source)
}

func TestAuditHandlerMetadataEscaping(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	inner := slog.NewTextHandler(&bytes.Buffer{}, nil)
	logger := slog.New(NewAuditHandler(inner, db))

	logger.Warn("odd input", "value", "line1\nline2 \"quoted\"")

	events, err := store.New(db).ListAuditEvents(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(events[0].Metadata), &meta))
	assert.Equal(t, "line1\nline2 \"quoted\"", meta["value"])
}

func TestAuditHandlerWithAttrs(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	inner := slog.NewTextHandler(&bytes.Buffer{}, nil)
	logger := slog.New(NewAuditHandler(inner, db)).With("request_id", "abc")

	logger.Warn("config reload failed")

	events, err := store.New(db).ListAuditEvents(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "config reload failed", events[0].Message)
}
