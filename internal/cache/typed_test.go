// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seoEntry struct {
	Page  string `json:"page"`
	Title string `json:"title"`
}

func TestTypedRoundTrip(t *testing.T) {
	backend := NewMemory(MemoryOptions{DefaultTTL: time.Minute})
	defer backend.Close()
	c := NewTyped[seoEntry](backend, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "seo:home", &seoEntry{Page: "home", Title: "Manara"}))

	got, ok := c.Get(ctx, "seo:home")
	require.True(t, ok)
	assert.Equal(t, "home", got.Page)
	assert.Equal(t, "Manara", got.Title)

	_, ok = c.Get(ctx, "seo:absent")
	assert.False(t, ok)
}

func TestTypedGetOrSet(t *testing.T) {
	backend := NewMemory(MemoryOptions{DefaultTTL: time.Minute})
	defer backend.Close()
	c := NewTyped[seoEntry](backend, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func() (*seoEntry, error) {
		calls++
		return &seoEntry{Page: "about"}, nil
	}

	first, err := c.GetOrSet(ctx, "seo:about", load)
	require.NoError(t, err)
	assert.Equal(t, "about", first.Page)

	second, err := c.GetOrSet(ctx, "seo:about", load)
	require.NoError(t, err)
	assert.Equal(t, "about", second.Page)
	assert.Equal(t, 1, calls, "second call must be served from cache")
}

func TestTypedGetOrSetPropagatesError(t *testing.T) {
	backend := NewMemory(MemoryOptions{DefaultTTL: time.Minute})
	defer backend.Close()
	c := NewTyped[seoEntry](backend, time.Minute)

	wantErr := errors.New("db down")
	_, err := c.GetOrSet(context.Background(), "seo:x", func() (*seoEntry, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
}

func TestFactoryDefaultsToMemory(t *testing.T) {
	c, err := New(Config{DefaultTTL: time.Minute, MaxEntries: 100})
	require.NoError(t, err)
	defer c.Close()

	_, isMemory := c.(*Memory)
	assert.True(t, isMemory)
}
