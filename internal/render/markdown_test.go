// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownConverts(t *testing.T) {
	html, err := Markdown("# Freight\n\nDoor to **door** delivery.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<strong>door</strong>")
}

func TestMarkdownStripsScripts(t *testing.T) {
	html, err := Markdown("hello <script>alert(1)</script> world")
	require.NoError(t, err)
	// The tag is stripped; the inner text survives as inert content.
	assert.NotContains(t, html, "<script")
	assert.Contains(t, html, "hello alert(1) world")
}

func TestMarkdownStripsEventHandlers(t *testing.T) {
	html, err := Markdown(`<a href="/x" onclick="steal()">link</a>`)
	require.NoError(t, err)
	assert.NotContains(t, html, "onclick")
}

func TestMarkdownPreservesArabic(t *testing.T) {
	html, err := Markdown("## خدمات الشحن")
	require.NoError(t, err)
	assert.Contains(t, html, "خدمات الشحن")
}

func TestMarkdownEmptyInput(t *testing.T) {
	html, err := Markdown("")
	require.NoError(t, err)
	assert.Empty(t, html)
}
