// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/manara-go/internal/blob"
)

// GetBanners handles GET /api/banners/{page}. Results are cached per
// page; any banner mutation drops the whole prefix.
func (h *Handler) GetBanners(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	key := "banners:" + page

	if cached, ok := h.bannerCache.Get(r.Context(), key); ok {
		WriteSuccess(w, *cached)
		return
	}

	views, err := h.banners.ResolveForPage(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to resolve banners", "source", "media", "page", page, "error", err)
		WriteInternalError(w, "Failed to load banners")
		return
	}

	if err := h.bannerCache.Set(r.Context(), key, &views); err != nil {
		h.logger.Warn("failed to cache banners", "source", "cache", "page", page, "error", err)
	}
	WriteSuccess(w, views)
}

// AdminListBanners handles GET /api/admin/banners/{page}. Inactive
// banners are included so the admin sees everything assigned to the page.
func (h *Handler) AdminListBanners(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")

	views, err := h.banners.ListForPage(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to list banners", "source", "media", "page", page, "error", err)
		WriteInternalError(w, "Failed to load banners")
		return
	}
	WriteSuccess(w, views)
}

// AdminListAllBanners handles GET /api/admin/banners: every media
// object assigned to a page, across all pages.
func (h *Handler) AdminListAllBanners(w http.ResponseWriter, r *http.Request) {
	records, err := h.blobs.List(r.Context(), blob.ListFilter{})
	if err != nil {
		h.logger.Error("failed to list banners", "source", "media", "error", err)
		WriteInternalError(w, "Failed to load banners")
		return
	}

	views := make([]mediaView, 0, len(records))
	for _, rec := range records {
		if rec.Metadata.Page == "" {
			continue
		}
		views = append(views, toMediaView(rec))
	}
	WriteSuccess(w, views)
}
