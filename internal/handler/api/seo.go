// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/manara-go/internal/model"
	"github.com/olegiv/manara-go/internal/store"
)

type seoInput struct {
	Title       model.Text `json:"title"`
	Description model.Text `json:"description"`
	Keywords    model.Text `json:"keywords"`
	OGImage     string     `json:"ogImage"`
	IsActive    *bool      `json:"isActive"`
}

type seoView struct {
	Page        string     `json:"page"`
	Title       model.Text `json:"title"`
	Description model.Text `json:"description"`
	Keywords    model.Text `json:"keywords"`
	OGImage     string     `json:"ogImage,omitempty"`
	IsActive    bool       `json:"isActive"`
}

func toSEOView(s model.SEOSettings) seoView {
	return seoView{
		Page:        s.Page,
		Title:       s.Title,
		Description: s.Description,
		Keywords:    s.Keywords,
		OGImage:     s.OGImage,
		IsActive:    s.IsActive,
	}
}

// GetSEO handles GET /api/seo/{page}. Responses are cached.
func (h *Handler) GetSEO(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")

	settings, ok := h.seoCache.Get(r.Context(), "seo:"+page)
	if !ok {
		loaded, err := h.queries.GetSEOSettings(r.Context(), page)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteNotFound(w, "SEO settings not found")
				return
			}
			h.logger.Error("failed to get seo settings", "source", "content", "error", err)
			WriteInternalError(w, "Failed to retrieve SEO settings")
			return
		}
		settings = &loaded
		_ = h.seoCache.Set(r.Context(), "seo:"+page, settings)
	}

	WriteSuccess(w, toSEOView(*settings))
}

// AdminListSEO handles GET /api/admin/seo.
func (h *Handler) AdminListSEO(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.ListSEOSettings(r.Context())
	if err != nil {
		h.logger.Error("failed to list seo settings", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list SEO settings")
		return
	}
	views := make([]seoView, 0, len(settings))
	for _, s := range settings {
		views = append(views, toSEOView(s))
	}
	WriteSuccess(w, views)
}

// AdminUpsertSEO handles PUT /api/admin/seo/{page}. Creates or replaces
// the page's settings in one write.
func (h *Handler) AdminUpsertSEO(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	if page == "" {
		WriteBadRequest(w, "Page is required")
		return
	}

	var in seoInput
	if !decodeJSON(w, r, &in) {
		return
	}

	settings, err := h.queries.UpsertSEOSettings(r.Context(), store.SEOParams{
		Page:        page,
		Title:       in.Title,
		Description: in.Description,
		Keywords:    in.Keywords,
		OGImage:     in.OGImage,
		IsActive:    in.IsActive == nil || *in.IsActive,
	})
	if err != nil {
		h.logger.Error("failed to upsert seo settings", "source", "content", "error", err)
		WriteInternalError(w, "Failed to save SEO settings")
		return
	}

	h.invalidateSEO(r, page)
	h.audit(r, "content", "seo settings saved: "+page)
	WriteSuccessMessage(w, toSEOView(settings), "SEO settings saved")
}

// AdminDeleteSEO handles DELETE /api/admin/seo/{page}.
func (h *Handler) AdminDeleteSEO(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")

	if err := h.queries.DeleteSEOSettings(r.Context(), page); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "SEO settings not found")
			return
		}
		h.logger.Error("failed to delete seo settings", "source", "content", "error", err)
		WriteInternalError(w, "Failed to delete SEO settings")
		return
	}

	h.invalidateSEO(r, page)
	h.audit(r, "content", "seo settings deleted: "+page)
	WriteSuccessMessage(w, nil, "SEO settings deleted")
}
