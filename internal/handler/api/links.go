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

type linkInput struct {
	Page     string     `json:"page"`
	Label    model.Text `json:"label"`
	Href     string     `json:"href"`
	Category string     `json:"category"`
	Position int64      `json:"position"`
	IsActive *bool      `json:"isActive"`
}

type linkView struct {
	ID       int64      `json:"id"`
	Page     string     `json:"page"`
	Label    model.Text `json:"label"`
	Href     string     `json:"href"`
	Category string     `json:"category,omitempty"`
	Position int64      `json:"position"`
	IsActive bool       `json:"isActive"`
}

func toLinkView(l model.InternalLink) linkView {
	return linkView{
		ID:       l.ID,
		Page:     l.Page,
		Label:    l.Label,
		Href:     l.Href,
		Category: l.Category,
		Position: l.Position,
		IsActive: l.IsActive,
	}
}

func linkViews(links []model.InternalLink) []linkView {
	out := make([]linkView, 0, len(links))
	for _, l := range links {
		out = append(out, toLinkView(l))
	}
	return out
}

func (in *linkInput) validate(w http.ResponseWriter) bool {
	if in.Page == "" {
		WriteBadRequest(w, "Page is required")
		return false
	}
	if in.Href == "" {
		WriteBadRequest(w, "Href is required")
		return false
	}
	if in.Label.IsEmpty() {
		WriteBadRequest(w, "Label is required")
		return false
	}
	return true
}

// ListInternalLinks handles GET /api/internal-links/{page}.
func (h *Handler) ListInternalLinks(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	links, err := h.queries.ListActiveInternalLinksForPage(r.Context(), page)
	if err != nil {
		h.logger.Error("failed to list internal links", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list internal links")
		return
	}
	WriteSuccess(w, linkViews(links))
}

// AdminListInternalLinks handles GET /api/admin/internal-links.
func (h *Handler) AdminListInternalLinks(w http.ResponseWriter, r *http.Request) {
	links, err := h.queries.ListInternalLinks(r.Context())
	if err != nil {
		h.logger.Error("failed to list internal links", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list internal links")
		return
	}
	WriteSuccess(w, linkViews(links))
}

// AdminCreateInternalLink handles POST /api/admin/internal-links.
func (h *Handler) AdminCreateInternalLink(w http.ResponseWriter, r *http.Request) {
	var in linkInput
	if !decodeJSON(w, r, &in) || !in.validate(w) {
		return
	}

	link, err := h.queries.CreateInternalLink(r.Context(), store.InternalLinkParams{
		Page:     in.Page,
		Label:    in.Label,
		Href:     in.Href,
		Category: in.Category,
		Position: in.Position,
		IsActive: in.IsActive == nil || *in.IsActive,
	})
	if err != nil {
		h.logger.Error("failed to create internal link", "source", "content", "error", err)
		WriteInternalError(w, "Failed to create internal link")
		return
	}

	h.audit(r, "content", "internal link created: "+link.Href)
	WriteCreated(w, toLinkView(link))
}

// AdminUpdateInternalLink handles PUT /api/admin/internal-links/{id}.
func (h *Handler) AdminUpdateInternalLink(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "internal link", func(id int64) (model.InternalLink, error) {
		return h.queries.GetInternalLinkByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var in linkInput
	if !decodeJSON(w, r, &in) || !in.validate(w) {
		return
	}

	link, err := h.queries.UpdateInternalLink(r.Context(), existing.ID, store.InternalLinkParams{
		Page:     in.Page,
		Label:    in.Label,
		Href:     in.Href,
		Category: in.Category,
		Position: in.Position,
		IsActive: in.IsActive == nil || *in.IsActive,
	})
	if err != nil {
		h.logger.Error("failed to update internal link", "source", "content", "error", err)
		WriteInternalError(w, "Failed to update internal link")
		return
	}

	h.audit(r, "content", "internal link updated: "+link.Href)
	WriteSuccessMessage(w, toLinkView(link), "Internal link updated")
}

// AdminDeleteInternalLink handles DELETE /api/admin/internal-links/{id}.
func (h *Handler) AdminDeleteInternalLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid internal link ID")
		return
	}

	if err := h.queries.DeleteInternalLink(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Internal link not found")
			return
		}
		h.logger.Error("failed to delete internal link", "source", "content", "error", err)
		WriteInternalError(w, "Failed to delete internal link")
		return
	}

	h.audit(r, "content", "internal link deleted")
	WriteSuccessMessage(w, nil, "Internal link deleted")
}
