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

func serviceView(s model.Service) contentView {
	return contentView{
		ID:          s.ID,
		Slug:        s.Slug,
		Title:       s.Title,
		Description: s.Description,
		Body:        s.Body,
		Category:    s.Category,
		ImageURL:    imageURL(s.ImageID),
		IsActive:    s.IsActive,
		IsFeatured:  s.IsFeatured,
		Position:    s.Position,
	}
}

func serviceViews(services []model.Service) []contentView {
	out := make([]contentView, 0, len(services))
	for _, s := range services {
		out = append(out, serviceView(s))
	}
	return out
}

// ListServices handles GET /api/services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.queries.ListActiveServices(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list services")
		return
	}
	WriteSuccess(w, serviceViews(services))
}

// ListFeaturedServices handles GET /api/services/featured.
func (h *Handler) ListFeaturedServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.queries.ListFeaturedServices(r.Context())
	if err != nil {
		h.logger.Error("failed to list featured services", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list services")
		return
	}
	WriteSuccess(w, serviceViews(services))
}

// GetService handles GET /api/services/{slug}.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	service, err := h.queries.GetServiceBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Service not found")
			return
		}
		h.logger.Error("failed to get service", "source", "content", "error", err)
		WriteInternalError(w, "Failed to retrieve service")
		return
	}
	WriteSuccess(w, serviceView(service))
}

// AdminListServices handles GET /api/admin/services.
func (h *Handler) AdminListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.queries.ListServices(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list services")
		return
	}
	WriteSuccess(w, serviceViews(services))
}

// AdminCreateService handles POST /api/admin/services.
func (h *Handler) AdminCreateService(w http.ResponseWriter, r *http.Request) {
	var in contentInput
	if !decodeJSON(w, r, &in) || !in.normalize(w) {
		return
	}
	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.CountServiceSlug(r.Context(), in.Slug, 0)
	}) {
		return
	}

	service, err := h.queries.CreateService(r.Context(), store.ServiceParams{
		Slug:        in.Slug,
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		Category:    in.Category,
		ImageID:     in.imageID(),
		IsActive:    in.active(),
		IsFeatured:  in.IsFeatured,
		Position:    in.Position,
	})
	if err != nil {
		h.logger.Error("failed to create service", "source", "content", "error", err)
		WriteInternalError(w, "Failed to create service")
		return
	}

	h.audit(r, "content", "service created: "+service.Slug)
	WriteCreated(w, serviceView(service))
}

// AdminUpdateService handles PUT /api/admin/services/{id}.
func (h *Handler) AdminUpdateService(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "service", func(id int64) (model.Service, error) {
		return h.queries.GetServiceByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var in contentInput
	if !decodeJSON(w, r, &in) || !in.normalize(w) {
		return
	}
	if in.Slug != existing.Slug {
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.CountServiceSlug(r.Context(), in.Slug, existing.ID)
		}) {
			return
		}
	}

	service, err := h.queries.UpdateService(r.Context(), existing.ID, store.ServiceParams{
		Slug:        in.Slug,
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		Category:    in.Category,
		ImageID:     in.imageID(),
		IsActive:    in.active(),
		IsFeatured:  in.IsFeatured,
		Position:    in.Position,
	})
	if err != nil {
		h.logger.Error("failed to update service", "source", "content", "error", err)
		WriteInternalError(w, "Failed to update service")
		return
	}

	h.audit(r, "content", "service updated: "+service.Slug)
	WriteSuccessMessage(w, serviceView(service), "Service updated")
}

// AdminDeleteService handles DELETE /api/admin/services/{id}.
func (h *Handler) AdminDeleteService(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid service ID")
		return
	}

	if err := h.queries.DeleteService(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Service not found")
			return
		}
		h.logger.Error("failed to delete service", "source", "content", "error", err)
		WriteInternalError(w, "Failed to delete service")
		return
	}

	h.audit(r, "content", "service deleted")
	WriteSuccessMessage(w, nil, "Service deleted")
}
