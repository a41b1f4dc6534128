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
	"github.com/olegiv/manara-go/internal/util"
)

// contentInput is the request body shared by projects and services.
type contentInput struct {
	Slug        string     `json:"slug"`
	Title       model.Text `json:"title"`
	Description model.Text `json:"description"`
	Body        model.Text `json:"body"`
	Category    string     `json:"category"`
	ImageID     string     `json:"imageId"`
	IsActive    *bool      `json:"isActive"`
	IsFeatured  bool       `json:"isFeatured"`
	Position    int64      `json:"position"`
}

// normalize fills the slug from the title when absent and applies the
// absent-means-active default. Returns false with the response written
// on invalid input.
func (in *contentInput) normalize(w http.ResponseWriter) bool {
	if in.Title.IsEmpty() {
		WriteBadRequest(w, "Title is required")
		return false
	}
	if in.Slug == "" {
		source := in.Title.EN
		if source == "" {
			source = in.Title.AR
		}
		in.Slug = util.Slugify(source)
	}
	if !util.IsValidSlug(in.Slug) {
		WriteBadRequest(w, "Invalid slug")
		return false
	}
	return true
}

func (in *contentInput) active() bool {
	return in.IsActive == nil || *in.IsActive
}

func (in *contentInput) imageID() sql.NullString {
	return util.NullStringFromValue(in.ImageID)
}

// contentView is the JSON shape shared by project and service responses.
type contentView struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       model.Text `json:"title"`
	Description model.Text `json:"description"`
	Body        model.Text `json:"body"`
	Category    string     `json:"category,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	IsActive    bool       `json:"isActive"`
	IsFeatured  bool       `json:"isFeatured"`
	Position    int64      `json:"position"`
}

func imageURL(id sql.NullString) string {
	if !id.Valid || id.String == "" {
		return ""
	}
	return "/api/gridfs/images/" + id.String
}

func projectView(p model.Project) contentView {
	return contentView{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Body:        p.Body,
		Category:    p.Category,
		ImageURL:    imageURL(p.ImageID),
		IsActive:    p.IsActive,
		IsFeatured:  p.IsFeatured,
		Position:    p.Position,
	}
}

func projectViews(projects []model.Project) []contentView {
	out := make([]contentView, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectView(p))
	}
	return out
}

// ListProjects handles GET /api/projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.queries.ListActiveProjects(r.Context())
	if err != nil {
		h.logger.Error("failed to list projects", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list projects")
		return
	}
	WriteSuccess(w, projectViews(projects))
}

// ListFeaturedProjects handles GET /api/projects/featured.
func (h *Handler) ListFeaturedProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.queries.ListFeaturedProjects(r.Context())
	if err != nil {
		h.logger.Error("failed to list featured projects", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list projects")
		return
	}
	WriteSuccess(w, projectViews(projects))
}

// GetProject handles GET /api/projects/{slug}. Inactive projects are
// indistinguishable from absent ones.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	project, err := h.queries.GetProjectBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Project not found")
			return
		}
		h.logger.Error("failed to get project", "source", "content", "error", err)
		WriteInternalError(w, "Failed to retrieve project")
		return
	}
	WriteSuccess(w, projectView(project))
}

// AdminListProjects handles GET /api/admin/projects.
func (h *Handler) AdminListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.queries.ListProjects(r.Context())
	if err != nil {
		h.logger.Error("failed to list projects", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list projects")
		return
	}
	WriteSuccess(w, projectViews(projects))
}

// AdminCreateProject handles POST /api/admin/projects.
func (h *Handler) AdminCreateProject(w http.ResponseWriter, r *http.Request) {
	var in contentInput
	if !decodeJSON(w, r, &in) || !in.normalize(w) {
		return
	}
	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.CountProjectSlug(r.Context(), in.Slug, 0)
	}) {
		return
	}

	project, err := h.queries.CreateProject(r.Context(), store.ProjectParams{
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
		h.logger.Error("failed to create project", "source", "content", "error", err)
		WriteInternalError(w, "Failed to create project")
		return
	}

	h.audit(r, "content", "project created: "+project.Slug)
	WriteCreated(w, projectView(project))
}

// AdminUpdateProject handles PUT /api/admin/projects/{id}.
func (h *Handler) AdminUpdateProject(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "project", func(id int64) (model.Project, error) {
		return h.queries.GetProjectByID(r.Context(), id)
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
			return h.queries.CountProjectSlug(r.Context(), in.Slug, existing.ID)
		}) {
			return
		}
	}

	project, err := h.queries.UpdateProject(r.Context(), existing.ID, store.ProjectParams{
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
		h.logger.Error("failed to update project", "source", "content", "error", err)
		WriteInternalError(w, "Failed to update project")
		return
	}

	h.audit(r, "content", "project updated: "+project.Slug)
	WriteSuccessMessage(w, projectView(project), "Project updated")
}

// AdminDeleteProject handles DELETE /api/admin/projects/{id}.
func (h *Handler) AdminDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid project ID")
		return
	}

	if err := h.queries.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Project not found")
			return
		}
		h.logger.Error("failed to delete project", "source", "content", "error", err)
		WriteInternalError(w, "Failed to delete project")
		return
	}

	h.audit(r, "content", "project deleted")
	WriteSuccessMessage(w, nil, "Project deleted")
}
