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

type categoryInput struct {
	Slug     string     `json:"slug"`
	Name     model.Text `json:"name"`
	Position int64      `json:"position"`
	IsActive *bool      `json:"isActive"`
}

type categoryView struct {
	ID       int64      `json:"id"`
	Kind     string     `json:"kind"`
	Slug     string     `json:"slug"`
	Name     model.Text `json:"name"`
	Position int64      `json:"position"`
	IsActive bool       `json:"isActive"`
}

func toCategoryView(c model.Category) categoryView {
	return categoryView{
		ID:       c.ID,
		Kind:     c.Kind,
		Slug:     c.Slug,
		Name:     c.Name,
		Position: c.Position,
		IsActive: c.IsActive,
	}
}

func categoryViews(categories []model.Category) []categoryView {
	out := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryView(c))
	}
	return out
}

// requireKind validates the {kind} URL parameter.
func requireKind(w http.ResponseWriter, r *http.Request) (string, bool) {
	kind := chi.URLParam(r, "kind")
	if !model.IsCategoryKind(kind) {
		WriteBadRequest(w, "Unknown category kind")
		return "", false
	}
	return kind, true
}

// listCategoriesForKind serves the public category list of one collection.
func (h *Handler) listCategoriesForKind(kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.queries.ListActiveCategories(r.Context(), kind)
		if err != nil {
			h.logger.Error("failed to list categories", "source", "content", "kind", kind, "error", err)
			WriteInternalError(w, "Failed to list categories")
			return
		}
		WriteSuccess(w, categoryViews(categories))
	}
}

// ListBlogCategories handles GET /api/blog/categories.
func (h *Handler) ListBlogCategories(w http.ResponseWriter, r *http.Request) {
	h.listCategoriesForKind(model.CategoryBlog)(w, r)
}

// ListServiceCategories handles GET /api/service-categories.
func (h *Handler) ListServiceCategories(w http.ResponseWriter, r *http.Request) {
	h.listCategoriesForKind(model.CategoryService)(w, r)
}

// ListProjectCategories handles GET /api/project-categories.
func (h *Handler) ListProjectCategories(w http.ResponseWriter, r *http.Request) {
	h.listCategoriesForKind(model.CategoryProject)(w, r)
}

// ListLinkCategories handles GET /api/link-categories.
func (h *Handler) ListLinkCategories(w http.ResponseWriter, r *http.Request) {
	h.listCategoriesForKind(model.CategoryLink)(w, r)
}

// AdminListCategories lists every category of one kind, inactive
// included. Mounted under each per-kind admin subtree, for example
// GET /api/admin/project-categories, with the kind injected as a URL
// parameter.
func (h *Handler) AdminListCategories(w http.ResponseWriter, r *http.Request) {
	kind, ok := requireKind(w, r)
	if !ok {
		return
	}
	categories, err := h.queries.ListCategories(r.Context(), kind)
	if err != nil {
		h.logger.Error("failed to list categories", "source", "content", "kind", kind, "error", err)
		WriteInternalError(w, "Failed to list categories")
		return
	}
	WriteSuccess(w, categoryViews(categories))
}

// AdminCreateCategory creates a category under one per-kind admin
// subtree, for example POST /api/admin/project-categories.
func (h *Handler) AdminCreateCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := requireKind(w, r)
	if !ok {
		return
	}

	var in categoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Name.IsEmpty() {
		WriteBadRequest(w, "Name is required")
		return
	}
	if in.Slug == "" {
		source := in.Name.EN
		if source == "" {
			source = in.Name.AR
		}
		in.Slug = util.Slugify(source)
	}
	if !util.IsValidSlug(in.Slug) {
		WriteBadRequest(w, "Invalid slug")
		return
	}
	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.CountCategorySlug(r.Context(), kind, in.Slug, 0)
	}) {
		return
	}

	category, err := h.queries.CreateCategory(r.Context(), store.CategoryParams{
		Kind:     kind,
		Slug:     in.Slug,
		Name:     in.Name,
		Position: in.Position,
		IsActive: in.IsActive == nil || *in.IsActive,
	})
	if err != nil {
		h.logger.Error("failed to create category", "source", "content", "kind", kind, "error", err)
		WriteInternalError(w, "Failed to create category")
		return
	}

	h.audit(r, "content", "category created: "+kind+"/"+category.Slug)
	WriteCreated(w, toCategoryView(category))
}

// AdminUpdateCategory handles PUT {per-kind admin subtree}/{id}, for
// example PUT /api/admin/project-categories/{id}. The kind of an
// existing category cannot change.
func (h *Handler) AdminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := requireKind(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "category", func(id int64) (model.Category, error) {
		return h.queries.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if existing.Kind != kind {
		WriteNotFound(w, "Category not found")
		return
	}

	var in categoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.Name.IsEmpty() {
		WriteBadRequest(w, "Name is required")
		return
	}
	if in.Slug == "" {
		in.Slug = existing.Slug
	}
	if !util.IsValidSlug(in.Slug) {
		WriteBadRequest(w, "Invalid slug")
		return
	}
	if in.Slug != existing.Slug {
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.CountCategorySlug(r.Context(), kind, in.Slug, existing.ID)
		}) {
			return
		}
	}

	category, err := h.queries.UpdateCategory(r.Context(), existing.ID, store.CategoryParams{
		Kind:     kind,
		Slug:     in.Slug,
		Name:     in.Name,
		Position: in.Position,
		IsActive: in.IsActive == nil || *in.IsActive,
	})
	if err != nil {
		h.logger.Error("failed to update category", "source", "content", "kind", kind, "error", err)
		WriteInternalError(w, "Failed to update category")
		return
	}

	h.audit(r, "content", "category updated: "+kind+"/"+category.Slug)
	WriteSuccessMessage(w, toCategoryView(category), "Category updated")
}

// AdminDeleteCategory handles DELETE {per-kind admin subtree}/{id},
// for example DELETE /api/admin/project-categories/{id}. Content
// referencing the category keeps its slug; references are not foreign
// keys.
func (h *Handler) AdminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := requireKind(w, r)
	if !ok {
		return
	}
	existing, ok := requireEntityByID(w, r, "category", func(id int64) (model.Category, error) {
		return h.queries.GetCategoryByID(r.Context(), id)
	})
	if !ok {
		return
	}
	if existing.Kind != kind {
		WriteNotFound(w, "Category not found")
		return
	}

	if err := h.queries.DeleteCategory(r.Context(), existing.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Category not found")
			return
		}
		h.logger.Error("failed to delete category", "source", "content", "kind", kind, "error", err)
		WriteInternalError(w, "Failed to delete category")
		return
	}

	h.audit(r, "content", "category deleted: "+kind+"/"+existing.Slug)
	WriteSuccessMessage(w, nil, "Category deleted")
}
