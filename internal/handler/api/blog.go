// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/manara-go/internal/model"
	"github.com/olegiv/manara-go/internal/render"
	"github.com/olegiv/manara-go/internal/store"
	"github.com/olegiv/manara-go/internal/util"
)

type blogPostInput struct {
	Slug        string     `json:"slug"`
	Title       model.Text `json:"title"`
	Excerpt     model.Text `json:"excerpt"`
	Body        model.Text `json:"body"` // Markdown source
	Category    string     `json:"category"`
	ImageID     string     `json:"imageId"`
	IsPublished bool       `json:"isPublished"`
	PublishAt   string     `json:"publishAt"` // RFC 3339, optional
	Position    int64      `json:"position"`
}

func (in *blogPostInput) params(w http.ResponseWriter) (store.BlogPostParams, bool) {
	if in.Title.IsEmpty() {
		WriteBadRequest(w, "Title is required")
		return store.BlogPostParams{}, false
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
		return store.BlogPostParams{}, false
	}

	var publishAt sql.NullTime
	if in.PublishAt != "" {
		at, err := time.Parse(time.RFC3339, in.PublishAt)
		if err != nil {
			WriteBadRequest(w, "Invalid publishAt, expected RFC 3339 timestamp")
			return store.BlogPostParams{}, false
		}
		publishAt = sql.NullTime{Time: at.UTC(), Valid: true}
	}

	return store.BlogPostParams{
		Slug:        in.Slug,
		Title:       in.Title,
		Excerpt:     in.Excerpt,
		Body:        in.Body,
		Category:    in.Category,
		ImageID:     util.NullStringFromValue(in.ImageID),
		IsPublished: in.IsPublished,
		PublishAt:   publishAt,
		Position:    in.Position,
	}, true
}

type blogPostView struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       model.Text `json:"title"`
	Excerpt     model.Text `json:"excerpt"`
	Body        model.Text `json:"body,omitempty"`     // Markdown, admin surface only
	BodyHTML    model.Text `json:"bodyHtml,omitempty"` // sanitized HTML, public surface
	Category    string     `json:"category,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	IsPublished bool       `json:"isPublished"`
	PublishAt   *time.Time `json:"publishAt,omitempty"`
	Position    int64      `json:"position"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func blogPostSummary(p model.BlogPost) blogPostView {
	v := blogPostView{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Excerpt:     p.Excerpt,
		Category:    p.Category,
		ImageURL:    imageURL(p.ImageID),
		IsPublished: p.IsPublished,
		Position:    p.Position,
		CreatedAt:   p.CreatedAt,
	}
	if p.PublishAt.Valid {
		at := p.PublishAt.Time
		v.PublishAt = &at
	}
	return v
}

// blogPostPublic renders the Markdown body to sanitized HTML for the
// public read path.
func (h *Handler) blogPostPublic(p model.BlogPost) (blogPostView, error) {
	v := blogPostSummary(p)

	en, err := render.Markdown(p.Body.EN)
	if err != nil {
		return v, err
	}
	ar, err := render.Markdown(p.Body.AR)
	if err != nil {
		return v, err
	}
	v.BodyHTML = model.Text{EN: en, AR: ar}
	return v, nil
}

// ListBlogPosts handles GET /api/blog/posts, newest first.
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPublishedBlogPosts(r.Context())
	if err != nil {
		h.logger.Error("failed to list blog posts", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list blog posts")
		return
	}
	views := make([]blogPostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, blogPostSummary(p))
	}
	WriteSuccess(w, views)
}

// GetBlogPost handles GET /api/blog/posts/{slug}. The body is returned
// as sanitized HTML.
func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.queries.GetPublishedBlogPostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Blog post not found")
			return
		}
		h.logger.Error("failed to get blog post", "source", "content", "error", err)
		WriteInternalError(w, "Failed to retrieve blog post")
		return
	}

	view, err := h.blogPostPublic(post)
	if err != nil {
		h.logger.Error("failed to render blog post", "source", "content", "error", err)
		WriteInternalError(w, "Failed to render blog post")
		return
	}
	WriteSuccess(w, view)
}

// AdminListBlogPosts handles GET /api/admin/blog/posts.
func (h *Handler) AdminListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListBlogPosts(r.Context())
	if err != nil {
		h.logger.Error("failed to list blog posts", "source", "content", "error", err)
		WriteInternalError(w, "Failed to list blog posts")
		return
	}
	views := make([]blogPostView, 0, len(posts))
	for _, p := range posts {
		v := blogPostSummary(p)
		v.Body = p.Body
		views = append(views, v)
	}
	WriteSuccess(w, views)
}

// AdminCreateBlogPost handles POST /api/admin/blog/posts.
func (h *Handler) AdminCreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var in blogPostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	params, ok := in.params(w)
	if !ok {
		return
	}
	if !checkSlugUnique(w, func() (int64, error) {
		return h.queries.CountBlogPostSlug(r.Context(), params.Slug, 0)
	}) {
		return
	}

	post, err := h.queries.CreateBlogPost(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to create blog post", "source", "content", "error", err)
		WriteInternalError(w, "Failed to create blog post")
		return
	}

	h.audit(r, "content", "blog post created: "+post.Slug)
	v := blogPostSummary(post)
	v.Body = post.Body
	WriteCreated(w, v)
}

// AdminUpdateBlogPost handles PUT /api/admin/blog/posts/{id}.
func (h *Handler) AdminUpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "blog post", func(id int64) (model.BlogPost, error) {
		return h.queries.GetBlogPostByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var in blogPostInput
	if !decodeJSON(w, r, &in) {
		return
	}
	params, ok := in.params(w)
	if !ok {
		return
	}
	if params.Slug != existing.Slug {
		if !checkSlugUnique(w, func() (int64, error) {
			return h.queries.CountBlogPostSlug(r.Context(), params.Slug, existing.ID)
		}) {
			return
		}
	}

	post, err := h.queries.UpdateBlogPost(r.Context(), existing.ID, params)
	if err != nil {
		h.logger.Error("failed to update blog post", "source", "content", "error", err)
		WriteInternalError(w, "Failed to update blog post")
		return
	}

	h.audit(r, "content", "blog post updated: "+post.Slug)
	v := blogPostSummary(post)
	v.Body = post.Body
	WriteSuccessMessage(w, v, "Blog post updated")
}

// AdminDeleteBlogPost handles DELETE /api/admin/blog/posts/{id}.
func (h *Handler) AdminDeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid blog post ID")
		return
	}

	if err := h.queries.DeleteBlogPost(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Blog post not found")
			return
		}
		h.logger.Error("failed to delete blog post", "source", "content", "error", err)
		WriteInternalError(w, "Failed to delete blog post")
		return
	}

	h.audit(r, "content", "blog post deleted")
	WriteSuccessMessage(w, nil, "Blog post deleted")
}
