// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/manara-go/internal/middleware"
	"github.com/olegiv/manara-go/internal/model"
)

// withKind pins the category kind for handlers that read it from the
// route context.
func withKind(kind string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chi.RouteContext(r.Context()).URLParams.Add("kind", kind)
		next(w, r)
	}
}

// pageParamAsID re-exposes the {page} wildcard as {id} for media
// handlers mounted under the banners subtree.
func pageParamAsID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := chi.RouteContext(r.Context())
		rc.URLParams.Add("id", rc.URLParam("page"))
		next(w, r)
	}
}

// categoryAdminRoutes mounts the admin CRUD for one category kind.
func (h *Handler) categoryAdminRoutes(kind string) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", withKind(kind, h.AdminListCategories))
		r.Post("/", withKind(kind, h.AdminCreateCategory))
		r.Put("/{id}", withKind(kind, h.AdminUpdateCategory))
		r.Delete("/{id}", withKind(kind, h.AdminDeleteCategory))
	}
}

// Routes wires the full API surface onto a router. loginLimiter guards
// the login endpoint against brute force.
func (h *Handler) Routes(loginLimiter *middleware.LoginLimiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		// Public content reads.
		r.Get("/projects", h.ListProjects)
		r.Get("/projects/featured", h.ListFeaturedProjects)
		r.Get("/projects/{slug}", h.GetProject)
		r.Get("/project-categories", h.ListProjectCategories)

		r.Get("/services", h.ListServices)
		r.Get("/services/featured", h.ListFeaturedServices)
		r.Get("/services/{slug}", h.GetService)
		r.Get("/service-categories", h.ListServiceCategories)

		r.Get("/blog/posts", h.ListBlogPosts)
		r.Get("/blog/posts/{slug}", h.GetBlogPost)
		r.Get("/blog/categories", h.ListBlogCategories)

		r.Get("/link-categories", h.ListLinkCategories)
		r.Get("/internal-links/{page}", h.ListInternalLinks)
		r.Get("/seo/{page}", h.GetSEO)
		r.Get("/banners/{page}", h.GetBanners)

		// Media streaming is public; uploads require a token.
		r.Route("/gridfs", func(r chi.Router) {
			r.Get("/images/{id}", h.GetImage)
			r.Get("/files/{id}", h.GetFile)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(h.tokens))
				r.Post("/images", h.UploadImage)
				r.Post("/files", h.UploadFile)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(loginLimiter.Middleware()).Post("/login", h.Login)
			r.Post("/create", h.CreateAdmin)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(h.tokens))

				r.Route("/projects", func(r chi.Router) {
					r.Get("/", h.AdminListProjects)
					r.Post("/", h.AdminCreateProject)
					r.Put("/{id}", h.AdminUpdateProject)
					r.Delete("/{id}", h.AdminDeleteProject)
				})

				r.Route("/services", func(r chi.Router) {
					r.Get("/", h.AdminListServices)
					r.Post("/", h.AdminCreateService)
					r.Put("/{id}", h.AdminUpdateService)
					r.Delete("/{id}", h.AdminDeleteService)
				})

				r.Route("/blog/posts", func(r chi.Router) {
					r.Get("/", h.AdminListBlogPosts)
					r.Post("/", h.AdminCreateBlogPost)
					r.Put("/{id}", h.AdminUpdateBlogPost)
					r.Delete("/{id}", h.AdminDeleteBlogPost)
				})

				r.Route("/blog/categories", h.categoryAdminRoutes(model.CategoryBlog))
				r.Route("/project-categories", h.categoryAdminRoutes(model.CategoryProject))
				r.Route("/service-categories", h.categoryAdminRoutes(model.CategoryService))
				r.Route("/link-categories", h.categoryAdminRoutes(model.CategoryLink))

				r.Route("/internal-links", func(r chi.Router) {
					r.Get("/", h.AdminListInternalLinks)
					r.Post("/", h.AdminCreateInternalLink)
					r.Put("/{id}", h.AdminUpdateInternalLink)
					r.Delete("/{id}", h.AdminDeleteInternalLink)
				})

				r.Route("/seo", func(r chi.Router) {
					r.Get("/", h.AdminListSEO)
					r.Put("/{page}", h.AdminUpsertSEO)
					r.Delete("/{page}", h.AdminDeleteSEO)
				})

				// The wildcard is a page name on GET and a media id on
				// mutations; chi wants one name per segment.
				r.Route("/banners", func(r chi.Router) {
					r.Get("/", h.AdminListAllBanners)
					r.Get("/{page}", h.AdminListBanners)
					r.Patch("/{page}", pageParamAsID(h.AdminUpdateMedia))
					r.Delete("/{page}", pageParamAsID(h.AdminDeleteMedia))
				})

				r.Route("/media", func(r chi.Router) {
					r.Get("/", h.AdminListMedia)
					r.Patch("/{id}", h.AdminUpdateMedia)
					r.Delete("/{id}", h.AdminDeleteMedia)
				})
			})
		})
	})

	return r
}
