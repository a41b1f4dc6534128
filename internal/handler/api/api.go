// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST handlers for the public site and the
// admin surface. Every response is wrapped in the same JSON envelope.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/manara-go/internal/auth"
	"github.com/olegiv/manara-go/internal/banner"
	"github.com/olegiv/manara-go/internal/blob"
	"github.com/olegiv/manara-go/internal/cache"
	"github.com/olegiv/manara-go/internal/config"
	"github.com/olegiv/manara-go/internal/imaging"
	"github.com/olegiv/manara-go/internal/model"
	"github.com/olegiv/manara-go/internal/store"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	queries   *store.Queries
	blobs     *blob.Store
	banners   *banner.Service
	processor *imaging.Processor
	tokens    *auth.TokenService
	logger    *slog.Logger

	cacheBackend cache.Cacher
	bannerCache  *cache.Typed[[]banner.View]
	seoCache     *cache.Typed[model.SEOSettings]

	setupKey    string
	mediaMaxAge int
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, cfg *config.Config, backend cache.Cacher, logger *slog.Logger) *Handler {
	blobs := blob.NewStore(db)
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	return &Handler{
		db:           db,
		queries:      store.New(db),
		blobs:        blobs,
		banners:      banner.NewService(blobs),
		processor:    imaging.NewProcessor(),
		tokens:       auth.NewTokenService(cfg.JWTSecret),
		logger:       logger,
		cacheBackend: backend,
		bannerCache:  cache.NewTyped[[]banner.View](backend, ttl),
		seoCache:     cache.NewTyped[model.SEOSettings](backend, ttl),
		setupKey:     cfg.SetupKey,
		mediaMaxAge:  cfg.MediaCacheMaxAge,
	}
}

// TokenService exposes the token service for route wiring.
func (h *Handler) TokenService() *auth.TokenService {
	return h.tokens
}

// Response is the JSON envelope every endpoint uses. Success reports
// whether the operation worked; exactly one of Data and Error is set,
// Message carries optional human-readable detail.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 envelope with data.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// WriteSuccessMessage writes a 200 envelope with data and a message.
func WriteSuccessMessage(w http.ResponseWriter, data any, message string) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Data: data, Message: message})
}

// WriteCreated writes a 201 envelope.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Success: true, Data: data})
}

// WriteError writes an error envelope with the given status.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Response{Success: false, Error: message})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteInternalError writes a 500 Internal Server Error response. The
// message stays generic; details go to the log, not the client.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// decodeJSON decodes a request body, writing a 400 on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return false
	}
	return true
}

// parseIDParam parses the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// EntityFetcher fetches an entity by ID.
type EntityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses an ID from the URL and fetches the entity.
// On failure the error response is already written and ok is false.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID")
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Not found")
		} else {
			WriteInternalError(w, "Failed to retrieve "+entityName)
		}
		return zero, false
	}

	return entity, true
}

// SlugExistsChecker reports how many rows already use a slug.
type SlugExistsChecker func() (int64, error)

// checkSlugUnique verifies slug uniqueness within a collection. Returns
// false with the response written when the slug is taken.
func checkSlugUnique(w http.ResponseWriter, slugExists SlugExistsChecker) bool {
	count, err := slugExists()
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return false
	}
	if count != 0 {
		WriteBadRequest(w, "Slug already exists")
		return false
	}
	return true
}

// audit records an admin mutation in the audit log. Best effort.
func (h *Handler) audit(r *http.Request, source, message string) {
	username := ""
	if claims := getClaims(r); claims != nil {
		username = claims.Username
	}
	meta := "{}"
	if username != "" {
		meta = `{"username":"` + username + `"}`
	}
	_ = h.queries.CreateAuditEvent(r.Context(), store.CreateAuditEventParams{
		Level:    "info",
		Source:   source,
		Message:  message,
		Metadata: meta,
	})
}

// invalidateBanners drops all cached banner resolutions. Mutations are
// rare enough that page-precise invalidation isn't worth the risk of a
// stale page after a metadata move.
func (h *Handler) invalidateBanners(r *http.Request) {
	if err := h.cacheBackend.DeleteByPrefix(r.Context(), "banners:"); err != nil {
		h.logger.Warn("failed to invalidate banner cache", "source", "cache", "error", err)
	}
}

func (h *Handler) invalidateSEO(r *http.Request, page string) {
	if err := h.seoCache.Delete(r.Context(), "seo:"+page); err != nil {
		h.logger.Warn("failed to invalidate seo cache", "source", "cache", "error", err)
	}
}
