// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/manara-go/internal/cache"
)

// Health handles GET /health. It checks the database and, when Redis
// is the cache backend, the Redis connection.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("health check failed", "source", "system", "error", err)
		WriteError(w, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	if rc, ok := h.cacheBackend.(*cache.Redis); ok {
		if err := rc.Ping(r.Context()); err != nil {
			h.logger.Error("health check failed", "source", "cache", "error", err)
			WriteError(w, http.StatusServiceUnavailable, "Cache unavailable")
			return
		}
	}

	WriteSuccess(w, map[string]string{"status": "ok"})
}
