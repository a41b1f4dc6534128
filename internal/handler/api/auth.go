// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/olegiv/manara-go/internal/auth"
	"github.com/olegiv/manara-go/internal/middleware"
	"github.com/olegiv/manara-go/internal/store"
)

func getClaims(r *http.Request) *auth.Claims {
	return middleware.GetClaims(r)
}

// invalidCredentials is the single message for every login failure.
// Unknown username and wrong password must be indistinguishable.
const invalidCredentials = "Invalid username or password"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Admin     adminView `json:"admin"`
}

// Login handles POST /api/admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteBadRequest(w, "Username and password are required")
		return
	}

	admin, err := h.queries.GetAdminByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			h.logger.Error("failed to look up admin", "source", "auth", "error", err)
			WriteInternalError(w, "Login failed")
			return
		}
		// Unknown user: still burn a bcrypt comparison so response
		// timing doesn't reveal whether the username exists.
		auth.CheckPassword(req.Password, auth.DummyHash)
		WriteUnauthorized(w, invalidCredentials)
		return
	}

	if !auth.CheckPassword(req.Password, admin.PasswordHash) {
		h.logger.Warn("failed login attempt", "source", "auth", "username", req.Username)
		WriteUnauthorized(w, invalidCredentials)
		return
	}

	token, err := h.tokens.Issue(admin)
	if err != nil {
		h.logger.Error("failed to issue token", "source", "auth", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	if err := h.queries.TouchAdminLastLogin(r.Context(), admin.ID); err != nil {
		h.logger.Warn("failed to record last login", "source", "auth", "error", err)
	}

	WriteSuccessMessage(w, loginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(auth.TokenTTL),
		Admin:     adminView{ID: admin.ID, Username: admin.Username, Email: admin.Email},
	}, "Login successful")
}

type createAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// CreateAdmin handles POST /api/admin/create. The endpoint is gated by
// the X-Setup-Key header; with no setup key configured it is disabled.
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	if h.setupKey == "" {
		WriteNotFound(w, "Not found")
		return
	}
	if r.Header.Get("X-Setup-Key") != h.setupKey {
		WriteUnauthorized(w, "Invalid setup key")
		return
	}

	var req createAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" {
		WriteBadRequest(w, "Username is required")
		return
	}
	if len(req.Password) < 8 {
		WriteBadRequest(w, "Password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("failed to hash password", "source", "auth", "error", err)
		WriteInternalError(w, "Failed to create administrator")
		return
	}

	admin, err := h.queries.CreateAdmin(r.Context(), store.CreateAdminParams{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
	})
	if err != nil {
		if errors.Is(err, store.ErrAdminExists) {
			WriteError(w, http.StatusConflict, "Username already exists")
			return
		}
		h.logger.Error("failed to create admin", "source", "auth", "error", err)
		WriteInternalError(w, "Failed to create administrator")
		return
	}

	h.logger.Info("administrator created", "source", "auth", "username", admin.Username)
	WriteCreated(w, adminView{ID: admin.ID, Username: admin.Username, Email: admin.Email})
}
