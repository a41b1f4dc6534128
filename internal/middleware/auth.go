// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication and
// request throttling.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/olegiv/manara-go/internal/auth"
)

// ContextKey is the type for request context keys set by this package.
type ContextKey string

// ContextKeyClaims is the context key for verified token claims.
const ContextKeyClaims ContextKey = "claims"

// apiError is the JSON envelope for errors written by middleware. It
// matches the shape the API handlers produce.
type apiError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// writeUnauthorized writes the single 401 body the gate produces. The
// message never varies, so a client cannot tell a missing header from a
// malformed one or an expired token.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(apiError{Success: false, Error: "Unauthorized"})
}

// RequireAuth creates middleware that validates the bearer token and
// puts the verified claims into the request context. Requests without a
// valid token get 401 and never reach the handler.
func RequireAuth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				writeUnauthorized(w)
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims retrieves the verified claims from the request context.
// Returns nil outside RequireAuth-protected routes.
func GetClaims(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(ContextKeyClaims).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
