// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models shared across the application:
// administrator accounts, bilingual content documents, and audit events.
package model

import (
	"database/sql"
	"time"
)

// AdminUser represents an administrator account. The site has a single
// admin role; there are no finer-grained permissions.
type AdminUser struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Email        string       `json:"email"`
	CreatedAt    time.Time    `json:"created_at"`
	LastLogin    sql.NullTime `json:"-"`
}

// LastLoginPtr returns the last login time or nil when the admin has
// never logged in.
func (a *AdminUser) LastLoginPtr() *time.Time {
	if !a.LastLogin.Valid {
		return nil
	}
	t := a.LastLogin.Time
	return &t
}
