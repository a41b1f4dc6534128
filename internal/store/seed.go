// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/olegiv/manara-go/internal/auth"
	"github.com/olegiv/manara-go/internal/model"
)

// Default admin credentials used only when seeding is enabled.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "changeme"
	DefaultAdminEmail    = "admin@example.com"
)

// seedPages lists the site pages that get an SEO row out of the box.
var seedPages = []string{"home", "about", "services", "projects", "blog", "contact"}

// Seed creates initial data: the default administrator and an SEO row per
// site page. Safe to run repeatedly.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		return nil
	}

	queries := New(db)

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin, err := queries.CreateAdmin(ctx, CreateAdminParams{
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		Email:        DefaultAdminEmail,
	})
	switch {
	case errors.Is(err, ErrAdminExists):
		slog.Info("admin user already exists, skipping seed")
	case err != nil:
		return fmt.Errorf("creating admin user: %w", err)
	default:
		slog.Info("created default admin user",
			"id", admin.ID,
			"username", admin.Username,
			"password", DefaultAdminPassword,
		)
	}

	for _, page := range seedPages {
		if _, err := queries.GetSEOSettingsAny(ctx, page); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking seo settings for %q: %w", page, err)
		}
		if _, err := queries.UpsertSEOSettings(ctx, SEOParams{
			Page:     page,
			Title:    model.Text{EN: "Manara", AR: "منارة"},
			IsActive: true,
		}); err != nil {
			return fmt.Errorf("seeding seo settings for %q: %w", page, err)
		}
	}

	return nil
}
