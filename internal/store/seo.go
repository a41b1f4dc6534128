// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/manara-go/internal/model"
)

const seoColumns = `id, page, title_en, title_ar, description_en, description_ar,
	keywords_en, keywords_ar, og_image, is_active, created_at, updated_at`

// SEOParams holds the writable fields of a page's SEO settings.
type SEOParams struct {
	Page        string
	Title       model.Text
	Description model.Text
	Keywords    model.Text
	OGImage     string
	IsActive    bool
}

// UpsertSEOSettings creates or replaces the SEO settings of a page in a
// single conditional write keyed on the page's UNIQUE index.
func (q *Queries) UpsertSEOSettings(ctx context.Context, arg SEOParams) (model.SEOSettings, error) {
	now := time.Now().UTC()
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO seo_settings (page, title_en, title_ar, description_en, description_ar,
			keywords_en, keywords_ar, og_image, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(page) DO UPDATE SET
			title_en = excluded.title_en, title_ar = excluded.title_ar,
			description_en = excluded.description_en, description_ar = excluded.description_ar,
			keywords_en = excluded.keywords_en, keywords_ar = excluded.keywords_ar,
			og_image = excluded.og_image, is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		arg.Page, arg.Title.EN, arg.Title.AR, arg.Description.EN, arg.Description.AR,
		arg.Keywords.EN, arg.Keywords.AR, arg.OGImage, arg.IsActive, now, now,
	)
	if err != nil {
		return model.SEOSettings{}, fmt.Errorf("upserting seo settings: %w", err)
	}
	return q.GetSEOSettingsAny(ctx, arg.Page)
}

// GetSEOSettings returns the active SEO settings of a page (public read path).
func (q *Queries) GetSEOSettings(ctx context.Context, page string) (model.SEOSettings, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+seoColumns+` FROM seo_settings WHERE page = ? AND is_active = 1`, page)
	return scanSEO(row)
}

// GetSEOSettingsAny returns the SEO settings of a page regardless of the
// active flag (admin read path).
func (q *Queries) GetSEOSettingsAny(ctx context.Context, page string) (model.SEOSettings, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+seoColumns+` FROM seo_settings WHERE page = ?`, page)
	return scanSEO(row)
}

// ListSEOSettings returns all SEO rows (admin read path).
func (q *Queries) ListSEOSettings(ctx context.Context) ([]model.SEOSettings, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+seoColumns+` FROM seo_settings ORDER BY page`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.SEOSettings
	for rows.Next() {
		s, err := scanSEO(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteSEOSettings removes a page's SEO row.
func (q *Queries) DeleteSEOSettings(ctx context.Context, page string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM seo_settings WHERE page = ?`, page)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanSEO(row rowScanner) (model.SEOSettings, error) {
	var s model.SEOSettings
	err := row.Scan(&s.ID, &s.Page, &s.Title.EN, &s.Title.AR, &s.Description.EN, &s.Description.AR,
		&s.Keywords.EN, &s.Keywords.AR, &s.OGImage, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
