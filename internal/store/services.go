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

const serviceColumns = `id, slug, title_en, title_ar, description_en, description_ar,
	body_en, body_ar, category, image_id, is_active, is_featured, position, created_at, updated_at`

// ServiceParams holds the writable fields of a service.
type ServiceParams struct {
	Slug        string
	Title       model.Text
	Description model.Text
	Body        model.Text
	Category    string
	ImageID     sql.NullString
	IsActive    bool
	IsFeatured  bool
	Position    int64
}

// CreateService inserts a service and returns the stored row.
func (q *Queries) CreateService(ctx context.Context, arg ServiceParams) (model.Service, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO services (slug, title_en, title_ar, description_en, description_ar,
			body_en, body_ar, category, image_id, is_active, is_featured, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Slug, arg.Title.EN, arg.Title.AR, arg.Description.EN, arg.Description.AR,
		arg.Body.EN, arg.Body.AR, arg.Category, arg.ImageID, arg.IsActive, arg.IsFeatured,
		arg.Position, now, now,
	)
	if err != nil {
		return model.Service{}, fmt.Errorf("inserting service: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Service{}, fmt.Errorf("reading service id: %w", err)
	}
	return q.GetServiceByID(ctx, id)
}

// UpdateService updates a service by id.
func (q *Queries) UpdateService(ctx context.Context, id int64, arg ServiceParams) (model.Service, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE services SET slug = ?, title_en = ?, title_ar = ?, description_en = ?, description_ar = ?,
			body_en = ?, body_ar = ?, category = ?, image_id = ?, is_active = ?, is_featured = ?,
			position = ?, updated_at = ?
		WHERE id = ?`,
		arg.Slug, arg.Title.EN, arg.Title.AR, arg.Description.EN, arg.Description.AR,
		arg.Body.EN, arg.Body.AR, arg.Category, arg.ImageID, arg.IsActive, arg.IsFeatured,
		arg.Position, time.Now().UTC(), id,
	)
	if err != nil {
		return model.Service{}, fmt.Errorf("updating service: %w", err)
	}
	return q.GetServiceByID(ctx, id)
}

// DeleteService removes a service by id.
func (q *Queries) DeleteService(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
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

// GetServiceByID returns a service by id.
func (q *Queries) GetServiceByID(ctx context.Context, id int64) (model.Service, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	return scanService(row)
}

// GetServiceBySlug returns an active service by slug (public read path).
func (q *Queries) GetServiceBySlug(ctx context.Context, slug string) (model.Service, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE slug = ? AND is_active = 1`, slug)
	return scanService(row)
}

// ListServices returns every service, active or not (admin read path).
func (q *Queries) ListServices(ctx context.Context) ([]model.Service, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM services ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collectServices(rows)
}

// ListActiveServices returns active services only (public read path).
func (q *Queries) ListActiveServices(ctx context.Context) ([]model.Service, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE is_active = 1 ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collectServices(rows)
}

// ListFeaturedServices returns active featured services (public read path).
func (q *Queries) ListFeaturedServices(ctx context.Context) ([]model.Service, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE is_active = 1 AND is_featured = 1 ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collectServices(rows)
}

// CountServiceSlug returns how many services use the given slug, excluding
// the given id (0 to exclude nothing).
func (q *Queries) CountServiceSlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM services WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

func scanService(row rowScanner) (model.Service, error) {
	var s model.Service
	err := row.Scan(&s.ID, &s.Slug, &s.Title.EN, &s.Title.AR, &s.Description.EN, &s.Description.AR,
		&s.Body.EN, &s.Body.AR, &s.Category, &s.ImageID, &s.IsActive, &s.IsFeatured,
		&s.Position, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func collectServices(rows *sql.Rows) ([]model.Service, error) {
	defer rows.Close()
	var out []model.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
