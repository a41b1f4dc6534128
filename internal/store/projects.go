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

const projectColumns = `id, slug, title_en, title_ar, description_en, description_ar,
	body_en, body_ar, category, image_id, is_active, is_featured, position, created_at, updated_at`

// ProjectParams holds the writable fields of a project.
type ProjectParams struct {
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

// CreateProject inserts a project and returns the stored row.
func (q *Queries) CreateProject(ctx context.Context, arg ProjectParams) (model.Project, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO projects (slug, title_en, title_ar, description_en, description_ar,
			body_en, body_ar, category, image_id, is_active, is_featured, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Slug, arg.Title.EN, arg.Title.AR, arg.Description.EN, arg.Description.AR,
		arg.Body.EN, arg.Body.AR, arg.Category, arg.ImageID, arg.IsActive, arg.IsFeatured,
		arg.Position, now, now,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Project{}, fmt.Errorf("reading project id: %w", err)
	}
	return q.GetProjectByID(ctx, id)
}

// UpdateProject updates a project by id. Last write wins; there is no
// optimistic concurrency token.
func (q *Queries) UpdateProject(ctx context.Context, id int64, arg ProjectParams) (model.Project, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE projects SET slug = ?, title_en = ?, title_ar = ?, description_en = ?, description_ar = ?,
			body_en = ?, body_ar = ?, category = ?, image_id = ?, is_active = ?, is_featured = ?,
			position = ?, updated_at = ?
		WHERE id = ?`,
		arg.Slug, arg.Title.EN, arg.Title.AR, arg.Description.EN, arg.Description.AR,
		arg.Body.EN, arg.Body.AR, arg.Category, arg.ImageID, arg.IsActive, arg.IsFeatured,
		arg.Position, time.Now().UTC(), id,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("updating project: %w", err)
	}
	return q.GetProjectByID(ctx, id)
}

// DeleteProject removes a project by id.
func (q *Queries) DeleteProject(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
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

// GetProjectByID returns a project by id.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

// GetProjectBySlug returns an active project by slug (public read path).
func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (model.Project, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = ? AND is_active = 1`, slug)
	return scanProject(row)
}

// ListProjects returns every project, active or not (admin read path).
func (q *Queries) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// ListActiveProjects returns active projects only (public read path).
func (q *Queries) ListActiveProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE is_active = 1 ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// ListFeaturedProjects returns active featured projects (public read path).
func (q *Queries) ListFeaturedProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE is_active = 1 AND is_featured = 1 ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return collectProjects(rows)
}

// CountProjectSlug returns how many projects use the given slug, excluding
// the given id (0 to exclude nothing). Used for slug uniqueness checks.
func (q *Queries) CountProjectSlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

func scanProject(row rowScanner) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Slug, &p.Title.EN, &p.Title.AR, &p.Description.EN, &p.Description.AR,
		&p.Body.EN, &p.Body.AR, &p.Category, &p.ImageID, &p.IsActive, &p.IsFeatured,
		&p.Position, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectProjects(rows *sql.Rows) ([]model.Project, error) {
	defer rows.Close()
	var out []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
