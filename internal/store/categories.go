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

const categoryColumns = "id, kind, slug, name_en, name_ar, position, is_active, created_at, updated_at"

// CategoryParams holds the writable fields of a category.
type CategoryParams struct {
	Kind     string
	Slug     string
	Name     model.Text
	Position int64
	IsActive bool
}

// CreateCategory inserts a category and returns the stored row.
func (q *Queries) CreateCategory(ctx context.Context, arg CategoryParams) (model.Category, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO categories (kind, slug, name_en, name_ar, position, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Kind, arg.Slug, arg.Name.EN, arg.Name.AR, arg.Position, arg.IsActive, now, now,
	)
	if err != nil {
		return model.Category{}, fmt.Errorf("inserting category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Category{}, fmt.Errorf("reading category id: %w", err)
	}
	return q.GetCategoryByID(ctx, id)
}

// UpdateCategory updates a category by id. The kind is immutable.
func (q *Queries) UpdateCategory(ctx context.Context, id int64, arg CategoryParams) (model.Category, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE categories SET slug = ?, name_en = ?, name_ar = ?, position = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.Slug, arg.Name.EN, arg.Name.AR, arg.Position, arg.IsActive, time.Now().UTC(), id,
	)
	if err != nil {
		return model.Category{}, fmt.Errorf("updating category: %w", err)
	}
	return q.GetCategoryByID(ctx, id)
}

// DeleteCategory removes a category by id.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
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

// GetCategoryByID returns a category by id.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	return scanCategory(row)
}

// ListCategories returns every category of a kind (admin read path).
func (q *Queries) ListCategories(ctx context.Context, kind string) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE kind = ? ORDER BY position, id`, kind)
	if err != nil {
		return nil, err
	}
	return collectCategories(rows)
}

// ListActiveCategories returns active categories of a kind (public read path).
func (q *Queries) ListActiveCategories(ctx context.Context, kind string) ([]model.Category, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE kind = ? AND is_active = 1 ORDER BY position, id`, kind)
	if err != nil {
		return nil, err
	}
	return collectCategories(rows)
}

// CountCategorySlug returns how many categories of a kind use the given
// slug, excluding the given id (0 to exclude nothing).
func (q *Queries) CountCategorySlug(ctx context.Context, kind, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE kind = ? AND slug = ? AND id != ?`,
		kind, slug, excludeID).Scan(&n)
	return n, err
}

func scanCategory(row rowScanner) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Kind, &c.Slug, &c.Name.EN, &c.Name.AR, &c.Position,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func collectCategories(rows *sql.Rows) ([]model.Category, error) {
	defer rows.Close()
	var out []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
