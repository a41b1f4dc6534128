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

const linkColumns = "id, page, label_en, label_ar, href, category, position, is_active, created_at, updated_at"

// InternalLinkParams holds the writable fields of an internal link.
type InternalLinkParams struct {
	Page     string
	Label    model.Text
	Href     string
	Category string
	Position int64
	IsActive bool
}

// CreateInternalLink inserts an internal link and returns the stored row.
func (q *Queries) CreateInternalLink(ctx context.Context, arg InternalLinkParams) (model.InternalLink, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO internal_links (page, label_en, label_ar, href, category, position, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Page, arg.Label.EN, arg.Label.AR, arg.Href, arg.Category, arg.Position, arg.IsActive, now, now,
	)
	if err != nil {
		return model.InternalLink{}, fmt.Errorf("inserting internal link: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.InternalLink{}, fmt.Errorf("reading internal link id: %w", err)
	}
	return q.GetInternalLinkByID(ctx, id)
}

// UpdateInternalLink updates an internal link by id.
func (q *Queries) UpdateInternalLink(ctx context.Context, id int64, arg InternalLinkParams) (model.InternalLink, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE internal_links SET page = ?, label_en = ?, label_ar = ?, href = ?, category = ?,
			position = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.Page, arg.Label.EN, arg.Label.AR, arg.Href, arg.Category,
		arg.Position, arg.IsActive, time.Now().UTC(), id,
	)
	if err != nil {
		return model.InternalLink{}, fmt.Errorf("updating internal link: %w", err)
	}
	return q.GetInternalLinkByID(ctx, id)
}

// DeleteInternalLink removes an internal link by id.
func (q *Queries) DeleteInternalLink(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM internal_links WHERE id = ?`, id)
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

// GetInternalLinkByID returns an internal link by id.
func (q *Queries) GetInternalLinkByID(ctx context.Context, id int64) (model.InternalLink, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM internal_links WHERE id = ?`, id)
	return scanLink(row)
}

// ListInternalLinks returns every internal link (admin read path).
func (q *Queries) ListInternalLinks(ctx context.Context) ([]model.InternalLink, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM internal_links ORDER BY page, position, id`)
	if err != nil {
		return nil, err
	}
	return collectLinks(rows)
}

// ListActiveInternalLinksForPage returns active links of a page ordered for
// display (public read path).
func (q *Queries) ListActiveInternalLinksForPage(ctx context.Context, page string) ([]model.InternalLink, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM internal_links WHERE page = ? AND is_active = 1 ORDER BY position, id`, page)
	if err != nil {
		return nil, err
	}
	return collectLinks(rows)
}

func scanLink(row rowScanner) (model.InternalLink, error) {
	var l model.InternalLink
	err := row.Scan(&l.ID, &l.Page, &l.Label.EN, &l.Label.AR, &l.Href, &l.Category,
		&l.Position, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func collectLinks(rows *sql.Rows) ([]model.InternalLink, error) {
	defer rows.Close()
	var out []model.InternalLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
