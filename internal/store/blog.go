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

const blogPostColumns = `id, slug, title_en, title_ar, excerpt_en, excerpt_ar,
	body_en, body_ar, category, image_id, is_published, publish_at, position, created_at, updated_at`

// BlogPostParams holds the writable fields of a blog post.
type BlogPostParams struct {
	Slug        string
	Title       model.Text
	Excerpt     model.Text
	Body        model.Text
	Category    string
	ImageID     sql.NullString
	IsPublished bool
	PublishAt   sql.NullTime
	Position    int64
}

// CreateBlogPost inserts a blog post and returns the stored row.
func (q *Queries) CreateBlogPost(ctx context.Context, arg BlogPostParams) (model.BlogPost, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO blog_posts (slug, title_en, title_ar, excerpt_en, excerpt_ar,
			body_en, body_ar, category, image_id, is_published, publish_at, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Slug, arg.Title.EN, arg.Title.AR, arg.Excerpt.EN, arg.Excerpt.AR,
		arg.Body.EN, arg.Body.AR, arg.Category, arg.ImageID, arg.IsPublished, arg.PublishAt,
		arg.Position, now, now,
	)
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("inserting blog post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("reading blog post id: %w", err)
	}
	return q.GetBlogPostByID(ctx, id)
}

// UpdateBlogPost updates a blog post by id.
func (q *Queries) UpdateBlogPost(ctx context.Context, id int64, arg BlogPostParams) (model.BlogPost, error) {
	_, err := q.db.ExecContext(ctx, `
		UPDATE blog_posts SET slug = ?, title_en = ?, title_ar = ?, excerpt_en = ?, excerpt_ar = ?,
			body_en = ?, body_ar = ?, category = ?, image_id = ?, is_published = ?, publish_at = ?,
			position = ?, updated_at = ?
		WHERE id = ?`,
		arg.Slug, arg.Title.EN, arg.Title.AR, arg.Excerpt.EN, arg.Excerpt.AR,
		arg.Body.EN, arg.Body.AR, arg.Category, arg.ImageID, arg.IsPublished, arg.PublishAt,
		arg.Position, time.Now().UTC(), id,
	)
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("updating blog post: %w", err)
	}
	return q.GetBlogPostByID(ctx, id)
}

// DeleteBlogPost removes a blog post by id.
func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
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

// GetBlogPostByID returns a blog post by id.
func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+blogPostColumns+` FROM blog_posts WHERE id = ?`, id)
	return scanBlogPost(row)
}

// GetPublishedBlogPostBySlug returns a published blog post by slug (public read path).
func (q *Queries) GetPublishedBlogPostBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+blogPostColumns+` FROM blog_posts WHERE slug = ? AND is_published = 1`, slug)
	return scanBlogPost(row)
}

// ListBlogPosts returns every blog post (admin read path).
func (q *Queries) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+blogPostColumns+` FROM blog_posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collectBlogPosts(rows)
}

// ListPublishedBlogPosts returns published posts, newest first (public read path).
func (q *Queries) ListPublishedBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+blogPostColumns+` FROM blog_posts WHERE is_published = 1 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return collectBlogPosts(rows)
}

// ListBlogPostsDueForPublishing returns unpublished posts whose publish_at
// is at or before the given time. Consumed by the scheduler.
func (q *Queries) ListBlogPostsDueForPublishing(ctx context.Context, at time.Time) ([]model.BlogPost, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+blogPostColumns+` FROM blog_posts
		 WHERE is_published = 0 AND publish_at IS NOT NULL AND publish_at <= ?`, at)
	if err != nil {
		return nil, err
	}
	return collectBlogPosts(rows)
}

// PublishBlogPost marks a post published and clears its schedule.
func (q *Queries) PublishBlogPost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE blog_posts SET is_published = 1, publish_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	return err
}

// CountBlogPostSlug returns how many posts use the given slug, excluding
// the given id (0 to exclude nothing).
func (q *Queries) CountBlogPostSlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

func scanBlogPost(row rowScanner) (model.BlogPost, error) {
	var p model.BlogPost
	err := row.Scan(&p.ID, &p.Slug, &p.Title.EN, &p.Title.AR, &p.Excerpt.EN, &p.Excerpt.AR,
		&p.Body.EN, &p.Body.AR, &p.Category, &p.ImageID, &p.IsPublished, &p.PublishAt,
		&p.Position, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func collectBlogPosts(rows *sql.Rows) ([]model.BlogPost, error) {
	defer rows.Close()
	var out []model.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
