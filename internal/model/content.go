// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Text is a bilingual text value. Every user-facing string on the site
// carries both an English and an Arabic rendering.
type Text struct {
	EN string `json:"en"`
	AR string `json:"ar"`
}

// IsEmpty reports whether both renderings are empty.
func (t Text) IsEmpty() bool {
	return t.EN == "" && t.AR == ""
}

// Category kinds. Categories for all collections share one table,
// discriminated by kind; cross-collection references are by slug only.
const (
	CategoryService = "service"
	CategoryProject = "project"
	CategoryLink    = "link"
	CategoryBlog    = "blog"
)

// CategoryKinds lists the valid category kinds.
var CategoryKinds = []string{CategoryService, CategoryProject, CategoryLink, CategoryBlog}

// IsCategoryKind reports whether kind names a known category collection.
func IsCategoryKind(kind string) bool {
	for _, k := range CategoryKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Project is a portfolio entry shown on the projects pages.
type Project struct {
	ID          int64          `json:"id"`
	Slug        string         `json:"slug"`
	Title       Text           `json:"title"`
	Description Text           `json:"description"`
	Body        Text           `json:"body"`
	Category    string         `json:"category"` // project category slug, not a foreign key
	ImageID     sql.NullString `json:"-"`
	IsActive    bool           `json:"is_active"`
	IsFeatured  bool           `json:"is_featured"`
	Position    int64          `json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Service is a service offering shown on the services pages.
type Service struct {
	ID          int64          `json:"id"`
	Slug        string         `json:"slug"`
	Title       Text           `json:"title"`
	Description Text           `json:"description"`
	Body        Text           `json:"body"`
	Category    string         `json:"category"` // service category slug
	ImageID     sql.NullString `json:"-"`
	IsActive    bool           `json:"is_active"`
	IsFeatured  bool           `json:"is_featured"`
	Position    int64          `json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// BlogPost is a blog entry. Bodies are authored as Markdown and rendered
// to sanitized HTML on the public read path.
type BlogPost struct {
	ID          int64          `json:"id"`
	Slug        string         `json:"slug"`
	Title       Text           `json:"title"`
	Excerpt     Text           `json:"excerpt"`
	Body        Text           `json:"body"`
	Category    string         `json:"category"` // blog category slug
	ImageID     sql.NullString `json:"-"`
	IsPublished bool           `json:"is_published"`
	PublishAt   sql.NullTime   `json:"-"`
	Position    int64          `json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Category groups projects, services, links, or blog posts.
type Category struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Slug      string    `json:"slug"`
	Name      Text      `json:"name"`
	Position  int64     `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SEOSettings holds per-page SEO metadata.
type SEOSettings struct {
	ID          int64     `json:"id"`
	Page        string    `json:"page"`
	Title       Text      `json:"title"`
	Description Text      `json:"description"`
	Keywords    Text      `json:"keywords"`
	OGImage     string    `json:"og_image"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InternalLink is a curated cross-link rendered on a given page.
type InternalLink struct {
	ID        int64     `json:"id"`
	Page      string    `json:"page"`
	Label     Text      `json:"label"`
	Href      string    `json:"href"`
	Category  string    `json:"category"` // link category slug
	Position  int64     `json:"position"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditEvent is a persisted log record, written for WARN+ logs and
// admin mutations.
type AuditEvent struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Metadata  string    `json:"metadata,omitempty"` // JSON-encoded attributes
	CreatedAt time.Time `json:"created_at"`
}
