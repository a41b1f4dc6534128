// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package banner resolves which banner images a page shows and in what
// order. Ordering and visibility are computed here, not in the store:
// position ascending, upload time as the tie-break, and an unset active
// flag counting as active. Duplicate positions are preserved as-is.
package banner

import (
	"context"
	"sort"

	"github.com/olegiv/manara-go/internal/blob"
	"github.com/olegiv/manara-go/internal/model"
)

// View is the public representation of a resolved banner.
type View struct {
	ID              string     `json:"id"`
	Filename        string     `json:"filename"`
	URL             string     `json:"url"`
	Title           model.Text `json:"title"`
	Description     model.Text `json:"description"`
	Order           int64      `json:"order"`
	IsActive        bool       `json:"isActive"`
	ShowTitle       bool       `json:"showTitle"`
	ShowDescription bool       `json:"showDescription"`
}

// Lister is the slice of the object store banners need.
type Lister interface {
	List(ctx context.Context, f blob.ListFilter) ([]blob.FileRecord, error)
}

// Service resolves banners for pages.
type Service struct {
	store Lister
}

// NewService creates a banner Service over the given object store.
func NewService(store Lister) *Service {
	return &Service{store: store}
}

// ResolveForPage returns the active banners for a page, ordered by
// position ascending with upload time breaking ties. An unset position
// sorts as zero. Banners sharing a position are all returned.
func (s *Service) ResolveForPage(ctx context.Context, page string) ([]View, error) {
	records, err := s.store.List(ctx, blob.ListFilter{Page: page, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	sortRecords(records)

	views := make([]View, 0, len(records))
	for _, rec := range records {
		views = append(views, toView(rec))
	}
	return views, nil
}

// ListForPage returns all banners for a page regardless of active state,
// in resolution order. Used by the admin surface.
func (s *Service) ListForPage(ctx context.Context, page string) ([]View, error) {
	records, err := s.store.List(ctx, blob.ListFilter{Page: page})
	if err != nil {
		return nil, err
	}
	sortRecords(records)

	views := make([]View, 0, len(records))
	for _, rec := range records {
		views = append(views, toView(rec))
	}
	return views, nil
}

func sortRecords(records []blob.FileRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := position(records[i]), position(records[j])
		if pi != pj {
			return pi < pj
		}
		return records[i].UploadDate.Before(records[j].UploadDate)
	})
}

func position(rec blob.FileRecord) int64 {
	if rec.Metadata.Position.Valid {
		return rec.Metadata.Position.Int64
	}
	return 0
}

func toView(rec blob.FileRecord) View {
	return View{
		ID:              rec.ID,
		Filename:        rec.Filename,
		URL:             "/api/gridfs/images/" + rec.ID,
		Title:           rec.Metadata.Title,
		Description:     rec.Metadata.Description,
		Order:           position(rec),
		IsActive:        rec.Metadata.Active(),
		ShowTitle:       rec.Metadata.ShowTitle,
		ShowDescription: rec.Metadata.ShowDescription,
	}
}
