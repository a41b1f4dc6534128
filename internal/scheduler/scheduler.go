// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler publishes blog posts whose scheduled time has come.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/manara-go/internal/store"
)

// Scheduler runs the scheduled-publishing job.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the scheduler with a job that checks for due posts every minute.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.PublishDuePosts(context.Background()); err != nil {
			s.logger.Error("failed to process scheduled posts", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// PublishDuePosts publishes every unpublished post whose publish_at has
// passed. Exported so the maintenance CLI can run one pass directly.
func (s *Scheduler) PublishDuePosts(ctx context.Context) error {
	queries := store.New(s.db)
	now := time.Now().UTC()

	posts, err := queries.ListBlogPostsDueForPublishing(ctx, now)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}

	s.logger.Info("processing scheduled posts", "count", len(posts))

	for _, post := range posts {
		if err := queries.PublishBlogPost(ctx, post.ID); err != nil {
			s.logger.Error("failed to publish scheduled post",
				"post_id", post.ID,
				"post_slug", post.Slug,
				"error", err,
			)
			continue
		}
		s.logger.Info("published scheduled post",
			"post_id", post.ID,
			"post_slug", post.Slug,
			"scheduled_at", post.PublishAt.Time,
		)
	}

	return nil
}
