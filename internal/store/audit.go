// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/manara-go/internal/model"
)

// CreateAuditEventParams holds the fields of an audit event.
type CreateAuditEventParams struct {
	Level    string
	Source   string
	Message  string
	Metadata string
}

// CreateAuditEvent appends an audit event.
func (q *Queries) CreateAuditEvent(ctx context.Context, arg CreateAuditEventParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO audit_events (level, source, message, metadata, created_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Level, arg.Source, arg.Message, arg.Metadata, time.Now().UTC())
	return err
}

// ListAuditEvents returns the most recent audit events, newest first.
func (q *Queries) ListAuditEvents(ctx context.Context, limit int64) ([]model.AuditEvent, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, level, source, message, metadata, created_at
		 FROM audit_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.AuditEvent
	for rows.Next() {
		var e model.AuditEvent
		if err := rows.Scan(&e.ID, &e.Level, &e.Source, &e.Message, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
