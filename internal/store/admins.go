// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/manara-go/internal/model"
)

const adminColumns = "id, username, password_hash, email, created_at, last_login"

// CreateAdminParams holds the fields for creating an administrator.
type CreateAdminParams struct {
	Username     string
	PasswordHash string
	Email        string
}

// CreateAdmin inserts an administrator. Username uniqueness is enforced by
// the UNIQUE index in a single conditional insert; a losing concurrent
// create gets ErrAdminExists rather than a constraint violation.
func (q *Queries) CreateAdmin(ctx context.Context, arg CreateAdminParams) (model.AdminUser, error) {
	now := time.Now().UTC()
	res, err := q.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admins (username, password_hash, email, created_at) VALUES (?, ?, ?, ?)`,
		arg.Username, arg.PasswordHash, arg.Email, now,
	)
	if err != nil {
		return model.AdminUser{}, fmt.Errorf("inserting admin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.AdminUser{}, fmt.Errorf("checking insert result: %w", err)
	}
	if affected == 0 {
		return model.AdminUser{}, ErrAdminExists
	}
	return q.GetAdminByUsername(ctx, arg.Username)
}

// GetAdminByUsername returns the administrator with the given username.
func (q *Queries) GetAdminByUsername(ctx context.Context, username string) (model.AdminUser, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE username = ?`, username)
	return scanAdmin(row)
}

// GetAdminByID returns the administrator with the given id.
func (q *Queries) GetAdminByID(ctx context.Context, id int64) (model.AdminUser, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admins WHERE id = ?`, id)
	return scanAdmin(row)
}

// TouchAdminLastLogin sets last_login to now. Best-effort: callers ignore
// the error, a failed touch never blocks a login.
func (q *Queries) TouchAdminLastLogin(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE admins SET last_login = ? WHERE id = ?`, time.Now().UTC(), id)
	return err
}

// CountAdmins returns the number of administrator accounts.
func (q *Queries) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdmin(row rowScanner) (model.AdminUser, error) {
	var a model.AdminUser
	err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Email, &a.CreatedAt, &a.LastLogin)
	return a, err
}
