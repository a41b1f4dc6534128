// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blob implements a GridFS-style chunked object store on top of
// the document database: a parent file record per object plus fixed-size
// binary chunks, with typed banner metadata on the file record.
package blob

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/manara-go/internal/model"
)

// ChunkSize is the fixed chunk payload size (the GridFS default).
const ChunkSize = 255 * 1024

// ErrNotFound is returned when no object exists for the given id.
var ErrNotFound = errors.New("blob: object not found")

// Metadata is the typed banner metadata carried on every stored object.
// Non-banner objects (documents, variants) leave the banner fields zero.
type Metadata struct {
	Page            string        `json:"page"`
	Position        sql.NullInt64 `json:"-"`
	Title           model.Text    `json:"title"`
	Description     model.Text    `json:"description"`
	IsActive        sql.NullBool  `json:"-"` // NULL on legacy rows; absent means active
	ShowTitle       bool          `json:"show_title"`
	ShowDescription bool          `json:"show_description"`
	VariantOf       string        `json:"variant_of,omitempty"` // parent object id for generated variants
}

// Active reports the effective active flag: an unset flag counts as active.
func (m Metadata) Active() bool {
	return !m.IsActive.Valid || m.IsActive.Bool
}

// FileRecord describes a stored object.
type FileRecord struct {
	ID          string
	Filename    string
	ContentType string
	Length      int64
	ETag        string // hex SHA-256 of the content
	UploadDate  time.Time
	Width       sql.NullInt64
	Height      sql.NullInt64
	Metadata    Metadata
}

// UploadParams carries everything besides the content for an upload.
type UploadParams struct {
	Filename    string
	ContentType string
	Width       sql.NullInt64
	Height      sql.NullInt64
	Meta        Metadata
}

// MetadataPatch is a field-wise merge for UpdateMetadata; nil fields are
// left untouched.
type MetadataPatch struct {
	Page            *string
	Position        *int64
	TitleEN         *string
	TitleAR         *string
	DescriptionEN   *string
	DescriptionAR   *string
	IsActive        *bool
	ShowTitle       *bool
	ShowDescription *bool
	Filename        *string
}

// ListFilter selects objects for List. Zero values mean "no constraint".
type ListFilter struct {
	Page             string
	FilenameContains string
	ActiveOnly       bool
	IncludeVariants  bool
}

// Store is the chunked object store. It holds only the injected database
// handle; all state lives in the database.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const fileColumns = `id, filename, content_type, length, etag, upload_date, width, height,
	page, position, title_en, title_ar, description_en, description_ar,
	is_active, show_title, show_description, variant_of`

// Upload stores the content in chunks plus a file record and returns the
// new object. The file record and its chunks are written without a
// surrounding transaction; a crash mid-upload can leave a truncated
// object, which Delete cleans up. There is no dedup by content hash:
// identical bytes uploaded twice become two independent objects.
func (s *Store) Upload(ctx context.Context, r io.Reader, p UploadParams) (FileRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	meta := p.Meta
	// New objects always carry an explicit active flag; the absent-means-
	// active reading exists only for rows imported from the legacy store.
	if !meta.IsActive.Valid {
		meta.IsActive = sql.NullBool{Bool: true, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media_files (id, filename, content_type, length, etag, upload_date, width, height,
			page, position, title_en, title_ar, description_en, description_ar,
			is_active, show_title, show_description, variant_of)
		VALUES (?, ?, ?, 0, '', ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, p.Filename, p.ContentType, now, p.Width, p.Height,
		meta.Page, meta.Position, meta.Title.EN, meta.Title.AR,
		meta.Description.EN, meta.Description.AR,
		meta.IsActive, meta.ShowTitle, meta.ShowDescription, meta.VariantOf,
	)
	if err != nil {
		return FileRecord{}, fmt.Errorf("inserting file record: %w", err)
	}

	var (
		total int64
		sum   = sha256.New()
		buf   = make([]byte, ChunkSize)
		n     int64
	)
	for {
		read, rerr := io.ReadFull(r, buf)
		if read > 0 {
			chunk := buf[:read]
			sum.Write(chunk)
			total += int64(read)
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO media_chunks (file_id, n, data) VALUES (?, ?, ?)`,
				id, n, chunk,
			); err != nil {
				// Best-effort cleanup of the partial object.
				_ = s.Delete(ctx, id)
				return FileRecord{}, fmt.Errorf("inserting chunk %d: %w", n, err)
			}
			n++
		}
		if rerr == io.EOF || rerr == io.ErrUnexpectedEOF {
			break
		}
		if rerr != nil {
			_ = s.Delete(ctx, id)
			return FileRecord{}, fmt.Errorf("reading content: %w", rerr)
		}
	}

	etag := hex.EncodeToString(sum.Sum(nil))
	if _, err := s.db.ExecContext(ctx,
		`UPDATE media_files SET length = ?, etag = ? WHERE id = ?`, total, etag, id,
	); err != nil {
		return FileRecord{}, fmt.Errorf("finalizing file record: %w", err)
	}

	return s.Get(ctx, id)
}

// Get returns the file record for an id.
func (s *Store) Get(ctx context.Context, id string) (FileRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM media_files WHERE id = ?`, id)
	rec, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FileRecord{}, ErrNotFound
	}
	return rec, err
}

// Open returns the file record and a reader streaming the object's
// content chunk by chunk. The caller must close the reader.
func (s *Store) Open(ctx context.Context, id string) (io.ReadCloser, FileRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, FileRecord{}, err
	}
	return &chunkReader{ctx: ctx, db: s.db, fileID: id}, rec, nil
}

// Delete removes the file record and then its chunks. The two deletes are
// not transactional: a crash between them leaves orphan chunks, which is
// accepted for this store.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM media_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting file record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM media_chunks WHERE file_id = ?`, id); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// List returns the file records matching the filter, ordered by upload time.
func (s *Store) List(ctx context.Context, f ListFilter) ([]FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM media_files`
	var (
		conds []string
		args  []any
	)
	if !f.IncludeVariants {
		conds = append(conds, `variant_of = ''`)
	}
	if f.Page != "" {
		conds = append(conds, `page = ?`)
		args = append(args, f.Page)
	}
	if f.FilenameContains != "" {
		conds = append(conds, `filename LIKE ?`)
		args = append(args, "%"+f.FilenameContains+"%")
	}
	if f.ActiveOnly {
		conds = append(conds, `(is_active IS NULL OR is_active = 1)`)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY upload_date, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		rec, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateMetadata merges the patch into the object's metadata.
func (s *Store) UpdateMetadata(ctx context.Context, id string, patch MetadataPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if patch.Filename != nil {
		add("filename", *patch.Filename)
	}
	if patch.Page != nil {
		add("page", *patch.Page)
	}
	if patch.Position != nil {
		add("position", *patch.Position)
	}
	if patch.TitleEN != nil {
		add("title_en", *patch.TitleEN)
	}
	if patch.TitleAR != nil {
		add("title_ar", *patch.TitleAR)
	}
	if patch.DescriptionEN != nil {
		add("description_en", *patch.DescriptionEN)
	}
	if patch.DescriptionAR != nil {
		add("description_ar", *patch.DescriptionAR)
	}
	if patch.IsActive != nil {
		add("is_active", *patch.IsActive)
	}
	if patch.ShowTitle != nil {
		add("show_title", *patch.ShowTitle)
	}
	if patch.ShowDescription != nil {
		add("show_description", *patch.ShowDescription)
	}
	if len(sets) == 0 {
		// Empty patch: still report NotFound for unknown ids.
		_, err := s.Get(ctx, id)
		return err
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE media_files SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("updating metadata: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListVariants returns the generated variants of an object.
func (s *Store) ListVariants(ctx context.Context, id string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM media_files WHERE variant_of = ? ORDER BY upload_date, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FileRecord
	for rows.Next() {
		rec, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteWithVariants removes an object and any variants generated from it.
func (s *Store) DeleteWithVariants(ctx context.Context, id string) error {
	variants, err := s.ListVariants(ctx, id)
	if err != nil {
		return err
	}
	for _, v := range variants {
		if err := s.Delete(ctx, v.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return s.Delete(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (FileRecord, error) {
	var r FileRecord
	err := row.Scan(&r.ID, &r.Filename, &r.ContentType, &r.Length, &r.ETag, &r.UploadDate,
		&r.Width, &r.Height,
		&r.Metadata.Page, &r.Metadata.Position,
		&r.Metadata.Title.EN, &r.Metadata.Title.AR,
		&r.Metadata.Description.EN, &r.Metadata.Description.AR,
		&r.Metadata.IsActive, &r.Metadata.ShowTitle, &r.Metadata.ShowDescription,
		&r.Metadata.VariantOf)
	return r, err
}

// chunkReader streams an object's chunks lazily, one query per chunk.
type chunkReader struct {
	ctx    context.Context
	db     *sql.DB
	fileID string
	n      int64
	buf    []byte
	done   bool
}

func (c *chunkReader) Read(p []byte) (int, error) {
	for len(c.buf) == 0 {
		if c.done {
			return 0, io.EOF
		}
		var data []byte
		err := c.db.QueryRowContext(c.ctx,
			`SELECT data FROM media_chunks WHERE file_id = ? AND n = ?`, c.fileID, c.n,
		).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			c.done = true
			return 0, io.EOF
		}
		if err != nil {
			return 0, err
		}
		c.n++
		c.buf = data
	}

	n := copy(p, c.buf)
	c.buf = c.buf[n:]
	return n, nil
}

func (c *chunkReader) Close() error {
	c.done = true
	c.buf = nil
	return nil
}
