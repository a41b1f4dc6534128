// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/manara-go/internal/blob"
	"github.com/olegiv/manara-go/internal/imaging"
	"github.com/olegiv/manara-go/internal/model"
)

// maxUploadSize bounds multipart uploads (32 MiB).
const maxUploadSize = 32 << 20

type mediaView struct {
	ID          string     `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"contentType"`
	Length      int64      `json:"length"`
	URL         string     `json:"url"`
	UploadDate  time.Time  `json:"uploadDate"`
	Width       *int64     `json:"width,omitempty"`
	Height      *int64     `json:"height,omitempty"`
	Page        string     `json:"page,omitempty"`
	Order       *int64     `json:"order,omitempty"`
	Title       model.Text `json:"title"`
	Description model.Text `json:"description"`
	IsActive    bool       `json:"isActive"`
}

func toMediaView(rec blob.FileRecord) mediaView {
	base := "/api/gridfs/files/"
	if rec.ContentType == imaging.MimeTypeJPEG || rec.ContentType == imaging.MimeTypePNG ||
		rec.ContentType == imaging.MimeTypeGIF || rec.ContentType == imaging.MimeTypeWebP {
		base = "/api/gridfs/images/"
	}
	v := mediaView{
		ID:          rec.ID,
		Filename:    rec.Filename,
		ContentType: rec.ContentType,
		Length:      rec.Length,
		URL:         base + rec.ID,
		UploadDate:  rec.UploadDate,
		Page:        rec.Metadata.Page,
		Title:       rec.Metadata.Title,
		Description: rec.Metadata.Description,
		IsActive:    rec.Metadata.Active(),
	}
	if rec.Width.Valid {
		w := rec.Width.Int64
		v.Width = &w
	}
	if rec.Height.Valid {
		h := rec.Height.Int64
		v.Height = &h
	}
	if rec.Metadata.Position.Valid {
		o := rec.Metadata.Position.Int64
		v.Order = &o
	}
	return v
}

// streamObject writes an object with conditional-request support. ETag
// is the content hash, so If-None-Match short-circuits re-downloads.
func (h *Handler) streamObject(w http.ResponseWriter, r *http.Request, disposition string) {
	id := chi.URLParam(r, "id")

	rc, rec, err := h.blobs.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			WriteNotFound(w, "File not found")
			return
		}
		h.logger.Error("failed to open stored object", "source", "media", "id", id, "error", err)
		WriteInternalError(w, "Failed to retrieve file")
		return
	}
	defer rc.Close()

	etag := `"` + rec.ETag + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.mediaMaxAge))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", rec.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(rec.Length, 10))
	if disposition != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, rec.Filename))
	}

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are gone; just log the broken transfer.
		h.logger.Warn("media stream interrupted", "source", "media", "id", id, "error", err)
	}
}

// GetImage handles GET /api/gridfs/images/{id}.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	h.streamObject(w, r, "")
}

// GetFile handles GET /api/gridfs/files/{id}.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	h.streamObject(w, r, "inline")
}

// readUpload extracts the uploaded part from a multipart form. Accepts
// either "file" or "image" as the field name.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form")
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		file, header, err = r.FormFile("image")
	}
	if err != nil {
		WriteBadRequest(w, "Missing file field")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		WriteBadRequest(w, "Failed to read upload")
		return nil, "", false
	}
	if len(data) == 0 {
		WriteBadRequest(w, "Empty upload")
		return nil, "", false
	}
	if len(data) > maxUploadSize {
		WriteBadRequest(w, "Upload too large")
		return nil, "", false
	}
	return data, header.Filename, true
}

// bannerMetadataFromForm reads the optional banner fields of an image
// upload form.
func bannerMetadataFromForm(r *http.Request) blob.Metadata {
	meta := blob.Metadata{
		Page:        r.FormValue("page"),
		Title:       model.Text{EN: r.FormValue("titleEn"), AR: r.FormValue("titleAr")},
		Description: model.Text{EN: r.FormValue("descriptionEn"), AR: r.FormValue("descriptionAr")},
	}
	if v := r.FormValue("isActive"); v != "" {
		meta.IsActive = sql.NullBool{Bool: v == "true" || v == "1", Valid: true}
	}
	meta.ShowTitle = r.FormValue("showTitle") == "true" || r.FormValue("showTitle") == "1"
	meta.ShowDescription = r.FormValue("showDescription") == "true" || r.FormValue("showDescription") == "1"

	if v := r.FormValue("order"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			meta.Position = sql.NullInt64{Int64: n, Valid: true}
		}
	}
	return meta
}

// UploadImage handles POST /api/gridfs/images. The image is normalized
// (EXIF rotation, re-encode), stored with its banner metadata, and a
// thumbnail variant is generated when the source is large enough.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := readUpload(w, r)
	if !ok {
		return
	}

	if mime := h.processor.DetectMimeType(data); !h.processor.IsImage(mime) {
		WriteBadRequest(w, "Unsupported image type: "+mime)
		return
	}

	processed, err := h.processor.Process(data)
	if err != nil {
		WriteBadRequest(w, "Failed to process image")
		return
	}

	meta := bannerMetadataFromForm(r)
	rec, err := h.blobs.Upload(r.Context(), bytes.NewReader(processed.Data), blob.UploadParams{
		Filename:    filename,
		ContentType: processed.MimeType,
		Width:       sql.NullInt64{Int64: int64(processed.Width), Valid: true},
		Height:      sql.NullInt64{Int64: int64(processed.Height), Valid: true},
		Meta:        meta,
	})
	if err != nil {
		h.logger.Error("failed to store image", "source", "media", "error", err)
		WriteInternalError(w, "Failed to store image")
		return
	}

	// Thumbnail failures are logged, not surfaced; the original upload
	// already succeeded.
	if thumb, err := h.processor.Thumbnail(processed.Data, imaging.ThumbnailConfig); err != nil {
		h.logger.Warn("failed to generate thumbnail", "source", "media", "id", rec.ID, "error", err)
	} else if thumb != nil {
		_, err := h.blobs.Upload(r.Context(), bytes.NewReader(thumb.Data), blob.UploadParams{
			Filename:    imaging.ThumbnailFilename(filename),
			ContentType: thumb.MimeType,
			Width:       sql.NullInt64{Int64: int64(thumb.Width), Valid: true},
			Height:      sql.NullInt64{Int64: int64(thumb.Height), Valid: true},
			Meta:        blob.Metadata{VariantOf: rec.ID},
		})
		if err != nil {
			h.logger.Warn("failed to store thumbnail", "source", "media", "id", rec.ID, "error", err)
		}
	}

	if meta.Page != "" {
		h.invalidateBanners(r)
	}
	h.audit(r, "media", "image uploaded: "+filename)
	WriteCreated(w, toMediaView(rec))
}

// UploadFile handles POST /api/gridfs/files. Only PDF documents are
// accepted on this endpoint.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := readUpload(w, r)
	if !ok {
		return
	}

	if mime := h.processor.DetectMimeType(data); mime != "application/pdf" {
		WriteBadRequest(w, "Only PDF files are accepted")
		return
	}

	rec, err := h.blobs.Upload(r.Context(), bytes.NewReader(data), blob.UploadParams{
		Filename:    filename,
		ContentType: "application/pdf",
	})
	if err != nil {
		h.logger.Error("failed to store file", "source", "media", "error", err)
		WriteInternalError(w, "Failed to store file")
		return
	}

	h.audit(r, "media", "file uploaded: "+filename)
	WriteCreated(w, toMediaView(rec))
}

// AdminListMedia handles GET /api/admin/media with optional page and
// filename filters.
func (h *Handler) AdminListMedia(w http.ResponseWriter, r *http.Request) {
	records, err := h.blobs.List(r.Context(), blob.ListFilter{
		Page:             r.URL.Query().Get("page"),
		FilenameContains: r.URL.Query().Get("filename"),
	})
	if err != nil {
		h.logger.Error("failed to list media", "source", "media", "error", err)
		WriteInternalError(w, "Failed to list media")
		return
	}
	views := make([]mediaView, 0, len(records))
	for _, rec := range records {
		views = append(views, toMediaView(rec))
	}
	WriteSuccess(w, views)
}

type mediaPatchInput struct {
	Filename        *string `json:"filename"`
	Page            *string `json:"page"`
	Order           *int64  `json:"order"`
	TitleEN         *string `json:"titleEn"`
	TitleAR         *string `json:"titleAr"`
	DescriptionEN   *string `json:"descriptionEn"`
	DescriptionAR   *string `json:"descriptionAr"`
	IsActive        *bool   `json:"isActive"`
	ShowTitle       *bool   `json:"showTitle"`
	ShowDescription *bool   `json:"showDescription"`
}

// AdminUpdateMedia handles PATCH /api/admin/media/{id}. Only the fields
// present in the body change.
func (h *Handler) AdminUpdateMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var in mediaPatchInput
	if !decodeJSON(w, r, &in) {
		return
	}

	err := h.blobs.UpdateMetadata(r.Context(), id, blob.MetadataPatch{
		Filename:        in.Filename,
		Page:            in.Page,
		Position:        in.Order,
		TitleEN:         in.TitleEN,
		TitleAR:         in.TitleAR,
		DescriptionEN:   in.DescriptionEN,
		DescriptionAR:   in.DescriptionAR,
		IsActive:        in.IsActive,
		ShowTitle:       in.ShowTitle,
		ShowDescription: in.ShowDescription,
	})
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			WriteNotFound(w, "File not found")
			return
		}
		h.logger.Error("failed to update media metadata", "source", "media", "id", id, "error", err)
		WriteInternalError(w, "Failed to update media")
		return
	}

	rec, err := h.blobs.Get(r.Context(), id)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve media")
		return
	}

	h.invalidateBanners(r)
	h.audit(r, "media", "media metadata updated: "+id)
	WriteSuccessMessage(w, toMediaView(rec), "Media updated")
}

// AdminDeleteMedia handles DELETE /api/admin/media/{id}. Variants go
// with the original.
func (h *Handler) AdminDeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.blobs.DeleteWithVariants(r.Context(), id); err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			WriteNotFound(w, "File not found")
			return
		}
		h.logger.Error("failed to delete media", "source", "media", "id", id, "error", err)
		WriteInternalError(w, "Failed to delete media")
		return
	}

	h.invalidateBanners(r)
	h.audit(r, "media", "media deleted: "+id)
	WriteSuccessMessage(w, nil, "Media deleted")
}
