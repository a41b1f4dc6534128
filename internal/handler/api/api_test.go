// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/manara-go/internal/auth"
	"github.com/olegiv/manara-go/internal/banner"
	"github.com/olegiv/manara-go/internal/cache"
	"github.com/olegiv/manara-go/internal/config"
	"github.com/olegiv/manara-go/internal/middleware"
	"github.com/olegiv/manara-go/internal/model"
	"github.com/olegiv/manara-go/internal/store"
	"github.com/olegiv/manara-go/internal/testutil"
)

const (
	testSetupKey = "setup-key-for-tests"
	testPassword = "correct-horse-battery"
)

type testServer struct {
	handler *Handler
	router  http.Handler
	queries *store.Queries
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	backend, err := cache.New(cache.Config{DefaultTTL: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })

	cfg := &config.Config{
		JWTSecret:        "Test-Secret-0123456789-0123456789!",
		SetupKey:         testSetupKey,
		CacheTTL:         300,
		MediaCacheMaxAge: 3600,
	}
	h := NewHandler(db, cfg, backend, testutil.TestLogger())

	return &testServer{
		handler: h,
		router:  h.Routes(middleware.NewLoginLimiter(1000, 1000)),
		queries: store.New(db),
	}
}

func (ts *testServer) createAdmin(t *testing.T, username string) {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	_, err = ts.queries.CreateAdmin(context.Background(), store.CreateAdminParams{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@example.com",
	})
	require.NoError(t, err)
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// dataAs re-marshals the envelope data into a typed value.
func dataAs(t *testing.T, resp Response, dst any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, dst))
}

func (ts *testServer) login(t *testing.T, username string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", loginRequest{
		Username: username,
		Password: testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out loginResponse
	dataAs(t, decodeEnvelope(t, rec), &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
}

func TestLoginSuccess(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")

	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", loginRequest{
		Username: "amira",
		Password: testPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "Login successful", resp.Message)

	var out loginResponse
	dataAs(t, resp, &out)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "amira", out.Admin.Username)
	assert.WithinDuration(t, time.Now().Add(auth.TokenTTL), out.ExpiresAt, time.Minute)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")

	wrongPassword := ts.do(t, http.MethodPost, "/api/admin/login", "", loginRequest{
		Username: "amira", Password: "not-the-password",
	})
	unknownUser := ts.do(t, http.MethodPost, "/api/admin/login", "", loginRequest{
		Username: "nobody", Password: testPassword,
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)

	// Same body either way: the response must not reveal whether the
	// username exists.
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())

	resp := decodeEnvelope(t, wrongPassword)
	assert.False(t, resp.Success)
	assert.Equal(t, invalidCredentials, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestLoginMissingFields(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/admin/login", "", loginRequest{Username: "amira"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAdminSetupKey(t *testing.T) {
	ts := newTestServer(t)

	body := createAdminRequest{Username: "amira", Password: testPassword}

	// Wrong key.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/create", jsonBody(t, body))
	req.Header.Set("X-Setup-Key", "wrong")
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Correct key.
	req = httptest.NewRequest(http.MethodPost, "/api/admin/create", jsonBody(t, body))
	req.Header.Set("X-Setup-Key", testSetupKey)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Duplicate username.
	req = httptest.NewRequest(http.MethodPost, "/api/admin/create", jsonBody(t, body))
	req.Header.Set("X-Setup-Key", testSetupKey)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateAdminDisabledWithoutKey(t *testing.T) {
	ts := newTestServer(t)
	ts.handler.setupKey = ""

	req := httptest.NewRequest(http.MethodPost, "/api/admin/create",
		jsonBody(t, createAdminRequest{Username: "amira", Password: testPassword}))
	req.Header.Set("X-Setup-Key", testSetupKey)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}

func TestAdminRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/admin/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Unauthorized", resp.Error)
}

func TestProjectLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	inactive := false
	create := func(in contentInput) contentView {
		rec := ts.do(t, http.MethodPost, "/api/admin/projects", token, in)
		require.Equal(t, http.StatusCreated, rec.Code)
		var v contentView
		dataAs(t, decodeEnvelope(t, rec), &v)
		return v
	}

	visible := create(contentInput{
		Title:       model.Text{EN: "Desert Tower", AR: "برج الصحراء"},
		Description: model.Text{EN: "A tower."},
	})
	assert.Equal(t, "desert-tower", visible.Slug)
	assert.True(t, visible.IsActive)

	hidden := create(contentInput{
		Slug:     "hidden-project",
		Title:    model.Text{EN: "Hidden"},
		IsActive: &inactive,
	})
	assert.False(t, hidden.IsActive)

	// Public list excludes the inactive project.
	rec := ts.do(t, http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var publicList []contentView
	dataAs(t, decodeEnvelope(t, rec), &publicList)
	require.Len(t, publicList, 1)
	assert.Equal(t, "desert-tower", publicList[0].Slug)

	// Inactive is indistinguishable from absent on public reads.
	rec = ts.do(t, http.MethodGet, "/api/projects/hidden-project", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Admin list includes both.
	rec = ts.do(t, http.MethodGet, "/api/admin/projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var adminList []contentView
	dataAs(t, decodeEnvelope(t, rec), &adminList)
	assert.Len(t, adminList, 2)

	// Duplicate slug is rejected.
	rec = ts.do(t, http.MethodPost, "/api/admin/projects", token, contentInput{
		Slug:  "desert-tower",
		Title: model.Text{EN: "Another"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Update.
	rec = ts.do(t, http.MethodPut, "/api/admin/projects/"+itoa(visible.ID), token, contentInput{
		Slug:  "desert-tower",
		Title: model.Text{EN: "Desert Tower II", AR: "برج الصحراء"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated contentView
	dataAs(t, decodeEnvelope(t, rec), &updated)
	assert.Equal(t, "Desert Tower II", updated.Title.EN)

	// Delete, then delete again.
	rec = ts.do(t, http.MethodDelete, "/api/admin/projects/"+itoa(visible.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodDelete, "/api/admin/projects/"+itoa(visible.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestSEOEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	rec := ts.do(t, http.MethodGet, "/api/seo/home", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/admin/seo/home", token, seoInput{
		Title:       model.Text{EN: "Manara", AR: "منارة"},
		Description: model.Text{EN: "Corporate site"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/seo/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view seoView
	dataAs(t, decodeEnvelope(t, rec), &view)
	assert.Equal(t, "home", view.Page)
	assert.Equal(t, "منارة", view.Title.AR)

	// Delete invalidates the cached entry too.
	rec = ts.do(t, http.MethodDelete, "/api/admin/seo/home", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(t, http.MethodGet, "/api/seo/home", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func makeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// uploadImage posts a multipart image with banner metadata fields.
func (ts *testServer) uploadImage(t *testing.T, token string, data []byte, fields map[string]string) mediaView {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "banner.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/gridfs/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view mediaView
	dataAs(t, decodeEnvelope(t, rec), &view)
	require.NotEmpty(t, view.ID)
	return view
}

func TestImageUploadAndStreaming(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	uploaded := ts.uploadImage(t, token, makeTestPNG(t, 64, 48), nil)
	require.NotNil(t, uploaded.Width)
	assert.Equal(t, int64(64), *uploaded.Width)

	rec := ts.do(t, http.MethodGet, "/api/gridfs/images/"+uploaded.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uploaded.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age=3600")
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	// Conditional re-fetch.
	req := httptest.NewRequest(http.MethodGet, "/api/gridfs/images/"+uploaded.ID, nil)
	req.Header.Set("If-None-Match", etag)
	cond := httptest.NewRecorder()
	ts.router.ServeHTTP(cond, req)
	assert.Equal(t, http.StatusNotModified, cond.Code)
	assert.Empty(t, cond.Body.Bytes())

	rec = ts.do(t, http.MethodGet, "/api/gridfs/images/no-such-id", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImageUploadRejectsNonImage(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text, not an image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/gridfs/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFileUploadPDFOnly(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	post := func(data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "brochure.pdf")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/gridfs/files", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		ts.router.ServeHTTP(rec, req)
		return rec
	}

	rec := post([]byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view mediaView
	dataAs(t, decodeEnvelope(t, rec), &view)
	assert.Equal(t, "application/pdf", view.ContentType)

	rec = post(makeTestPNG(t, 8, 8))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBannerResolution(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	img := makeTestPNG(t, 32, 32)
	second := ts.uploadImage(t, token, img, map[string]string{
		"page": "home", "order": "2", "titleEn": "Second", "titleAr": "الثاني",
	})
	first := ts.uploadImage(t, token, img, map[string]string{
		"page": "home", "order": "1", "titleEn": "First",
	})
	ts.uploadImage(t, token, img, map[string]string{
		"page": "home", "order": "3", "titleEn": "Hidden", "isActive": "false",
	})
	ts.uploadImage(t, token, img, map[string]string{
		"page": "about", "order": "1", "titleEn": "Elsewhere",
	})

	rec := ts.do(t, http.MethodGet, "/api/banners/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var banners []struct {
		ID    string     `json:"id"`
		Title model.Text `json:"title"`
		Order int64      `json:"order"`
		URL   string     `json:"url"`
	}
	dataAs(t, decodeEnvelope(t, rec), &banners)
	require.Len(t, banners, 2)
	assert.Equal(t, first.ID, banners[0].ID)
	assert.Equal(t, second.ID, banners[1].ID)
	assert.Equal(t, "الثاني", banners[1].Title.AR)
	assert.Equal(t, "/api/gridfs/images/"+first.ID, banners[0].URL)

	// Admin view includes the inactive banner.
	rec = ts.do(t, http.MethodGet, "/api/admin/banners/home", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dataAs(t, decodeEnvelope(t, rec), &banners)
	assert.Len(t, banners, 3)
}

func TestBannerCacheInvalidation(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	uploaded := ts.uploadImage(t, token, makeTestPNG(t, 32, 32), map[string]string{
		"page": "home", "order": "1", "titleEn": "Before",
	})

	// Prime the cache.
	rec := ts.do(t, http.MethodGet, "/api/banners/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Metadata change must show up on the next read.
	newTitle := "After"
	rec = ts.do(t, http.MethodPatch, "/api/admin/media/"+uploaded.ID, token, mediaPatchInput{
		TitleEN: &newTitle,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/banners/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var banners []struct {
		Title model.Text `json:"title"`
	}
	dataAs(t, decodeEnvelope(t, rec), &banners)
	require.Len(t, banners, 1)
	assert.Equal(t, "After", banners[0].Title.EN)
}

func TestBannerReadsAreCached(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	ts.uploadImage(t, token, makeTestPNG(t, 16, 16), map[string]string{
		"page": "home", "order": "1", "titleEn": "Fresh",
	})

	// The first read resolves from the store and fills the cache.
	rec := ts.do(t, http.MethodGet, "/api/banners/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cached, ok := ts.handler.bannerCache.Get(context.Background(), "banners:home")
	require.True(t, ok)
	require.Len(t, *cached, 1)

	// A cached entry is served as-is on the next read.
	planted := []banner.View{{ID: "sentinel", Title: model.Text{EN: "Cached"}, IsActive: true}}
	require.NoError(t, ts.handler.bannerCache.Set(context.Background(), "banners:home", &planted))

	rec = ts.do(t, http.MethodGet, "/api/banners/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var banners []banner.View
	dataAs(t, decodeEnvelope(t, rec), &banners)
	require.Len(t, banners, 1)
	assert.Equal(t, "sentinel", banners[0].ID)
	assert.Equal(t, "Cached", banners[0].Title.EN)
}

func TestDuplicateBannerOrdersPassThrough(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	img := makeTestPNG(t, 16, 16)
	a := ts.uploadImage(t, token, img, map[string]string{"page": "home", "order": "1", "titleEn": "A"})
	b := ts.uploadImage(t, token, img, map[string]string{"page": "home", "order": "1", "titleEn": "B"})

	rec := ts.do(t, http.MethodGet, "/api/banners/home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var banners []struct {
		ID    string `json:"id"`
		Order int64  `json:"order"`
	}
	dataAs(t, decodeEnvelope(t, rec), &banners)
	require.Len(t, banners, 2)
	// Both keep order 1, earlier upload wins the tie.
	assert.Equal(t, a.ID, banners[0].ID)
	assert.Equal(t, b.ID, banners[1].ID)
	assert.Equal(t, int64(1), banners[0].Order)
	assert.Equal(t, int64(1), banners[1].Order)
}

func TestAdminMediaManagement(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	uploaded := ts.uploadImage(t, token, makeTestPNG(t, 16, 16), map[string]string{
		"page": "home", "order": "1", "titleEn": "Keep",
	})

	rec := ts.do(t, http.MethodGet, "/api/admin/media?page=home", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []mediaView
	dataAs(t, decodeEnvelope(t, rec), &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, uploaded.ID, listed[0].ID)

	rec = ts.do(t, http.MethodDelete, "/api/admin/media/"+uploaded.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/gridfs/images/"+uploaded.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/admin/media/"+uploaded.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryKindsAreScoped(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	rec := ts.do(t, http.MethodPost, "/api/admin/blog/categories", token, categoryInput{
		Name: model.Text{EN: "Announcements"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same slug in another kind is fine.
	rec = ts.do(t, http.MethodPost, "/api/admin/project-categories", token, categoryInput{
		Name: model.Text{EN: "Announcements"},
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Same slug in the same kind is not.
	rec = ts.do(t, http.MethodPost, "/api/admin/blog/categories", token, categoryInput{
		Name: model.Text{EN: "Announcements"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/blog/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []categoryView
	dataAs(t, decodeEnvelope(t, rec), &cats)
	require.Len(t, cats, 1)
	assert.Equal(t, "announcements", cats[0].Slug)
}

func TestInvalidJSONBody(t *testing.T) {
	ts := newTestServer(t)
	ts.createAdmin(t, "amira")
	token := ts.login(t, "amira")

	req := httptest.NewRequest(http.MethodPost, "/api/admin/projects", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid JSON body", resp.Error)
}
