package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatehub/estatehub-admin/internal/config"
	"github.com/estatehub/estatehub-admin/internal/upload"
)

func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	cfg := config.Config{
		Env:        "test",
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
		BcryptCost: 4,
		Upload:     config.UploadConfig{Backend: "local", Dir: dir, PublicPrefix: "uploads", MaxBytes: 1 << 20},
	}

	r, err := newRouter(cfg, db, upload.NewLocalStorage(dir, "uploads"))
	require.NoError(t, err)
	return r, mock
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_AdminPagesRequireSession(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/admin/agents/new", "/admin/blog/new", "/admin/users/new"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/admin/login", rec.Header().Get("Location"), path)
	}
}

func TestRouter_LoginLimitIgnoresForwardedHeaders(t *testing.T) {
	r, mock := newTestRouter(t)

	for i := 0; i < loginBurst; i++ {
		mock.ExpectQuery(`SELECT id, email, password`).
			WithArgs("admin@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "first_name", "last_name", "phone", "user_type", "created_at"}))
	}

	form := url.Values{"email": {"admin@x.com"}, "password": {"guess-guess"}}
	codes := make(map[int]int)
	for i := 0; i < loginBurst+5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i))
		req.RemoteAddr = "192.0.2.7:40000"

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes[rec.Code]++
	}

	assert.Equal(t, loginBurst, codes[http.StatusUnauthorized])
	assert.Equal(t, 5, codes[http.StatusTooManyRequests])
	assert.NoError(t, mock.ExpectationsWereMet())
}
