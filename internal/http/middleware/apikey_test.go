package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"helpdesk/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	r := gin.New()
	r.Use(APIKeyAuth(repositories.APIKeyRepository{DB: db}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r, mock, func() { db.Close() }
}

func TestAPIKeyAuthMissingKey(t *testing.T) {
	r, _, done := authRouter(t)
	defer done()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAPIKeyAuthUnknownKey(t *testing.T) {
	r, mock, done := authRouter(t)
	defer done()

	mock.ExpectQuery("FROM ost_api_key WHERE apikey").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"id", "apikey", "isactive"}))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-API-Key", "nope")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAPIKeyAuthInactiveKey(t *testing.T) {
	r, mock, done := authRouter(t)
	defer done()

	mock.ExpectQuery("FROM ost_api_key WHERE apikey").
		WithArgs("disabled").
		WillReturnRows(sqlmock.NewRows([]string{"id", "apikey", "isactive"}).AddRow(1, "disabled", false))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-API-Key", "disabled")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestAPIKeyAuthActiveKeyPassesThrough(t *testing.T) {
	r, mock, done := authRouter(t)
	defer done()

	mock.ExpectQuery("FROM ost_api_key WHERE apikey").
		WithArgs("good").
		WillReturnRows(sqlmock.NewRows([]string{"id", "apikey", "isactive"}).AddRow(1, "good", true))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-API-Key", "good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}
}
