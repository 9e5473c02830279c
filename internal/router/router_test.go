package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"claimtable/backend/internal/middleware"
	"claimtable/backend/internal/pkg/config"
	"claimtable/backend/internal/service/claim"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(web config.Web) *Router {
	svc := claim.NewService(zap.NewNop(), config.DefaultSettings())
	r := NewRouter(svc, zap.NewNop(), web)
	r.Init()
	return r
}

func defaultWeb() config.Web {
	return config.Web{MaxUploadMB: 1, AllowedOrigins: []string{"http://localhost:3000"}}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(defaultWeb()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	newRouter(defaultWeb()).ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(defaultWeb()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/claims/export", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORS(t *testing.T) {
	r := newRouter(defaultWeb())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/claims/export", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBodyLimit(t *testing.T) {
	web := defaultWeb()
	web.MaxUploadMB = 0
	r := newRouter(web)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims/export", strings.NewReader("too big"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), `"status":false`)
}
