package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"amazona/internal/auth"
	"amazona/internal/config"
	"amazona/internal/handlers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testDeps(t *testing.T, ping func(context.Context) error) Deps {
	t.Helper()
	issuer := auth.NewIssuer("secret", time.Hour)
	uploads := t.TempDir()
	return Deps{
		Handlers: handlers.New(handlers.Options{
			Issuer:    issuer,
			Logger:    zap.NewNop(),
			UploadDir: uploads,
			Ping:      ping,
		}),
		Issuer:    issuer,
		Logger:    zap.NewNop(),
		UploadDir: uploads,
	}
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouterHealth(t *testing.T) {
	r, err := NewRouter(testDeps(t, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/healthz").Code)

	r, err = NewRouter(testDeps(t, func(context.Context) error { return errors.New("down") }))
	require.NoError(t, err)
	rec := serve(r, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database unavailable")
}

func TestRouterGuardsProtectedRoutes(t *testing.T) {
	r, err := NewRouter(testDeps(t, nil))
	require.NoError(t, err)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/admin/summary"},
		{http.MethodGet, "/api/admin/products/64b7f0a1c2d3e4f5a6b7c8d9"},
		{http.MethodPost, "/api/orders"},
		{http.MethodGet, "/api/keys/paypal"},
		{http.MethodPost, "/api/checkout/placeorder"},
		{http.MethodPut, "/api/users/profile"},
	} {
		rec := serve(r, route.method, route.path)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}

	rec := serve(r, http.MethodGet, "/api/checkout/next")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/login?redirect=/shipping")
}

func TestRouterServesUploads(t *testing.T) {
	deps := testDeps(t, nil)
	dir := filepath.Join(deps.UploadDir, "uploads", "products")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644))

	r, err := NewRouter(deps)
	require.NoError(t, err)

	rec := serve(r, http.MethodGet, "/uploads/products/a.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png", rec.Body.String())
}

func TestRouterRateLimitsCredentials(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	deps := testDeps(t, nil)
	deps.Redis = client
	deps.RateLimit = config.RateLimitConfig{Requests: 2, Window: time.Minute}

	r, err := NewRouter(deps)
	require.NoError(t, err)

	// Empty bodies fail validation before any store is touched.
	for i := 0; i < 2; i++ {
		rec := serve(r, http.MethodPost, "/api/users/login")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	rec := serve(r, http.MethodPost, "/api/users/register")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Logout is not limited.
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/users/logout").Code)
}

func TestServerCloseRunsClosers(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Port: "5055"}}

	var closed []string
	srv, err := New(cfg, testDeps(t, nil),
		func() error { closed = append(closed, "redis"); return nil },
		func() error { closed = append(closed, "mongo"); return errors.New("already closed") },
	)
	require.NoError(t, err)
	assert.Equal(t, ":5055", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, srv.Close())
	assert.Equal(t, []string{"redis", "mongo"}, closed)
}
