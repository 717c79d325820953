package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"celestial-server/internal/auth"
	"celestial-server/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequireAdmin(t *testing.T) {
	tokens, err := auth.NewTokenManager(config.AuthConfig{JWTSecret: testSecret, TokenExpiration: time.Hour})
	require.NoError(t, err)
	admin, err := tokens.Generate("ops", auth.RoleAdmin)
	require.NoError(t, err)
	viewer, err := tokens.Generate("guest", "viewer")
	require.NoError(t, err)

	var seen *auth.Claims
	handler := NewAuthenticator(tokens).RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaimsFromContext(r)
		w.WriteHeader(http.StatusCreated)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + admin, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"non-admin", "Bearer " + viewer, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusCreated},
		{"lowercase scheme", "bearer " + admin, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bodies", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	require.NotNil(t, seen)
	assert.Equal(t, "ops", seen.Subject)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(t.Context(), config.RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 0.001,
		BurstSize:         1,
	})
	handler := rl.Middleware(okHandler)

	request := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/bodies/star:1", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, request("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1:5001"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2:5000"))

	rl.sweep(time.Now().Add(time.Hour * 24 * 365))
	rl.mu.RLock()
	assert.Empty(t, rl.clients)
	rl.mu.RUnlock()
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(t.Context(), config.RateLimitConfig{Enabled: false, BurstSize: 0})
	handler := rl.Middleware(okHandler)

	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "192.168.1.1", getClientIP(req, false))
	assert.Equal(t, "203.0.113.7", getClientIP(req, true))

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", getClientIP(req, true))
}

func TestCORSPreflight(t *testing.T) {
	handler := NewCORS(config.FrontendConfig{URL: "http://localhost:3000"}).Middleware(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/bodies", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/bodies", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsRecordsRoutes(t *testing.T) {
	m := NewMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/bodies/{handle}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := m.Middleware(mux)

	for _, path := range []string{"/api/bodies/star:1", "/api/bodies/star:2", "/elsewhere"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `celestial_http_requests_total{method="GET",route="GET /api/bodies/{handle}",status="404"} 2`)
	assert.Contains(t, out, `celestial_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, out, "go_goroutines")
}
