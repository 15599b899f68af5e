package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/intakehq/intake/internal/auth"
	"github.com/intakehq/intake/internal/config"
	"github.com/intakehq/intake/internal/core"
	apperrors "github.com/intakehq/intake/internal/errors"
	"github.com/intakehq/intake/internal/ratelimit"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	tokens, err := auth.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequests: 3,
		Window:      time.Minute,
	})
	t.Cleanup(limiter.Stop)

	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 0}
	return New(cfg, nil, limiter, tokens)
}

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body apperrors.HTTPErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestFeedbackEndpointIsRateLimited(t *testing.T) {
	srv := newTestServer(t)

	do := func() *httptest.ResponseRecorder {
		// An empty body fails validation before any storage access, so the
		// limiter is the only stateful component exercised here.
		req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(`{}`))
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 3; i++ {
		rec := do()
		require.Equal(t, http.StatusBadRequest, rec.Code, "request %d should be admitted", i+1)
	}

	rec := do()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.JSONEq(t, `{"error":"Rate limit exceeded. Try again later."}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitKeysClientsIndependently(t *testing.T) {
	srv := newTestServer(t)

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(`{}`))
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusBadRequest, do("203.0.113.1"))
	}
	require.Equal(t, http.StatusTooManyRequests, do("203.0.113.1"))

	// A different client identity still has its full allowance.
	require.Equal(t, http.StatusBadRequest, do("203.0.113.2"))
}

func TestAdminEndpointsRequireAdminToken(t *testing.T) {
	srv := newTestServer(t)

	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/feedback", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec
	}

	t.Run("MissingToken", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, get("").Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, get("not-a-token").Code)
	})

	t.Run("UserRoleForbidden", func(t *testing.T) {
		token, err := srv.tokens.Issue("alice", core.RoleUser)
		require.NoError(t, err)
		require.Equal(t, http.StatusForbidden, get(token).Code)
	})

	t.Run("AdminRoleAdmitted", func(t *testing.T) {
		token, err := srv.tokens.Issue("root", core.RoleAdmin)
		require.NoError(t, err)
		rec := get(token)
		require.NotEqual(t, http.StatusUnauthorized, rec.Code)
		require.NotEqual(t, http.StatusForbidden, rec.Code)
	})
}
