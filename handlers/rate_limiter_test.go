package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"campus-election-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	router, _, limiter := SetupTestEnvironment(t, config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 2})

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/auth/login", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/auth/login", "").Code)

	w := doRequest(router, http.MethodPost, "/api/auth/login", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())

	// only the auth routes are limited
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/health", "student-token").Code)

	stats := limiter.Stats()
	assert.Equal(t, int64(3), stats.TotalRequests)
	assert.Equal(t, int64(2), stats.AllowedRequests)
	assert.Equal(t, int64(1), stats.RejectedRequests)
	assert.Equal(t, 1, stats.TrackedClients)

	w = doRequest(router, http.MethodGet, "/api/admin/ratelimit/stats", "staff-token")
	require.Equal(t, http.StatusOK, w.Code)
	var served RateLimiterStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &served))
	assert.Equal(t, int64(1), served.RejectedRequests)
	assert.Equal(t, 2, served.RateLimiterConfig.Burst)
}

func TestRateLimitDisabled(t *testing.T) {
	router, _, _ := SetupTestEnvironment(t, config.RateLimitConfig{Enabled: false, Rate: 0.001, Burst: 1})

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doRequest(router, http.MethodPost, "/api/auth/login", "").Code)
	}
}

func TestRateLimiter_PerClientAndSweep(t *testing.T) {
	l := NewRateLimiter(config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 1})
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"))
	assert.Equal(t, 2, l.Stats().TrackedClients)

	now = now.Add(clientIdleTTL + time.Minute)
	assert.True(t, l.Allow("10.0.0.3"))
	assert.Equal(t, 1, l.Stats().TrackedClients)

	// a forgotten client starts with a full bucket again
	assert.True(t, l.Allow("10.0.0.1"))
}
