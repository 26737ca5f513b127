package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(requests int) *IPRateLimiter {
	rl := NewIPRateLimiter(requests, time.Minute, CleanupOpts{
		TTL:      time.Minute,
		Interval: time.Minute,
	})
	return rl
}

func TestAllowPerIP(t *testing.T) {
	rl := newTestLimiter(2)
	defer rl.Cancel()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	// A different IP gets its own bucket.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestGetClientIP(t *testing.T) {
	rl := newTestLimiter(1)
	defer rl.Cancel()

	t.Run("remote addr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "192.0.2.7:51234"
		assert.Equal(t, ipAddr("192.0.2.7"), rl.GetClientIP(req))
	})

	t.Run("x-forwarded-for uses last entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.2")
		assert.Equal(t, ipAddr("198.51.100.2"), rl.GetClientIP(req))
	})
}

func TestMiddleware(t *testing.T) {
	rl := newTestLimiter(1)
	defer rl.Cancel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(next)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "192.0.2.7:51234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
