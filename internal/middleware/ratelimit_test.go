package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unilab/lab-reservation-api/internal/config"
)

func rateLimitFixture(t *testing.T, cfg config.RateLimitConfig) (echo.MiddlewareFunc, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTokenBucket(cfg, rdb), mr
}

func hitOnce(t *testing.T, mw echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/agendamentos", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, mw(next)(c))
	return rec
}

func TestTokenBucketAllowsWithinCapacity(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       3,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl-test",
	}
	mw, _ := rateLimitFixture(t, cfg)

	for i := 0; i < 3; i++ {
		rec := hitOnce(t, mw)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := hitOnce(t, mw)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too_many_requests")
}

func TestTokenBucketRefills(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Second,
		TTL:            time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl-test",
	}
	mw, _ := rateLimitFixture(t, cfg)

	require.Equal(t, http.StatusOK, hitOnce(t, mw).Code)
	require.Equal(t, http.StatusTooManyRequests, hitOnce(t, mw).Code)

	// The script computes elapsed time from the now_ms argument, so
	// advancing the wall clock is enough; miniredis only holds state.
	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hitOnce(t, mw).Code)
}

func TestTokenBucketDisabledPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, hitOnce(t, mw).Code)
	}
}

func TestTokenBucketFailsOpenWhenRedisDown(t *testing.T) {
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl-test",
	}
	mw, mr := rateLimitFixture(t, cfg)
	mr.Close()

	// With the backend gone every request is allowed.
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, hitOnce(t, mw).Code)
	}
}
