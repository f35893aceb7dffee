package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiterAllowsBurstPerKey(t *testing.T) {
	limiter := NewRateLimiter("test", rate.Limit(1), 2, time.Minute)
	now := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("10.0.0.1"))
}

func TestRateLimiterDropsIdleKeys(t *testing.T) {
	limiter := NewRateLimiter("test", rate.Limit(1), 1, time.Minute)
	now := time.Unix(1700000000, 0)
	limiter.now = func() time.Time { return now }

	limiter.Allow("10.0.0.1")
	now = now.Add(2 * time.Minute)
	limiter.Allow("10.0.0.2")

	assert.NotContains(t, limiter.limiters, "10.0.0.1")
	assert.Contains(t, limiter.limiters, "10.0.0.2")
}

func TestRateLimiterMiddlewareRejectsWith429(t *testing.T) {
	e := echo.New()
	limiter := NewRateLimiter("test", rate.Limit(0.001), 1, 0)
	e.POST("/limited", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, limiter.Middleware())

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/limited", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
