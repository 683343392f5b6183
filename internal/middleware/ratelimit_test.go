package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func getWithIP(t *testing.T, router *gin.Engine, ip string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestRateLimitMiddlewarePerIP verifies each client IP gets its own bucket:
// one caller exhausting its burst does not starve another.
func TestRateLimitMiddlewarePerIP(t *testing.T) {
	router := newLimitedRouter(RateLimitMiddleware(RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         2,
	}))

	assert.Equal(t, http.StatusOK, getWithIP(t, router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, getWithIP(t, router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, getWithIP(t, router, "10.0.0.1").Code)

	// A different IP still has its full burst.
	assert.Equal(t, http.StatusOK, getWithIP(t, router, "10.0.0.2").Code)
}

// TestServiceRateLimitMiddleware verifies the shared bucket for internal
// callers rejects past the burst regardless of source.
func TestServiceRateLimitMiddleware(t *testing.T) {
	router := newLimitedRouter(ServiceRateLimitMiddleware(1, 2))

	assert.Equal(t, http.StatusOK, getWithIP(t, router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, getWithIP(t, router, "10.0.0.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, getWithIP(t, router, "10.0.0.3").Code)
}
