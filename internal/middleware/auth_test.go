package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(InternalAuthMiddleware(apiKey))
	router.GET("/internal/quotes", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestInternalAuthMiddleware(t *testing.T) {
	router := newAuthRouter("pricing-secret")

	t.Run("valid key", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/internal/quotes", nil)
		require.NoError(t, err)
		req.Header.Set("X-Internal-API-Key", "pricing-secret")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/internal/quotes", nil)
		require.NoError(t, err)
		req.Header.Set("X-Internal-API-Key", "not-the-key")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing key", func(t *testing.T) {
		req, err := http.NewRequest("GET", "/internal/quotes", nil)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// TestInternalAuthMiddlewareUnconfigured verifies an unset key fails every
// request instead of serving the pricing API open.
func TestInternalAuthMiddlewareUnconfigured(t *testing.T) {
	router := newAuthRouter("")

	req, err := http.NewRequest("GET", "/internal/quotes", nil)
	require.NoError(t, err)
	req.Header.Set("X-Internal-API-Key", "anything")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
