package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateLimitTestRouter(config *RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GlobalRateLimiter(config))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestGlobalRateLimiter(t *testing.T) {
	t.Run("allows requests under the limit", func(t *testing.T) {
		router := rateLimitTestRouter(&RateLimitConfig{Enabled: true, RequestsPerMin: 10})

		for i := 0; i < 5; i++ {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("rejects requests over the limit", func(t *testing.T) {
		router := rateLimitTestRouter(&RateLimitConfig{Enabled: true, RequestsPerMin: 3})

		var lastCode int
		for i := 0; i < 5; i++ {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			lastCode = w.Code
		}

		assert.Equal(t, http.StatusTooManyRequests, lastCode)
	})

	t.Run("disabled limiter passes everything", func(t *testing.T) {
		router := rateLimitTestRouter(&RateLimitConfig{Enabled: false})

		for i := 0; i < 20; i++ {
			req := httptest.NewRequest("GET", "/", http.NoBody)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}

func TestAuthRateLimiter(t *testing.T) {
	t.Run("locks out after five attempts", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(AuthRateLimiter(&RateLimitConfig{Enabled: true}))
		router.POST("/login", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		var lastCode int
		for i := 0; i < 6; i++ {
			req := httptest.NewRequest("POST", "/login", http.NoBody)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			lastCode = w.Code
		}

		assert.Equal(t, http.StatusTooManyRequests, lastCode)
	})
}

func TestNewRateLimitConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config := NewRateLimitConfigFromEnv()
		assert.True(t, config.Enabled)
		assert.Equal(t, int64(60), config.RequestsPerMin)
	})

	t.Run("reads overrides from env", func(t *testing.T) {
		t.Setenv("RATE_LIMIT_ENABLED", "false")
		t.Setenv("RATE_LIMIT_REQUESTS_PER_MIN", "120")

		config := NewRateLimitConfigFromEnv()
		assert.False(t, config.Enabled)
		assert.Equal(t, int64(120), config.RequestsPerMin)
	})
}
