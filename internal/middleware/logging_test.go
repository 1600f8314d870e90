package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"taskboard-api/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// The middlewares log through the global logger, so it must exist
// before any of them run.
func TestMain(m *testing.M) {
	logging.InitLogger(&logging.LogConfig{
		Enabled: false,
		Level:   "error",
	})
	os.Exit(m.Run())
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ok", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	// The middleware must not interfere with responses at any status level
	for path, want := range map[string]int{
		"/ok":      http.StatusOK,
		"/missing": http.StatusNotFound,
		"/boom":    http.StatusInternalServerError,
	} {
		req := httptest.NewRequest("GET", path, http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, path)
	}
}
