package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard-api/internal/auth"
	"taskboard-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() *auth.JWTConfig {
	return &auth.JWTConfig{
		SecretKey:            "middleware-test-secret-key!!!!!!",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		Issuer:               "test-taskboard-api",
	}
}

func authTestRouter(jwtConfig *auth.JWTConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(jwtConfig), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String()})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	jwtConfig := testJWTConfig()

	user := &models.User{
		ID:    uuid.New(),
		Email: "mw@example.com",
		Role:  models.RoleUser,
	}

	t.Run("passes with valid token", func(t *testing.T) {
		token, err := auth.GenerateAccessToken(user, jwtConfig)
		require.NoError(t, err)

		router := authTestRouter(jwtConfig)
		req := httptest.NewRequest("GET", "/protected", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), user.ID.String())
	})

	t.Run("rejects missing header", func(t *testing.T) {
		router := authTestRouter(jwtConfig)
		req := httptest.NewRequest("GET", "/protected", http.NoBody)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects malformed header", func(t *testing.T) {
		router := authTestRouter(jwtConfig)
		req := httptest.NewRequest("GET", "/protected", http.NoBody)
		req.Header.Set("Authorization", "Token abc123")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expiredConfig := testJWTConfig()
		expiredConfig.AccessTokenDuration = -1 * time.Hour

		token, err := auth.GenerateAccessToken(user, expiredConfig)
		require.NoError(t, err)

		router := authTestRouter(jwtConfig)
		req := httptest.NewRequest("GET", "/protected", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "expired")
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		otherConfig := testJWTConfig()
		otherConfig.SecretKey = "some-other-secret-key!!!!!!!!!!!"

		token, err := auth.GenerateAccessToken(user, otherConfig)
		require.NoError(t, err)

		router := authTestRouter(jwtConfig)
		req := httptest.NewRequest("GET", "/protected", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDevAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/tasks", DevAuth(), func(c *gin.Context) {
		userID, err := GetUserID(c)
		require.NoError(t, err)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String()})
	})

	req := httptest.NewRequest("GET", "/tasks", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), DevAuthUserID.String())
}

func TestContextHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns stored identity", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		id := uuid.New()
		c.Set(ContextKeyUserID, id)
		c.Set(ContextKeyUserEmail, "helper@example.com")
		c.Set(ContextKeyUserRole, models.RoleAdmin)

		gotID, err := GetUserID(c)
		require.NoError(t, err)
		assert.Equal(t, id, gotID)

		email, err := GetUserEmail(c)
		require.NoError(t, err)
		assert.Equal(t, "helper@example.com", email)

		role, err := GetUserRole(c)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, role)

		assert.True(t, IsAuthenticated(c))
	})

	t.Run("errors on empty context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())

		_, err := GetUserID(c)
		assert.Error(t, err)

		_, err = GetUserEmail(c)
		assert.Error(t, err)

		_, err = GetUserRole(c)
		assert.Error(t, err)

		assert.False(t, IsAuthenticated(c))
	})

	t.Run("errors on wrong value type", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(ContextKeyUserID, "not-a-uuid-value")

		_, err := GetUserID(c)
		assert.Error(t, err)
	})
}
