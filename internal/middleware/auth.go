package middleware

import (
	"errors"
	"net/http"

	"taskboard-api/internal/auth"
	"taskboard-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextKeyUserID is the context key for storing user ID
	ContextKeyUserID = "user_id"
	// ContextKeyUserEmail is the context key for storing user email
	ContextKeyUserEmail = "user_email"
	// ContextKeyUserRole is the context key for storing user role
	ContextKeyUserRole = "user_role"
)

// AuthMiddleware creates a middleware that validates JWT tokens and
// populates the authenticated user's identity in the request context.
// Handlers downstream assume this has already run.
func AuthMiddleware(jwtConfig *auth.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.Fail("Authorization header is required"))
			c.Abort()
			return
		}

		tokenString, err := auth.ExtractTokenFromHeader(authHeader)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.Fail(err.Error()))
			c.Abort()
			return
		}

		claims, err := auth.ValidateAccessToken(tokenString, jwtConfig)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				c.JSON(http.StatusUnauthorized, models.Fail("Access token has expired. Please refresh your token."))
			} else {
				c.JSON(http.StatusUnauthorized, models.Fail("Invalid access token"))
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserEmail, claims.Email)
		c.Set(ContextKeyUserRole, claims.Role)

		c.Next()
	}
}

// DevAuthUserID is the fixed identity used when running without a user
// database (in-memory storage mode).
var DevAuthUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

// DevAuth populates the context with a fixed development identity.
// Never use outside in-memory storage mode.
func DevAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyUserID, DevAuthUserID)
		c.Set(ContextKeyUserEmail, "dev@localhost")
		c.Set(ContextKeyUserRole, models.RoleUser)
		c.Next()
	}
}

// Helper functions to extract user information from context

// GetUserID retrieves the user ID from the Gin context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, errors.New("user ID not found in context")
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("invalid user ID type in context")
	}

	return id, nil
}

// GetUserEmail retrieves the user email from the Gin context
func GetUserEmail(c *gin.Context) (string, error) {
	email, exists := c.Get(ContextKeyUserEmail)
	if !exists {
		return "", errors.New("user email not found in context")
	}

	emailStr, ok := email.(string)
	if !ok {
		return "", errors.New("invalid email type in context")
	}

	return emailStr, nil
}

// GetUserRole retrieves the user role from the Gin context
func GetUserRole(c *gin.Context) (models.UserRole, error) {
	role, exists := c.Get(ContextKeyUserRole)
	if !exists {
		return "", errors.New("user role not found in context")
	}

	roleValue, ok := role.(models.UserRole)
	if !ok {
		return "", errors.New("invalid role type in context")
	}

	return roleValue, nil
}

// IsAuthenticated checks if the current request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get(ContextKeyUserID)
	return exists
}
