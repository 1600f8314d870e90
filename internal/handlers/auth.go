package handlers

import (
	"errors"
	"net/http"

	"taskboard-api/internal/auth"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request payload: "+err.Error()))
		return
	}

	if err := auth.ValidatePasswordRequirements(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}

	user, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, auth.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, models.Fail("A user with this email already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to register user"))
		return
	}

	// Auto-login after registration
	authResponse, err := h.authService.Login(&models.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Registration succeeded but login failed, still return the account
		c.JSON(http.StatusCreated, models.UserInfo{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
		})
		return
	}

	c.JSON(http.StatusCreated, authResponse)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request payload: "+err.Error()))
		return
	}

	authResponse, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, models.Fail("Invalid email or password"))
			return
		}
		if errors.Is(err, auth.ErrUserInactive) {
			c.JSON(http.StatusForbidden, models.Fail("User account is inactive"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to login"))
		return
	}

	c.JSON(http.StatusOK, authResponse)
}

// RefreshToken handles POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request payload: "+err.Error()))
		return
	}

	authResponse, err := h.authService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrRefreshTokenInvalid) {
			c.JSON(http.StatusUnauthorized, models.Fail("Refresh token is invalid or expired"))
			return
		}
		if errors.Is(err, auth.ErrUserInactive) {
			c.JSON(http.StatusForbidden, models.Fail("User account is inactive"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to refresh token"))
		return
	}

	c.JSON(http.StatusOK, authResponse)
}

// Logout handles POST /auth/logout by revoking the presented refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid request payload: "+err.Error()))
		return
	}

	if err := h.authService.RevokeRefreshToken(req.RefreshToken); err != nil {
		if errors.Is(err, auth.ErrRefreshTokenInvalid) {
			c.JSON(http.StatusUnauthorized, models.Fail("Refresh token is invalid or expired"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to logout"))
		return
	}

	c.JSON(http.StatusOK, models.OK("Logged out"))
}

// Me handles GET /auth/me and returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.Fail("Authentication required"))
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, models.Fail("User not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to retrieve user"))
		return
	}

	c.JSON(http.StatusOK, models.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	})
}
