package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"revistas_backend/internal/services"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterUser handles user registration. Admin only.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req services.RegisterUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.authService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "RegisterUser: Error from authService.RegisterUser")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// LoginUser handles user login.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	authResp, err := h.authService.LoginUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "LoginUser: Error from authService.LoginUser")
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// GetCurrentUser retrieves the profile of the currently authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	user, err := h.authService.GetUserProfile(c.Request.Context(), p.UserID)
	if err != nil {
		respondServiceError(c, err, "GetCurrentUser: Error from authService.GetUserProfile")
		return
	}
	c.JSON(http.StatusOK, user)
}
