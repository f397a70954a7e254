package handlers

import (
	"net/http"
	"strings"

	"dentastore/internal/services"
	"dentastore/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new customer account
func (h *AuthHandler) Register(c *gin.Context) {
	var request services.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		handleServiceError(c, err, "REGISTRATION_FAILED")
		return
	}

	utils.CreatedResponse(c, "Account created successfully", response)
}

// Login authenticates a user and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var request services.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "LOGIN_FAILED", "Invalid email or password")
		return
	}

	utils.SuccessResponse(c, "Login successful", response)
}

// Logout blacklists the current access token
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID, exists := c.Get("token_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}

	tokenIDStr, ok := tokenID.(string)
	if !ok {
		utils.BadRequestResponse(c, "Invalid token")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), tokenIDStr); err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to logout: "+err.Error())
		return
	}

	utils.SuccessResponse(c, "Logout successful", nil)
}

// RefreshToken exchanges a refresh token for a new token pair
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var request struct {
		RefreshToken string `json:"refresh_token" validate:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.RefreshToken) == "" {
		utils.BadRequestResponse(c, "Refresh token required")
		return
	}

	response, err := h.authService.RefreshToken(c.Request.Context(), request.RefreshToken)
	if err != nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, "REFRESH_FAILED", "Invalid refresh token")
		return
	}

	utils.SuccessResponse(c, "Token refreshed successfully", response)
}

// ChangePassword updates the authenticated user's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, &request); err != nil {
		handleServiceError(c, err, "PASSWORD_CHANGE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Password changed successfully", nil)
}

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "PROFILE_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", user)
}

// UpdateProfile updates the authenticated user's profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, &request)
	if err != nil {
		handleServiceError(c, err, "PROFILE_UPDATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", user)
}
