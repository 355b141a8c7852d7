package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"main/services"
	"main/usecase"
	"main/utils"
)

// RefreshTokenHandler rotates a refresh token into a new token pair.
// The refresh token travels in the Authorization header.
func RefreshTokenHandler(c *gin.Context, users *usecase.UserService) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.Unauthorized(c, "Missing or invalid refresh token")
		return
	}

	refreshToken := strings.TrimPrefix(authHeader, "Bearer ")

	result, err := users.Refresh(c.Request.Context(), refreshToken)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrTokenExpired):
		utils.Unauthorized(c, "Refresh token has expired")
		return
	case errors.Is(err, services.ErrTokenInvalid):
		utils.Unauthorized(c, "Invalid refresh token")
		return
	case errors.Is(err, usecase.ErrUserNotFound):
		utils.Unauthorized(c, "Invalid refresh token")
		return
	case errors.Is(err, usecase.ErrAccountDisabled):
		utils.Forbidden(c, "Account is disabled")
		return
	default:
		utils.TrackError("auth", "refresh_failed")
		utils.InternalError(c, "Failed to refresh tokens")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
	})
}
