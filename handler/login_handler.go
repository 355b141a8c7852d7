package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"main/model"
	"main/usecase"
	"main/utils"
)

func LoginHandler(c *gin.Context, users *usecase.UserService) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.BadRequest(c, "Incomplete login data")
		return
	}

	result, err := users.Login(c.Request.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrInvalidCredentials):
		utils.Unauthorized(c, "Invalid credentials")
		return
	case errors.Is(err, usecase.ErrAccountDisabled):
		utils.Forbidden(c, "Account is disabled")
		return
	default:
		utils.TrackError("auth", "login_failed")
		utils.InternalError(c, "Login failed")
		return
	}

	if result.Requires2FA {
		c.JSON(http.StatusOK, gin.H{
			"message":     "Two-factor authentication required",
			"require_2fa": true,
			"user_id":     result.UserID,
		})
		return
	}

	log.Printf("User %s logged in from %s", result.UserID,
		utils.DescribeClient(c.Request.UserAgent()))

	c.JSON(http.StatusOK, gin.H{
		"message":       "Login successful",
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User.View(),
	})
}
