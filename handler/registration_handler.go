package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"main/model"
	"main/usecase"
	"main/utils"
)

// RegistrationHandler creates an account. The 409 on a taken username
// or email deliberately reveals existence; login does not.
func RegistrationHandler(c *gin.Context, users *usecase.UserService) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.BadRequest(c, "Incomplete registration data")
		return
	}

	userID, err := users.Register(c.Request.Context(), req)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrUsernameTaken):
		utils.Conflict(c, "Username already taken")
		return
	case errors.Is(err, usecase.ErrEmailTaken):
		utils.Conflict(c, "Email already taken")
		return
	case errors.Is(err, usecase.ErrWeakPassword):
		utils.BadRequest(c, "Password must be at least 12 characters and contain an uppercase letter, a lowercase letter, a digit and a special character")
		return
	default:
		utils.TrackError("auth", "registration_failed")
		utils.InternalError(c, "Failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user_id": userID,
	})
}
