package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"main/model"
	"main/usecase"
	"main/utils"
)

// Setup2FAHandler generates a new secret, provisioning URI and
// recovery codes. Repeating setup overwrites any previous secret.
func Setup2FAHandler(c *gin.Context, twoFactor *usecase.TwoFactorService) {
	var req model.SetupTwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Incomplete request data")
		return
	}

	setup, err := twoFactor.Setup(c.Request.Context(), req.UserID)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrUserNotFound):
		utils.NotFound(c, "User not found")
		return
	default:
		utils.TrackError("auth", "2fa_setup_failed")
		utils.InternalError(c, "Failed to set up two-factor authentication")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"secret":         setup.Secret,
		"uri":            setup.ProvisioningURI,
		"recovery_codes": setup.RecoveryCodes,
		"warning":        "Save these recovery codes securely. They will not be shown again.",
	})
}

func Enable2FAHandler(c *gin.Context, twoFactor *usecase.TwoFactorService) {
	var req model.TwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Incomplete request data")
		return
	}

	err := twoFactor.Enable(c.Request.Context(), req.UserID, req.Code)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrTwoFactorNotSetup):
		utils.NotFound(c, "Two-factor setup not found")
		return
	case errors.Is(err, usecase.ErrInvalidTwoFactorCode):
		utils.Unauthorized(c, "Invalid two-factor code")
		return
	default:
		utils.TrackError("auth", "2fa_enable_failed")
		utils.InternalError(c, "Failed to enable two-factor authentication")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Two-factor authentication enabled"})
}

// Verify2FAHandler completes a challenged login with a TOTP code or a
// recovery code and returns the token pair.
func Verify2FAHandler(c *gin.Context, twoFactor *usecase.TwoFactorService) {
	var req model.TwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Incomplete request data")
		return
	}

	result, err := twoFactor.VerifyLogin(c.Request.Context(), req.UserID, req.Code)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrUserNotFound):
		utils.NotFound(c, "User not found")
		return
	case errors.Is(err, usecase.ErrTwoFactorNotSetup):
		utils.NotFound(c, "Two-factor setup not found")
		return
	case errors.Is(err, usecase.ErrInvalidTwoFactorCode):
		utils.Unauthorized(c, "Invalid two-factor code")
		return
	default:
		utils.TrackError("auth", "2fa_verify_failed")
		utils.InternalError(c, "Failed to verify two-factor code")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Authentication successful",
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User.View(),
	})
}

func Disable2FAHandler(c *gin.Context, twoFactor *usecase.TwoFactorService) {
	var req model.TwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Incomplete request data")
		return
	}

	err := twoFactor.Disable(c.Request.Context(), req.UserID, req.Code)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrUserNotFound):
		utils.NotFound(c, "User not found")
		return
	case errors.Is(err, usecase.ErrTwoFactorNotSetup):
		utils.NotFound(c, "Two-factor setup not found")
		return
	case errors.Is(err, usecase.ErrInvalidTwoFactorCode):
		utils.Unauthorized(c, "Invalid two-factor code")
		return
	default:
		utils.TrackError("auth", "2fa_disable_failed")
		utils.InternalError(c, "Failed to disable two-factor authentication")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Two-factor authentication disabled"})
}
