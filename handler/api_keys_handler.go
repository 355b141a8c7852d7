package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"main/model"
	"main/usecase"
	"main/utils"
)

func ListAPIKeysHandler(c *gin.Context, keys *usecase.APIKeyService) {
	userID := c.GetString("user_id")

	views, err := keys.List(c.Request.Context(), userID)
	if err != nil {
		utils.TrackError("credentials", "list_failed")
		utils.InternalError(c, "Failed to list API keys")
		return
	}

	c.JSON(http.StatusOK, gin.H{"api_keys": views})
}

func AddAPIKeyHandler(c *gin.Context, keys *usecase.APIKeyService) {
	userID := c.GetString("user_id")

	var req model.AddAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Incomplete API key data")
		return
	}

	view, err := keys.Add(c.Request.Context(), userID, req)
	if err != nil {
		utils.TrackError("credentials", "add_failed")
		utils.InternalError(c, "Failed to add API key")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "API key added successfully",
		"api_key": view,
	})
}

// DeleteAPIKeyHandler answers 404 for keys owned by someone else; the
// caller cannot tell them apart from keys that don't exist.
func DeleteAPIKeyHandler(c *gin.Context, keys *usecase.APIKeyService) {
	userID := c.GetString("user_id")
	keyID := c.Param("id")

	err := keys.Delete(c.Request.Context(), userID, keyID)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrAPIKeyNotFound):
		utils.NotFound(c, "API key not found")
		return
	default:
		utils.TrackError("credentials", "delete_failed")
		utils.InternalError(c, "Failed to delete API key")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "API key deleted successfully"})
}
