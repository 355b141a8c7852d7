package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"main/model"
	"main/usecase"
	"main/utils"
)

func GetBotOrdersHandler(c *gin.Context, bots *usecase.BotService) {
	userID := c.GetString("user_id")

	filter := model.BotOrderFilter{
		BotID:  c.Query("bot_id"),
		Status: c.Query("status"),
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.BadRequest(c, "Invalid start_date")
			return
		}
		filter.StartTime = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			utils.BadRequest(c, "Invalid end_date")
			return
		}
		filter.EndTime = &t
	}

	orders, err := bots.Orders(c.Request.Context(), userID, filter)
	if err != nil {
		utils.TrackError("bots", "orders_failed")
		utils.InternalError(c, "Failed to fetch bot orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func GetBotPerformanceHandler(c *gin.Context, bots *usecase.BotService) {
	userID := c.GetString("user_id")

	performance, err := bots.Performance(c.Request.Context(), userID, c.Query("bot_id"))
	if err != nil {
		utils.TrackError("bots", "performance_failed")
		utils.InternalError(c, "Failed to fetch bot performance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"bots": performance})
}

// GetBotLogsHandler requires a bot_id; logs are always scoped to one
// bot.
func GetBotLogsHandler(c *gin.Context, bots *usecase.BotService) {
	userID := c.GetString("user_id")

	botID := c.Query("bot_id")
	if botID == "" {
		utils.BadRequest(c, "bot_id is required")
		return
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			utils.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	logs, err := bots.Logs(c.Request.Context(), userID, botID, c.Query("level"), limit)
	if err != nil {
		utils.TrackError("bots", "logs_failed")
		utils.InternalError(c, "Failed to fetch bot logs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
