package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"main/usecase"
	"main/utils"
)

func GetOpportunitiesHandler(c *gin.Context, market *usecase.MarketService) {
	userID := c.GetString("user_id")

	opportunities, err := market.Opportunities(c.Request.Context(), userID, c.Query("type"))
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrNoAPIKeys):
		utils.BadRequest(c, "No API keys configured")
		return
	default:
		utils.TrackError("market", "scan_failed")
		utils.InternalError(c, "Failed to scan for opportunities")
		return
	}

	c.JSON(http.StatusOK, gin.H{"opportunities": opportunities})
}

// GetEconomicCalendarHandler serves macro events. The countries query
// parameter is a comma-separated list of codes, or "all".
func GetEconomicCalendarHandler(c *gin.Context, market *usecase.MarketService) {
	var countries []string
	if v := c.Query("countries"); v != "" && v != "all" {
		countries = strings.Split(v, ",")
	}

	events, err := market.EconomicCalendar(c.Request.Context(), c.Query("importance"), countries)
	if err != nil {
		utils.TrackError("market", "calendar_failed")
		utils.InternalError(c, "Failed to fetch the economic calendar")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
