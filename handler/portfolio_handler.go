package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"main/model"
	"main/usecase"
	"main/utils"
)

func GetBalanceHandler(c *gin.Context, portfolio *usecase.PortfolioService) {
	userID := c.GetString("user_id")

	balances, err := portfolio.Balances(c.Request.Context(), userID)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrNoAPIKeys):
		utils.BadRequest(c, "No API keys configured")
		return
	default:
		utils.TrackError("portfolio", "balance_failed")
		utils.InternalError(c, "Failed to fetch balances")
		return
	}

	c.JSON(http.StatusOK, balances)
}

func GetTransactionsHandler(c *gin.Context, portfolio *usecase.PortfolioService) {
	userID := c.GetString("user_id")

	filter := model.TradeFilter{Symbol: c.Query("asset")}
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

	trades, err := portfolio.Transactions(c.Request.Context(), userID, c.Query("platform"), filter)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrNoAPIKeys):
		utils.BadRequest(c, "No API keys configured")
		return
	default:
		utils.TrackError("portfolio", "transactions_failed")
		utils.InternalError(c, "Failed to fetch transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": trades})
}
