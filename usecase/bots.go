package usecase

import (
	"context"
	"time"

	"main/model"
)

// BotService surfaces order, performance and log data for the user's
// trading bots. The bots themselves run on an external service; until
// its API is wired this serves placeholder data with the real filter
// semantics.
type BotService struct {
	orders      []model.BotOrder
	performance []model.BotPerformance
	logs        map[string][]model.BotLogEntry
}

func NewBotService() *BotService {
	return &BotService{
		orders:      placeholderOrders(),
		performance: placeholderPerformance(),
		logs:        placeholderLogs(),
	}
}

// Orders returns bot orders matching the filter, every field optional.
func (s *BotService) Orders(ctx context.Context, userID string, filter model.BotOrderFilter) ([]model.BotOrder, error) {
	orders := make([]model.BotOrder, 0, len(s.orders))
	for _, order := range s.orders {
		if filter.BotID != "" && order.BotID != filter.BotID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.StartTime != nil && order.CreatedAt.Before(*filter.StartTime) {
			continue
		}
		if filter.EndTime != nil && order.CreatedAt.After(*filter.EndTime) {
			continue
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Performance returns per-bot track records, optionally for one bot.
func (s *BotService) Performance(ctx context.Context, userID, botID string) ([]model.BotPerformance, error) {
	if botID == "" {
		return append([]model.BotPerformance(nil), s.performance...), nil
	}

	var matched []model.BotPerformance
	for _, bot := range s.performance {
		if bot.ID == botID {
			matched = append(matched, bot)
		}
	}
	return matched, nil
}

// Logs returns one bot's most recent log lines. An empty level means
// all levels; limit caps the result.
func (s *BotService) Logs(ctx context.Context, userID, botID, level string, limit int) ([]model.BotLogEntry, error) {
	entries := make([]model.BotLogEntry, 0, limit)
	for _, entry := range s.logs[botID] {
		if level != "" && level != "all" && entry.Level != level {
			continue
		}
		entries = append(entries, entry)
		if len(entries) == limit {
			break
		}
	}
	return entries, nil
}

func floatPtr(v float64) *float64 { return &v }

func placeholderOrders() []model.BotOrder {
	closedAt := time.Date(2025, 5, 23, 14, 30, 5, 0, time.UTC)
	dcaClosedAt := time.Date(2025, 5, 22, 10, 0, 2, 0, time.UTC)

	return []model.BotOrder{
		{
			ID:         "12345",
			BotID:      "btc_grid_bot",
			BotName:    "BTC Grid Trading",
			Exchange:   "binance",
			Symbol:     "BTC/USDT",
			Type:       "limit",
			Side:       "buy",
			Price:      44500,
			Amount:     0.05,
			Status:     "closed",
			Filled:     0.05,
			Cost:       2225,
			Fee:        1.11,
			CreatedAt:  time.Date(2025, 5, 23, 14, 30, 0, 0, time.UTC),
			UpdatedAt:  closedAt,
			ClosedAt:   &closedAt,
			PnL:        floatPtr(25.5),
			PnLPercent: floatPtr(1.15),
		},
		{
			ID:        "12346",
			BotID:     "btc_grid_bot",
			BotName:   "BTC Grid Trading",
			Exchange:  "binance",
			Symbol:    "BTC/USDT",
			Type:      "limit",
			Side:      "sell",
			Price:     45000,
			Amount:    0.05,
			Status:    "open",
			Remaining: 0.05,
			CreatedAt: time.Date(2025, 5, 24, 8, 10, 0, 0, time.UTC),
			UpdatedAt: time.Date(2025, 5, 24, 8, 10, 0, 0, time.UTC),
		},
		{
			ID:         "12347",
			BotID:      "eth_dca_bot",
			BotName:    "ETH DCA Strategy",
			Exchange:   "bitget",
			Symbol:     "ETH/USDT",
			Type:       "market",
			Side:       "buy",
			Price:      3150,
			Amount:     0.5,
			Status:     "closed",
			Filled:     0.5,
			Cost:       1575,
			Fee:        0.79,
			CreatedAt:  time.Date(2025, 5, 22, 10, 0, 0, 0, time.UTC),
			UpdatedAt:  dcaClosedAt,
			ClosedAt:   &dcaClosedAt,
			PnL:        floatPtr(-15.75),
			PnLPercent: floatPtr(-1.0),
		},
	}
}

func placeholderPerformance() []model.BotPerformance {
	return []model.BotPerformance{
		{
			ID:              "btc_grid_bot",
			Name:            "BTC Grid Trading",
			Exchange:        "binance",
			Symbol:          "BTC/USDT",
			Strategy:        "Grid Trading",
			StartDate:       time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			TotalTrades:     42,
			WinRate:         68.5,
			ProfitFactor:    1.8,
			TotalPnL:        1250.75,
			TotalPnLPercent: 12.5,
			DailyPnL: []model.DailyPnL{
				{Date: "2025-05-23", PnL: 45.5, PnLPercent: 0.45},
				{Date: "2025-05-22", PnL: -12.3, PnLPercent: -0.12},
				{Date: "2025-05-21", PnL: 28.7, PnLPercent: 0.29},
			},
		},
		{
			ID:              "eth_dca_bot",
			Name:            "ETH DCA Strategy",
			Exchange:        "bitget",
			Symbol:          "ETH/USDT",
			Strategy:        "Dollar Cost Averaging",
			StartDate:       time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			TotalTrades:     10,
			WinRate:         60.0,
			ProfitFactor:    1.5,
			TotalPnL:        320.45,
			TotalPnLPercent: 8.2,
			DailyPnL: []model.DailyPnL{
				{Date: "2025-05-23", PnL: 0, PnLPercent: 0},
				{Date: "2025-05-22", PnL: -15.75, PnLPercent: -0.4},
				{Date: "2025-05-21", PnL: 0, PnLPercent: 0},
			},
		},
	}
}

func placeholderLogs() map[string][]model.BotLogEntry {
	return map[string][]model.BotLogEntry{
		"btc_grid_bot": {
			{
				Timestamp: time.Date(2025, 5, 24, 8, 10, 0, 0, time.UTC),
				Level:     "info",
				Message:   "Sell order placed: BTC/USDT at 45000 USDT",
			},
			{
				Timestamp: time.Date(2025, 5, 23, 14, 30, 5, 0, time.UTC),
				Level:     "info",
				Message:   "Buy order filled: BTC/USDT at 44500 USDT",
			},
			{
				Timestamp: time.Date(2025, 5, 23, 14, 29, 0, 0, time.UTC),
				Level:     "info",
				Message:   "Buy order placed: BTC/USDT at 44500 USDT",
			},
			{
				Timestamp: time.Date(2025, 5, 23, 12, 0, 0, 0, time.UTC),
				Level:     "warning",
				Message:   "High latency detected on the Binance API",
			},
			{
				Timestamp: time.Date(2025, 5, 22, 18, 45, 30, 0, time.UTC),
				Level:     "error",
				Message:   "Binance API connection failed, retrying in 60 seconds",
			},
		},
	}
}
