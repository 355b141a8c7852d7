package model

import "time"

// BotOrder is one order placed by a trading bot, as reported by the
// external bot runner.
type BotOrder struct {
	ID         string     `json:"id"`
	BotID      string     `json:"bot_id"`
	BotName    string     `json:"bot_name"`
	Exchange   string     `json:"exchange"`
	Symbol     string     `json:"symbol"`
	Type       string     `json:"type"`
	Side       string     `json:"side"`
	Price      float64    `json:"price"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status"` // open, closed, canceled, error
	Filled     float64    `json:"filled"`
	Remaining  float64    `json:"remaining"`
	Cost       float64    `json:"cost"`
	Fee        float64    `json:"fee"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ClosedAt   *time.Time `json:"closed_at"`
	PnL        *float64   `json:"pnl"`
	PnLPercent *float64   `json:"pnl_percent"`
}

type BotOrderFilter struct {
	BotID     string
	Status    string
	StartTime *time.Time
	EndTime   *time.Time
}

type DailyPnL struct {
	Date       string  `json:"date"`
	PnL        float64 `json:"pnl"`
	PnLPercent float64 `json:"pnl_percent"`
}

// BotPerformance summarizes one bot's track record.
type BotPerformance struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Exchange        string     `json:"exchange"`
	Symbol          string     `json:"symbol"`
	Strategy        string     `json:"strategy"`
	StartDate       time.Time  `json:"start_date"`
	TotalTrades     int        `json:"total_trades"`
	WinRate         float64    `json:"win_rate"`
	ProfitFactor    float64    `json:"profit_factor"`
	TotalPnL        float64    `json:"total_pnl"`
	TotalPnLPercent float64    `json:"total_pnl_percent"`
	DailyPnL        []DailyPnL `json:"daily_pnl"`
}

type BotLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // info, warning, error
	Message   string    `json:"message"`
}

// EconomicEvent is one macro calendar entry (rate decision, jobs
// report and so on).
type EconomicEvent struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Country    string    `json:"country"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	Importance string    `json:"importance"` // low, medium, high
	Previous   string    `json:"previous"`
	Forecast   string    `json:"forecast"`
	Actual     string    `json:"actual,omitempty"`
}
