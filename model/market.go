package model

import "time"

// AssetBalance is one asset position on one platform, valued in USD.
type AssetBalance struct {
	Asset    string  `json:"asset"`
	Amount   float64 `json:"amount"`
	USDValue float64 `json:"usd_value"`
}

type PlatformBalance struct {
	Platform string         `json:"platform"`
	TotalUSD float64        `json:"total_usd"`
	Assets   []AssetBalance `json:"assets"`
}

type Trade struct {
	Platform        string    `json:"platform"`
	TradeID         string    `json:"id"`
	Symbol          string    `json:"symbol"`
	Price           float64   `json:"price"`
	Quantity        float64   `json:"quantity"`
	Commission      float64   `json:"commission"`
	CommissionAsset string    `json:"commission_asset"`
	Time            time.Time `json:"time"`
	IsBuyer         bool      `json:"is_buyer"`
	IsMaker         bool      `json:"is_maker"`
}

type TradeFilter struct {
	Symbol    string
	StartTime *time.Time
	EndTime   *time.Time
}

// Opportunity is a market-scanner hit (oversold RSI, extreme funding
// rate and so on) surfaced per platform.
type Opportunity struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	CurrentPrice float64   `json:"current_price"`
	Condition    string    `json:"condition"`
	ScannerType  string    `json:"scanner_type"`
	Timeframe    string    `json:"timeframe,omitempty"`
	FundingRate  float64   `json:"funding_rate,omitempty"`
	Platform     string    `json:"platform"`
	DetectedAt   time.Time `json:"detected_at"`
}
