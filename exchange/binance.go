package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"main/model"
)

const binanceBaseURL = "https://api.binance.com"

// BinanceAdapter talks to the Binance spot API. Requests only carry
// the API key header; HMAC request signing is not implemented.
type BinanceAdapter struct {
	client  *http.Client
	baseURL string
}

func NewBinanceAdapter(client *http.Client) *BinanceAdapter {
	return &BinanceAdapter{client: client, baseURL: binanceBaseURL}
}

func (a *BinanceAdapter) Platform() string { return "binance" }

func (a *BinanceAdapter) get(ctx context.Context, creds Credentials, path string, params url.Values, out interface{}) error {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-MBX-APIKEY", creds.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("binance API returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

type binanceBalance struct {
	Asset  string `json:"asset"`
	Free   string `json:"free"`
	Locked string `json:"locked"`
}

func (a *BinanceAdapter) FetchBalances(ctx context.Context, creds Credentials) ([]model.AssetBalance, error) {
	var account struct {
		Balances []binanceBalance `json:"balances"`
	}
	if err := a.get(ctx, creds, "/api/v3/account", url.Values{}, &account); err != nil {
		return nil, err
	}

	var balances []model.AssetBalance
	for _, b := range account.Balances {
		free, _ := strconv.ParseFloat(b.Free, 64)
		locked, _ := strconv.ParseFloat(b.Locked, 64)
		total := free + locked
		if total <= 0 {
			continue
		}

		balances = append(balances, model.AssetBalance{
			Asset:  b.Asset,
			Amount: total,
			// USD valuation needs a price feed; amount is used as-is
			// until one is wired.
			USDValue: total,
		})
	}

	return balances, nil
}

type binanceTrade struct {
	ID              int64  `json:"id"`
	Symbol          string `json:"symbol"`
	Price           string `json:"price"`
	Qty             string `json:"qty"`
	Commission      string `json:"commission"`
	CommissionAsset string `json:"commissionAsset"`
	Time            int64  `json:"time"`
	IsBuyer         bool   `json:"isBuyer"`
	IsMaker         bool   `json:"isMaker"`
}

func (a *BinanceAdapter) FetchTrades(ctx context.Context, creds Credentials, filter model.TradeFilter) ([]model.Trade, error) {
	params := url.Values{}
	if filter.Symbol != "" {
		params.Set("symbol", filter.Symbol)
	}
	if filter.StartTime != nil {
		params.Set("startTime", strconv.FormatInt(filter.StartTime.UnixMilli(), 10))
	}
	if filter.EndTime != nil {
		params.Set("endTime", strconv.FormatInt(filter.EndTime.UnixMilli(), 10))
	}

	var raw []binanceTrade
	if err := a.get(ctx, creds, "/api/v3/myTrades", params, &raw); err != nil {
		return nil, err
	}

	trades := make([]model.Trade, 0, len(raw))
	for _, t := range raw {
		price, _ := strconv.ParseFloat(t.Price, 64)
		qty, _ := strconv.ParseFloat(t.Qty, 64)
		commission, _ := strconv.ParseFloat(t.Commission, 64)

		trades = append(trades, model.Trade{
			Platform:        a.Platform(),
			TradeID:         strconv.FormatInt(t.ID, 10),
			Symbol:          t.Symbol,
			Price:           price,
			Quantity:        qty,
			Commission:      commission,
			CommissionAsset: t.CommissionAsset,
			Time:            time.UnixMilli(t.Time),
			IsBuyer:         t.IsBuyer,
			IsMaker:         t.IsMaker,
		})
	}

	return trades, nil
}

func (a *BinanceAdapter) ScanOpportunities(ctx context.Context, creds Credentials, scannerType string) ([]model.Opportunity, error) {
	now := time.Now()
	var opportunities []model.Opportunity

	// Placeholder scanner output until real indicator math lands.
	if scannerType == "rsi" || scannerType == "all" {
		opportunities = append(opportunities,
			model.Opportunity{
				Symbol:       "BTC/USDT",
				Name:         "Bitcoin",
				CurrentPrice: 45000,
				Condition:    "RSI oversold",
				ScannerType:  "rsi",
				Timeframe:    "1h",
				Platform:     a.Platform(),
				DetectedAt:   now,
			},
			model.Opportunity{
				Symbol:       "ETH/USDT",
				Name:         "Ethereum",
				CurrentPrice: 3200,
				Condition:    "RSI overbought",
				ScannerType:  "rsi",
				Timeframe:    "1h",
				Platform:     a.Platform(),
				DetectedAt:   now,
			})
	}

	if scannerType == "funding" || scannerType == "all" {
		opportunities = append(opportunities,
			model.Opportunity{
				Symbol:       "BTC/USDT",
				Name:         "Bitcoin",
				CurrentPrice: 45000,
				Condition:    "High negative funding rate",
				ScannerType:  "funding",
				FundingRate:  -0.06,
				Platform:     a.Platform(),
				DetectedAt:   now,
			},
			model.Opportunity{
				Symbol:       "SOL/USDT",
				Name:         "Solana",
				CurrentPrice: 120,
				Condition:    "High positive funding rate",
				ScannerType:  "funding",
				FundingRate:  0.08,
				Platform:     a.Platform(),
				DetectedAt:   now,
			})
	}

	return opportunities, nil
}
