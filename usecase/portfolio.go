package usecase

import (
	"context"
	"log"
	"sort"

	"main/exchange"
	"main/model"
	"main/utils"
)

// PortfolioService aggregates balances and trade history across every
// active credential. One platform failing must not abort the others,
// so per-key errors are logged and skipped.
type PortfolioService struct {
	Keys     *APIKeyService
	Registry *exchange.Registry
}

type PortfolioBalances struct {
	TotalUSD  float64                 `json:"total_balance_usd"`
	Assets    []model.AssetBalance    `json:"assets"`
	Platforms []model.PlatformBalance `json:"platforms"`
}

func (s *PortfolioService) Balances(ctx context.Context, userID string) (*PortfolioBalances, error) {
	keys, err := s.Keys.ActiveKeys(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrNoAPIKeys
	}

	result := &PortfolioBalances{}
	totals := make(map[string]*model.AssetBalance)

	for i := range keys {
		key := &keys[i]
		balances, err := s.fetchPlatformBalances(ctx, key)
		if err != nil {
			utils.TrackError("portfolio", "balance_fetch_failed")
			log.Printf("Failed to fetch balances for platform %s: %v", key.Platform, err)
			continue
		}

		platform := model.PlatformBalance{Platform: key.Platform, Assets: balances}
		for _, b := range balances {
			platform.TotalUSD += b.USDValue

			if agg, ok := totals[b.Asset]; ok {
				agg.Amount += b.Amount
				agg.USDValue += b.USDValue
			} else {
				copied := b
				totals[b.Asset] = &copied
			}
		}

		result.Platforms = append(result.Platforms, platform)
		result.TotalUSD += platform.TotalUSD
	}

	for _, agg := range totals {
		result.Assets = append(result.Assets, *agg)
	}
	sort.Slice(result.Assets, func(i, j int) bool {
		return result.Assets[i].USDValue > result.Assets[j].USDValue
	})

	return result, nil
}

func (s *PortfolioService) fetchPlatformBalances(ctx context.Context, key *model.APIKey) ([]model.AssetBalance, error) {
	adapter, err := s.Registry.Get(key.Platform)
	if err != nil {
		return nil, err
	}

	creds, err := s.Keys.DecryptForUse(ctx, key)
	if err != nil {
		return nil, err
	}

	return adapter.FetchBalances(ctx, creds)
}

// Transactions merges trade history across platforms, newest first.
// An empty platform filter means all platforms.
func (s *PortfolioService) Transactions(ctx context.Context, userID, platform string, filter model.TradeFilter) ([]model.Trade, error) {
	keys, err := s.Keys.ActiveKeys(ctx, userID)
	if err != nil {
		return nil, err
	}

	var matched []model.APIKey
	for _, key := range keys {
		if platform == "" || key.Platform == platform {
			matched = append(matched, key)
		}
	}
	if len(matched) == 0 {
		return nil, ErrNoAPIKeys
	}

	var trades []model.Trade
	for i := range matched {
		key := &matched[i]

		adapter, err := s.Registry.Get(key.Platform)
		if err != nil {
			utils.TrackError("portfolio", "unsupported_platform")
			log.Printf("No adapter for platform %s, skipping", key.Platform)
			continue
		}

		creds, err := s.Keys.DecryptForUse(ctx, key)
		if err != nil {
			utils.TrackError("portfolio", "credential_decrypt_failed")
			log.Printf("Failed to decrypt credentials for platform %s: %v", key.Platform, err)
			continue
		}

		platformTrades, err := adapter.FetchTrades(ctx, creds, filter)
		if err != nil {
			utils.TrackError("portfolio", "trade_fetch_failed")
			log.Printf("Failed to fetch trades for platform %s: %v", key.Platform, err)
			continue
		}

		trades = append(trades, platformTrades...)
	}

	sort.Slice(trades, func(i, j int) bool {
		return trades[i].Time.After(trades[j].Time)
	})

	return trades, nil
}
