package usecase

import (
	"context"
	"log"
	"time"

	"main/exchange"
	"main/model"
	"main/services"
	"main/utils"
)

// MarketService runs the opportunity scanner across the user's active
// platforms, with a short-TTL Redis cache in front of the exchange
// calls.
type MarketService struct {
	Keys     *APIKeyService
	Registry *exchange.Registry
	Cache    *services.MarketCache
}

// Opportunities returns scanner hits for the requested type ("rsi",
// "funding", "volume" or "all").
func (s *MarketService) Opportunities(ctx context.Context, userID, scannerType string) ([]model.Opportunity, error) {
	if scannerType == "" {
		scannerType = "all"
	}

	if cached, ok := s.Cache.Get(ctx, userID, scannerType); ok {
		return cached, nil
	}

	keys, err := s.Keys.ActiveKeys(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, ErrNoAPIKeys
	}

	var opportunities []model.Opportunity
	for i := range keys {
		key := &keys[i]

		adapter, err := s.Registry.Get(key.Platform)
		if err != nil {
			utils.TrackError("market", "unsupported_platform")
			log.Printf("No adapter for platform %s, skipping", key.Platform)
			continue
		}

		creds, err := s.Keys.DecryptForUse(ctx, key)
		if err != nil {
			utils.TrackError("market", "credential_decrypt_failed")
			log.Printf("Failed to decrypt credentials for platform %s: %v", key.Platform, err)
			continue
		}

		hits, err := adapter.ScanOpportunities(ctx, creds, scannerType)
		if err != nil {
			utils.TrackError("market", "scan_failed")
			log.Printf("Scanner failed for platform %s: %v", key.Platform, err)
			continue
		}

		opportunities = append(opportunities, hits...)
	}

	s.Cache.Set(ctx, userID, scannerType, opportunities)
	return opportunities, nil
}

// EconomicCalendar returns upcoming macro events, filtered by
// importance and country codes. An empty or "all" filter matches
// everything. Placeholder events until a calendar provider is wired.
func (s *MarketService) EconomicCalendar(ctx context.Context, importance string, countries []string) ([]model.EconomicEvent, error) {
	now := time.Now()
	events := []model.EconomicEvent{
		{
			ID:         1,
			Title:      "US unemployment rate release",
			Country:    "US",
			Date:       now.AddDate(0, 0, 2),
			Time:       "12:30:00",
			Importance: "high",
			Previous:   "3.8%",
			Forecast:   "3.7%",
		},
		{
			ID:         2,
			Title:      "ECB rate decision",
			Country:    "EU",
			Date:       now.AddDate(0, 0, 3),
			Time:       "13:45:00",
			Importance: "high",
			Previous:   "4.25%",
			Forecast:   "4.25%",
		},
		{
			ID:         3,
			Title:      "Japan Q1 GDP",
			Country:    "JP",
			Date:       now.AddDate(0, 0, 5),
			Time:       "00:50:00",
			Importance: "medium",
			Previous:   "0.1%",
			Forecast:   "0.2%",
		},
	}

	matched := make([]model.EconomicEvent, 0, len(events))
	for _, event := range events {
		if importance != "" && importance != "all" && event.Importance != importance {
			continue
		}
		if len(countries) > 0 && !containsString(countries, event.Country) {
			continue
		}
		matched = append(matched, event)
	}
	return matched, nil
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
