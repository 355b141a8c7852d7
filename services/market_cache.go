package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"main/model"
)

// MarketCache keeps scanner results in Redis so repeated dashboard
// polls don't hammer the exchange APIs. A nil cache is valid and
// means every lookup misses.
type MarketCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewMarketCache(redisURL string, ttl time.Duration) (*MarketCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &MarketCache{Client: client, TTL: ttl}, nil
}

func (mc *MarketCache) key(userID, scannerType string) string {
	return "scanner:" + userID + ":" + scannerType
}

func (mc *MarketCache) Get(ctx context.Context, userID, scannerType string) ([]model.Opportunity, bool) {
	if mc == nil || mc.Client == nil {
		return nil, false
	}

	raw, err := mc.Client.Get(ctx, mc.key(userID, scannerType)).Bytes()
	if err != nil {
		return nil, false
	}

	var opportunities []model.Opportunity
	if err := json.Unmarshal(raw, &opportunities); err != nil {
		return nil, false
	}

	return opportunities, true
}

func (mc *MarketCache) Set(ctx context.Context, userID, scannerType string, opportunities []model.Opportunity) {
	if mc == nil || mc.Client == nil {
		return
	}

	raw, err := json.Marshal(opportunities)
	if err != nil {
		return
	}

	// Best effort; a cache write failure never fails the request.
	mc.Client.Set(ctx, mc.key(userID, scannerType), raw, mc.TTL)
}
