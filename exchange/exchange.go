// Package exchange adapts per-platform trading APIs behind a single
// interface so nothing outside it ever branches on a platform name.
package exchange

import (
	"context"
	"errors"
	"net/http"
	"time"

	"main/model"
)

// Credentials is decrypted key material handed to an adapter for one
// call. It is never persisted or serialized.
type Credentials struct {
	APIKey     string
	APISecret  string
	Passphrase string
}

type Adapter interface {
	Platform() string
	FetchBalances(ctx context.Context, creds Credentials) ([]model.AssetBalance, error)
	FetchTrades(ctx context.Context, creds Credentials, filter model.TradeFilter) ([]model.Trade, error)
	ScanOpportunities(ctx context.Context, creds Credentials, scannerType string) ([]model.Opportunity, error)
}

var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Registry maps platform identifiers to adapters.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

// DefaultRegistry wires every supported platform with a shared HTTP
// client.
func DefaultRegistry() *Registry {
	client := &http.Client{Timeout: 10 * time.Second}
	return NewRegistry(
		NewBinanceAdapter(client),
		NewBitgetAdapter(client),
	)
}

func (r *Registry) Get(platform string) (Adapter, error) {
	adapter, ok := r.adapters[platform]
	if !ok {
		return nil, ErrUnsupportedPlatform
	}
	return adapter, nil
}

func (r *Registry) Platforms() []string {
	platforms := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		platforms = append(platforms, name)
	}
	return platforms
}
