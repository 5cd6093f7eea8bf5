// Package provider implements daily-bar sources for the market data client.
package provider

import (
	"context"
	"time"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
	ProviderMock    ProviderType = "mock"
)

// Provider fetches daily bars for one symbol over a closed date range.
// Bars come back in ascending time order.
type Provider interface {
	// Name returns the provider identifier.
	Name() ProviderType
	// FetchDailyBars downloads daily bars for the symbol between startDate
	// and endDate inclusive. The context cancels the download.
	FetchDailyBars(ctx context.Context, symbol string, startDate time.Time, endDate time.Time) ([]types.Bar, error)
}

// NewMarketDataProvider creates a provider from its type tag. The polygon
// provider requires an API key string as config.
func NewMarketDataProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires an API key string config")
		}

		return NewPolygonClient(apiKey)
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
