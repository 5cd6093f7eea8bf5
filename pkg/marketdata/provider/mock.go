package provider

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// etfSymbols get mid-range base prices and volatility, matching the
// profiles of broad-market funds.
var etfSymbols = map[string]bool{
	"SPY": true,
	"QQQ": true,
	"IWM": true,
	"VTI": true,
	"VOO": true,
}

// MockProvider generates a deterministic geometric random walk of daily
// bars on business days. The same symbol and date range always yield the
// same series, so backtests against mock data are reproducible.
type MockProvider struct{}

func NewMockProvider() Provider {
	return &MockProvider{}
}

// Name implements Provider.
func (p *MockProvider) Name() ProviderType {
	return ProviderMock
}

// FetchDailyBars implements Provider. It never fails except on a canceled
// context.
func (p *MockProvider) FetchDailyBars(ctx context.Context, symbol string, startDate time.Time, endDate time.Time) ([]types.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "mock fetch canceled", err)
	}

	basePrice, volatility := symbolProfile(symbol)
	minPrice := basePrice * 0.1

	rng := rand.New(rand.NewSource(symbolSeed(symbol)))

	var bars []types.Bar

	price := basePrice

	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		if len(bars) > 0 {
			// Slight positive drift over the base volatility.
			ret := rng.NormFloat64()*volatility + 0.0005

			price *= 1 + ret
			if price < minPrice {
				price = minPrice
			}
		}

		high := price * (1 + absNorm(rng, 0.008))
		low := price * (1 - absNorm(rng, 0.008))

		if low > price {
			low = price
		}

		if high < price {
			high = price
		}

		open := price
		if open > high {
			open = high
		}

		if open < low {
			open = low
		}

		bars = append(bars, types.Bar{
			Time:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Symbol: symbol,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 1_000_000 + rng.Int63n(9_000_000),
		})
	}

	return bars, nil
}

// symbolProfile assigns a base price and daily volatility class: indices
// are big and calm, ETFs mid-range, individual stocks smaller and choppier.
func symbolProfile(symbol string) (basePrice, volatility float64) {
	switch {
	case len(symbol) > 0 && symbol[0] == '^':
		return 1000.0, 0.015
	case etfSymbols[symbol]:
		return 100.0, 0.02
	default:
		return 50.0, 0.025
	}
}

func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))

	return int64(h.Sum64())
}

func absNorm(rng *rand.Rand, stddev float64) float64 {
	v := rng.NormFloat64() * stddev
	if v < 0 {
		return -v
	}

	return v
}
