package provider

import (
	"context"
	goerrors "errors"
	"net/http"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

type PolygonClient struct {
	client *polygon.Client
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon API key is required")
	}

	return &PolygonClient{
		client: polygon.New(apiKey),
	}, nil
}

// Name implements Provider.
func (c *PolygonClient) Name() ProviderType {
	return ProviderPolygon
}

// FetchDailyBars implements Provider using the daily aggregates endpoint.
func (c *PolygonClient) FetchDailyBars(ctx context.Context, symbol string, startDate time.Time, endDate time.Time) ([]types.Bar, error) {
	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	var bars []types.Bar

	iter := c.client.ListAggs(ctx, params)
	for iter.Next() {
		agg := iter.Item()

		bars = append(bars, types.Bar{
			Time:   time.Time(agg.Timestamp).UTC(),
			Symbol: symbol,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: int64(agg.Volume),
		})
	}

	if err := iter.Err(); err != nil {
		return nil, mapPolygonError(symbol, err)
	}

	return bars, nil
}

func mapPolygonError(symbol string, err error) error {
	var response *models.ErrorResponse
	if goerrors.As(err, &response) && response.StatusCode == http.StatusTooManyRequests {
		return errors.Wrapf(errors.ErrCodeRateLimited, err, "polygon rate limited fetching %s", symbol)
	}

	return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s from polygon", symbol)
}
