// Package marketdata fetches, validates and caches the daily bar series
// backtests run against.
package marketdata

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
	"github.com/steadyvest/steadyvest/pkg/marketdata/provider"
	"github.com/steadyvest/steadyvest/pkg/marketdata/writer"
)

// MinBars is the minimum number of usable bars a fetch must produce.
const MinBars = 10

// earliestStart is the floor for requested date ranges.
var earliestStart = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// ClientConfig wires a client's collaborators. Cooldown and Cache are
// optional; a nil Cooldown disables rate-limit tracking and a nil Cache
// always fetches from the provider.
type ClientConfig struct {
	Provider provider.Provider `validate:"required"`
	Cooldown *CooldownCache
	Cache    writer.BarCache
	Retry    RetryPolicy
}

// FetchParams describes one bar-series request.
type FetchParams struct {
	Symbol    string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// Client downloads daily bars through a provider, guarded by the retry
// policy and the rate-limit cooldown, and keeps snapshots in the cache.
type Client struct {
	config   ClientConfig
	validate *validator.Validate
	now      func() time.Time
}

// NewClient creates a market data client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid market data client configuration", err)
	}

	if config.Retry == (RetryPolicy{}) {
		config.Retry = DefaultRetryPolicy()
	}

	return &Client{
		config:   config,
		validate: validate,
		now:      time.Now,
	}, nil
}

// FetchBars returns the cleaned daily series for the request. Cache hits
// bypass the provider entirely.
func (c *Client) FetchBars(ctx context.Context, params FetchParams) (*types.BarSeries, error) {
	if err := c.validateParams(params); err != nil {
		return nil, err
	}

	if c.config.Cache != nil {
		series, ok, err := c.config.Cache.LoadSeries(ctx, params.Symbol, params.StartDate, params.EndDate)
		if err != nil {
			return nil, err
		}

		if ok {
			return series, nil
		}
	}

	if c.config.Cooldown != nil && c.config.Cooldown.InCooldown(params.Symbol) {
		return nil, errors.Newf(errors.ErrCodeRateLimited,
			"%s is rate limited, retry in %s", params.Symbol, c.config.Cooldown.Remaining(params.Symbol).Round(time.Second))
	}

	var bars []types.Bar

	fetchErr := c.config.Retry.Execute(ctx, func() error {
		var err error
		bars, err = c.config.Provider.FetchDailyBars(ctx, params.Symbol, params.StartDate, params.EndDate)

		return err
	})
	if fetchErr != nil {
		if errors.HasCode(fetchErr, errors.ErrCodeRateLimited) && c.config.Cooldown != nil {
			c.config.Cooldown.MarkRateLimited(params.Symbol)
		}

		return nil, fetchErr
	}

	series, err := c.cleanBars(params, bars)
	if err != nil {
		return nil, err
	}

	if c.config.Cache != nil {
		if err := c.config.Cache.SaveSeries(ctx, series, params.StartDate, params.EndDate); err != nil {
			return nil, err
		}
	}

	return series, nil
}

func (c *Client) validateParams(params FetchParams) error {
	if err := c.validate.Struct(params); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDateRange, "invalid fetch parameters", err)
	}

	if params.StartDate.Before(earliestStart) {
		return errors.Newf(errors.ErrCodeInvalidDateRange, "start date cannot be before %s", earliestStart.Format("2006-01-02"))
	}

	if params.EndDate.After(c.now()) {
		return errors.New(errors.ErrCodeInvalidDateRange, "end date cannot be in the future")
	}

	return nil
}

// cleanBars drops unusable rows and enforces the minimum series length.
func (c *Client) cleanBars(params FetchParams, bars []types.Bar) (*types.BarSeries, error) {
	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeNoDataFound, "no data found for %s between %s and %s",
			params.Symbol, params.StartDate.Format("2006-01-02"), params.EndDate.Format("2006-01-02"))
	}

	cleaned := make([]types.Bar, 0, len(bars))

	for _, bar := range bars {
		if bar.Close <= 0 {
			continue
		}

		cleaned = append(cleaned, bar)
	}

	if len(cleaned) < MinBars {
		return nil, errors.NewInsufficientDataErrorf(MinBars, len(cleaned), params.Symbol,
			"insufficient data for %s after cleaning: %d bars", params.Symbol, len(cleaned))
	}

	series := &types.BarSeries{
		Symbol: params.Symbol,
		Bars:   cleaned,
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	return series, nil
}
