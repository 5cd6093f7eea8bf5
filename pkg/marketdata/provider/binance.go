package provider

import (
	"context"
	goerrors "errors"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// binancePageSize is the kline limit per request enforced by the API.
const binancePageSize = 500

// binanceTooManyRequests is the API error code for exceeded request rate.
const binanceTooManyRequests = -1003

type BinanceClient struct {
	client *binance.Client
}

func NewBinanceClient() (Provider, error) {
	// Public kline endpoints need no credentials.
	return &BinanceClient{
		client: binance.NewClient("", ""),
	}, nil
}

// Name implements Provider.
func (c *BinanceClient) Name() ProviderType {
	return ProviderBinance
}

// FetchDailyBars implements Provider using paginated daily klines.
func (c *BinanceClient) FetchDailyBars(ctx context.Context, symbol string, startDate time.Time, endDate time.Time) ([]types.Bar, error) {
	var bars []types.Bar

	currentStart := startDate.UnixMilli()
	endMillis := endDate.UnixMilli()

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(symbol).
			Interval("1d").
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binancePageSize).
			Do(ctx)
		if err != nil {
			return nil, mapBinanceError(symbol, err)
		}

		for _, kline := range klines {
			bar, err := klineToBar(symbol, kline)
			if err != nil {
				return nil, err
			}

			bars = append(bars, bar)
		}

		if len(klines) < binancePageSize {
			break
		}

		// Next page starts one interval past the last kline received.
		currentStart = klines[len(klines)-1].CloseTime + 1
	}

	return bars, nil
}

func klineToBar(symbol string, kline *binance.Kline) (types.Bar, error) {
	open, err := strconv.ParseFloat(kline.Open, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse open price %q", kline.Open)
	}

	high, err := strconv.ParseFloat(kline.High, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse high price %q", kline.High)
	}

	low, err := strconv.ParseFloat(kline.Low, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse low price %q", kline.Low)
	}

	closePrice, err := strconv.ParseFloat(kline.Close, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse close price %q", kline.Close)
	}

	volume, err := strconv.ParseFloat(kline.Volume, 64)
	if err != nil {
		return types.Bar{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse volume %q", kline.Volume)
	}

	return types.Bar{
		Time:   time.UnixMilli(kline.OpenTime).UTC(),
		Symbol: symbol,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: int64(volume),
	}, nil
}

func mapBinanceError(symbol string, err error) error {
	var apiErr *common.APIError
	if goerrors.As(err, &apiErr) && apiErr.Code == binanceTooManyRequests {
		return errors.Wrapf(errors.ErrCodeRateLimited, err, "binance rate limited fetching %s", symbol)
	}

	return errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s from binance", symbol)
}
