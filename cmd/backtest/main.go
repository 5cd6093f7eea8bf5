package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	backtest "github.com/steadyvest/steadyvest/internal/backtest/engine"
	enginev1 "github.com/steadyvest/steadyvest/internal/backtest/engine/engine_v1"
	"github.com/steadyvest/steadyvest/internal/strategy"
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/marketdata"
	"github.com/steadyvest/steadyvest/pkg/marketdata/provider"
	"github.com/steadyvest/steadyvest/pkg/marketdata/writer"
)

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	symbol := cmd.String("symbol")
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")

	params, err := parseParams(cmd.StringSlice("param"))
	if err != nil {
		return err
	}

	strategyType := strategy.StrategyType(cmd.String("strategy"))

	runStrategy, err := strategy.CreateStrategy(strategyType, params)
	if err != nil {
		return err
	}

	series, dataSource, err := fetchSeries(ctx, cmd, symbol, startDate, endDate)
	if err != nil {
		return err
	}

	engine := enginev1.NewBacktestEngineV1()

	configYAML := fmt.Sprintf(
		"schema_version: %q\ninitial_cash: %f\ncontribution_amount: %f\nfrequency: %s\ncommission_rate: %f\n",
		enginev1.ConfigSchemaVersion,
		cmd.Float("initial-cash"),
		cmd.Float("contribution"),
		cmd.String("frequency"),
		cmd.Float("commission"),
	)
	if err := engine.Initialize(configYAML); err != nil {
		return err
	}

	if err := engine.SetSeries(series); err != nil {
		return err
	}

	if err := engine.SetDataSource(dataSource); err != nil {
		return err
	}

	if err := engine.LoadStrategy(runStrategy); err != nil {
		return err
	}

	// Every run is compared against a periodic-only baseline, unless the
	// chosen strategy already is that baseline.
	if strategyType != strategy.StrategyTypeDCA {
		baseline, err := strategy.NewDCAStrategy(strategy.DCAParams{})
		if err != nil {
			return err
		}

		if err := engine.LoadStrategy(baseline); err != nil {
			return err
		}
	}

	if folder := cmd.String("results"); folder != "" {
		if err := engine.SetResultsFolder(folder); err != nil {
			return err
		}
	}

	bar := progressbar.NewOptions(series.Len(),
		progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s", symbol)),
		progressbar.OptionShowCount(),
	)

	onProgress := backtest.OnProcessBarCallback(func(current, total int) error {
		return bar.Set(current)
	})

	results, err := engine.Run(ctx, optional.Some(onProgress))
	if err != nil {
		return err
	}

	if err := bar.Finish(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(renderResults(results))

	return nil
}

// fetchSeries pulls bars through the market data client and falls back to
// the deterministic mock generator when the provider fails.
func fetchSeries(ctx context.Context, cmd *cli.Command, symbol string, startDate, endDate time.Time) (*types.BarSeries, types.DataSource, error) {
	providerType := provider.ProviderType(cmd.String("provider"))

	var providerConfig any
	if providerType == provider.ProviderPolygon {
		providerConfig = os.Getenv("POLYGON_API_KEY")
	}

	source, err := provider.NewMarketDataProvider(providerType, providerConfig)
	if err != nil {
		return nil, "", err
	}

	clientConfig := marketdata.ClientConfig{
		Provider: source,
		Cooldown: marketdata.NewCooldownCache(0),
		Retry:    marketdata.DefaultRetryPolicy(),
	}

	if cachePath := cmd.String("cache"); cachePath != "" {
		cache := writer.NewDuckDBBarCache(cachePath)
		if err := cache.Initialize(); err != nil {
			return nil, "", err
		}

		defer cache.Close()

		clientConfig.Cache = cache
	}

	client, err := marketdata.NewClient(clientConfig)
	if err != nil {
		return nil, "", err
	}

	fetchParams := marketdata.FetchParams{
		Symbol:    symbol,
		StartDate: startDate,
		EndDate:   endDate,
	}

	series, err := client.FetchBars(ctx, fetchParams)
	if err == nil {
		dataSource := types.DataSourceReal
		if providerType == provider.ProviderMock {
			dataSource = types.DataSourceMock
		}

		return series, dataSource, nil
	}

	if providerType == provider.ProviderMock {
		return nil, "", err
	}

	log.Printf("Warning: could not fetch real data for %s: %v", symbol, err)
	log.Println("Using mock data instead.")

	bars, mockErr := provider.NewMockProvider().FetchDailyBars(ctx, symbol, startDate, endDate)
	if mockErr != nil {
		return nil, "", mockErr
	}

	return &types.BarSeries{Symbol: symbol, Bars: bars}, types.DataSourceMock, nil
}

// parseParams turns repeated key=value flags into a parameter map.
func parseParams(raw []string) (map[string]float64, error) {
	params := make(map[string]float64, len(raw))

	for _, pair := range raw {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}

		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for parameter %q: %w", key, err)
		}

		params[key] = parsed
	}

	return params, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run a periodic-investment strategy backtest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol to backtest",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "start",
				Aliases:  []string{"s"},
				Usage:    "Start date in `YYYY-MM-DD` format",
				Required: true,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:  "strategy",
				Usage: "Strategy variant (rsi, moving_average, bollinger_bands, dca)",
				Value: string(strategy.StrategyTypeDCA),
			},
			&cli.StringSliceFlag{
				Name:  "param",
				Usage: "Strategy parameter as key=value, repeatable (e.g. --param period=14)",
			},
			&cli.FloatFlag{
				Name:  "initial-cash",
				Usage: "Lump sum available before the first bar",
				Value: 10000,
			},
			&cli.FloatFlag{
				Name:  "contribution",
				Usage: "Amount contributed once per funding period",
				Value: 500,
			},
			&cli.StringFlag{
				Name:  "frequency",
				Usage: "Funding cadence (weekly, monthly, quarterly, yearly)",
				Value: string(types.FrequencyMonthly),
			},
			&cli.FloatFlag{
				Name:  "commission",
				Usage: "Proportional commission rate on trade notional",
				Value: enginev1.DefaultCommissionRate,
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Data provider (polygon, binance, mock)",
				Value:   string(provider.ProviderMock),
			},
			&cli.StringFlag{
				Name:  "cache",
				Usage: "Path to the DuckDB bar cache. Empty disables caching.",
			},
			&cli.StringFlag{
				Name:  "results",
				Usage: "Folder for YAML run reports. Empty disables report files.",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
