package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/steadyvest/steadyvest/pkg/marketdata"
	"github.com/steadyvest/steadyvest/pkg/marketdata/provider"
	"github.com/steadyvest/steadyvest/pkg/marketdata/writer"
)

// downloadAction fetches daily bars through the market data client and
// stores the snapshot in the DuckDB bar cache.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	symbol := cmd.String("symbol")
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")
	providerType := provider.ProviderType(cmd.String("provider"))

	var providerConfig any
	if providerType == provider.ProviderPolygon {
		providerConfig = os.Getenv("POLYGON_API_KEY")
	}

	source, err := provider.NewMarketDataProvider(providerType, providerConfig)
	if err != nil {
		return err
	}

	cache := writer.NewDuckDBBarCache(cmd.String("data"))
	if err := cache.Initialize(); err != nil {
		return err
	}

	defer cache.Close()

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		Provider: source,
		Cooldown: marketdata.NewCooldownCache(0),
		Cache:    cache,
		Retry:    marketdata.DefaultRetryPolicy(),
	})
	if err != nil {
		return err
	}

	log.Printf("Downloading %s from %s to %s via %s...",
		symbol, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"), providerType)

	series, err := client.FetchBars(ctx, marketdata.FetchParams{
		Symbol:    symbol,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return err
	}

	first := series.Bars[0].Time.Format("2006-01-02")
	last := series.Bars[len(series.Bars)-1].Time.Format("2006-01-02")

	fmt.Printf("Cached %d bars for %s (%s to %s) in %s\n",
		series.Len(), symbol, first, last, cmd.String("data"))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download and cache historical daily bars",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"t"},
				Usage:    "Ticker symbol to download",
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
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Data provider (polygon, binance, mock)",
				Value:   string(provider.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the DuckDB bar cache file",
				Value:   "data/bars.duckdb",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
