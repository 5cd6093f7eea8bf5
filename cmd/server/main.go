package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/steadyvest/steadyvest/internal/api"
	"github.com/steadyvest/steadyvest/internal/logger"
	"github.com/steadyvest/steadyvest/pkg/marketdata"
	"github.com/steadyvest/steadyvest/pkg/marketdata/provider"
	"github.com/steadyvest/steadyvest/pkg/marketdata/writer"
)

const shutdownTimeout = 10 * time.Second

func serverAction(ctx context.Context, cmd *cli.Command) error {
	log, err := logger.NewLogger()
	if err != nil {
		return err
	}

	defer log.Sync()

	fetcher, cleanup, err := buildFetcher(cmd)
	if err != nil {
		return err
	}

	if cleanup != nil {
		defer cleanup()
	}

	server := api.NewServer(api.ServerConfig{
		Address: cmd.String("address"),
		Fetcher: fetcher,
	}, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", zap.Error(err))

			return err
		}

		return nil
	}
}

// buildFetcher assembles the market data client behind the API. The mock
// provider needs no client; backtests then always fall back to mock data.
func buildFetcher(cmd *cli.Command) (api.BarFetcher, func(), error) {
	providerType := provider.ProviderType(cmd.String("provider"))
	if providerType == provider.ProviderMock {
		return nil, nil, nil
	}

	var providerConfig any
	if providerType == provider.ProviderPolygon {
		providerConfig = os.Getenv("POLYGON_API_KEY")
	}

	source, err := provider.NewMarketDataProvider(providerType, providerConfig)
	if err != nil {
		return nil, nil, err
	}

	config := marketdata.ClientConfig{
		Provider: source,
		Cooldown: marketdata.NewCooldownCache(0),
		Retry:    marketdata.DefaultRetryPolicy(),
	}

	var cleanup func()

	if cachePath := cmd.String("cache"); cachePath != "" {
		cache := writer.NewDuckDBBarCache(cachePath)
		if err := cache.Initialize(); err != nil {
			return nil, nil, err
		}

		config.Cache = cache
		cleanup = func() { cache.Close() }
	}

	client, err := marketdata.NewClient(config)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}

		return nil, nil, err
	}

	return client, cleanup, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "server",
		Usage: "Serve the backtest REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Listen address",
				Value:   ":8080",
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
		},
		Action: serverAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
