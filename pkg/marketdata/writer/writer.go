// Package writer persists fetched bar series as immutable snapshots keyed
// by symbol and date range, so repeat backtests skip the provider.
package writer

import (
	"context"
	"time"

	"github.com/steadyvest/steadyvest/internal/types"
)

// BarCache stores and loads bar-series snapshots. A snapshot is the exact
// series fetched for one (symbol, start, end) request; partial overlaps
// are not stitched together.
type BarCache interface {
	// Initialize sets up the backing store.
	Initialize() error
	// SaveSeries stores the series under its request range, replacing any
	// previous snapshot for the same key.
	SaveSeries(ctx context.Context, series *types.BarSeries, startDate time.Time, endDate time.Time) error
	// LoadSeries returns the snapshot for the key, and whether one exists.
	LoadSeries(ctx context.Context, symbol string, startDate time.Time, endDate time.Time) (*types.BarSeries, bool, error)
	// Close releases the backing store.
	Close() error
}
