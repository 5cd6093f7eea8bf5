package engine

import (
	"context"

	"github.com/moznion/go-optional"

	"github.com/steadyvest/steadyvest/internal/strategy"
	"github.com/steadyvest/steadyvest/internal/types"
)

// OnProcessBarCallback is called for each bar processed during a run.
// Returning an error aborts the backtest.
type OnProcessBarCallback func(current int, total int) error

// RunResult is the output of one strategy run: the summary metrics plus the
// raw equity curve and fill log for charting and inspection.
type RunResult struct {
	Report      types.PerformanceReport `yaml:"report" json:"report"`
	EquityCurve types.EquityCurve       `yaml:"equity_curve" json:"equity_curve"`
	Fills       []types.Fill            `yaml:"fills" json:"fills"`
}

// Engine drives bar-by-bar backtest simulations of periodic-investment
// strategies over a single daily price series.
type Engine interface {
	// Initialize the engine with the given YAML configuration.
	Initialize(config string) error
	// SetSeries sets the price series to simulate against. The series is
	// treated as immutable for the duration of the run.
	SetSeries(series *types.BarSeries) error
	// LoadStrategy loads a strategy. Can be called multiple times; Run
	// executes each loaded strategy independently against its own
	// portfolio state.
	LoadStrategy(s strategy.Strategy) error
	// SetResultsFolder sets an optional output directory for run reports.
	SetResultsFolder(folder string) error
	// SetDataSource records whether the loaded series came from a real
	// provider or the deterministic mock. Defaults to real.
	SetDataSource(source types.DataSource) error
	// Run executes every loaded strategy and returns one result per
	// strategy, in load order. The context cancels a run between bars.
	Run(ctx context.Context, onProcessBar optional.Option[OnProcessBarCallback]) ([]RunResult, error)
	// GetConfigSchema returns the JSON schema of the engine configuration.
	GetConfigSchema() (string, error)
}
