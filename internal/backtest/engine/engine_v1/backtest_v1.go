package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/steadyvest/steadyvest/internal/analyzer"
	backtest "github.com/steadyvest/steadyvest/internal/backtest/engine"
	"github.com/steadyvest/steadyvest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/steadyvest/steadyvest/internal/logger"
	"github.com/steadyvest/steadyvest/internal/strategy"
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/internal/version"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// BacktestEngineV1 simulates periodic-investment strategies bar by bar
// against a single daily series. Each loaded strategy runs against its own
// portfolio, so results are directly comparable.
type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	strategies    []strategy.Strategy
	series        *types.BarSeries
	resultsFolder string
	dataSource    types.DataSource
	log           *logger.Logger
	state         *BacktestState
}

func NewBacktestEngineV1() backtest.Engine {
	return &BacktestEngineV1{
		config:        EmptyConfig(),
		strategies:    nil,
		series:        nil,
		resultsFolder: "",
		dataSource:    types.DataSourceReal,
		log:           nil,
		state:         nil,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if b.config.SchemaVersion == "" {
		b.config.SchemaVersion = ConfigSchemaVersion
	}

	if err := version.CheckSchemaCompatibility(ConfigSchemaVersion, b.config.SchemaVersion); err != nil {
		return err
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to create logger", err)
	}

	b.log = log
	b.log.Debug("backtest engine initialized",
		zap.String("frequency", string(b.config.Frequency)),
		zap.Float64("initial_cash", b.config.InitialCash),
		zap.Float64("contribution_amount", b.config.ContributionAmount),
	)

	var commission commission_fee.CommissionFee
	if b.config.CommissionRate > 0 {
		commission = commission_fee.NewProportionalCommissionFee(b.config.CommissionRate)
	} else {
		commission = commission_fee.NewZeroCommissionFee()
	}

	b.state = NewBacktestState(b.log, commission, b.config.InitialCash)

	return nil
}

// SetSeries implements engine.Engine.
func (b *BacktestEngineV1) SetSeries(series *types.BarSeries) error {
	if series == nil || series.Len() == 0 {
		return errors.New(errors.ErrCodeBacktestNoSeries, "bar series is empty")
	}

	if err := series.Validate(); err != nil {
		return err
	}

	b.series = series

	return nil
}

// LoadStrategy implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategy(s strategy.Strategy) error {
	if s == nil {
		return errors.New(errors.ErrCodeBacktestNoStrategy, "strategy is nil")
	}

	b.strategies = append(b.strategies, s)

	if b.log != nil {
		b.log.Debug("strategy loaded",
			zap.String("strategy", string(s.Type())),
			zap.Int("total_strategies", len(b.strategies)),
		)
	}

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(source types.DataSource) error {
	b.dataSource = source

	return nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, onProcessBar optional.Option[backtest.OnProcessBarCallback]) ([]backtest.RunResult, error) {
	if err := b.preRunCheck(); err != nil {
		return nil, err
	}

	window, err := b.clipSeries()
	if err != nil {
		return nil, err
	}

	results := make([]backtest.RunResult, 0, len(b.strategies))

	for _, s := range b.strategies {
		result, err := b.runStrategy(ctx, s, window, onProcessBar)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
	}

	return results, nil
}

// runStrategy executes one strategy over the window against a fresh
// portfolio. Each bar follows the same order: fund, sell, buy, mark
// equity, so cash freed by a sell is eligible for the same bar's buy.
func (b *BacktestEngineV1) runStrategy(ctx context.Context, s strategy.Strategy, window *types.BarSeries, onProcessBar optional.Option[backtest.OnProcessBarCallback]) (backtest.RunResult, error) {
	b.state.Reset(b.config.InitialCash)

	scheduler := NewFundingScheduler(b.config.Frequency, b.config.ContributionAmount, b.config.ValidateTradingDays)
	total := window.Len()

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return backtest.RunResult{}, errors.Wrap(errors.ErrCodeBacktestNotRun, "backtest canceled", err)
		}

		bar := window.Bars[i]

		if scheduler.Advance(bar.Time) {
			b.state.Contribute(scheduler.Amount())
		}

		strategyCtx := strategy.Context{
			Series:     window,
			Index:      i,
			SharesHeld: b.state.Portfolio().SharesHeld,
		}

		sellSignal := b.resolveSignal(s.SellSignal(strategyCtx))
		if sellSignal.Type == types.SignalTypeSell {
			if _, err := b.state.ExecuteSell(bar, 1.0, sellSignal.Reason); err != nil {
				return backtest.RunResult{}, err
			}

			// The position changed; later signal checks on this bar see
			// the updated holdings.
			strategyCtx.SharesHeld = b.state.Portfolio().SharesHeld
		}

		buySignal := b.resolveSignal(s.BuySignal(strategyCtx))
		if buySignal.Type == types.SignalTypeBuy {
			if _, err := b.state.ExecuteBuy(bar, buySignal.Reason); err != nil {
				return backtest.RunResult{}, err
			}
		}

		b.state.AppendEquity(bar)

		if onProcessBar.IsSome() {
			if err := onProcessBar.Unwrap()(i+1, total); err != nil {
				return backtest.RunResult{}, err
			}
		}
	}

	report := analyzer.Analyze(analyzer.Input{
		Symbol:      window.Symbol,
		Strategy:    string(s.Type()),
		DataSource:  b.dataSource,
		InitialCash: b.config.InitialCash,
		Portfolio:   b.state.Portfolio(),
		EquityCurve: b.state.EquityCurve(),
		Fills:       b.state.Fills(),
	})
	report.ID = uuid.New().String()
	report.Timestamp = time.Now().UTC()

	if b.resultsFolder != "" {
		if err := b.writeResults(s, report); err != nil {
			return backtest.RunResult{}, err
		}
	}

	b.log.Info("backtest run finished",
		zap.String("strategy", string(s.Type())),
		zap.String("symbol", window.Symbol),
		zap.Float64("final_value", report.FinalValue),
		zap.Float64("total_return_pct", report.TotalReturnPct),
		zap.Int("total_trades", report.TotalTrades),
	)

	return backtest.RunResult{
		Report:      report,
		EquityCurve: b.state.EquityCurve(),
		Fills:       b.state.Fills(),
	}, nil
}

// resolveSignal maps a strategy error to "no signal". Warm-up errors are
// expected and logged at debug; anything else is surfaced as a warning but
// still does not fail the run.
func (b *BacktestEngineV1) resolveSignal(signal types.Signal, err error) types.Signal {
	if err == nil {
		return signal
	}

	if errors.IsInsufficientDataError(err) {
		b.log.Debug("indicator warming up", zap.Error(err))
	} else {
		b.log.Warn("signal evaluation failed", zap.Error(err))
	}

	signal.Type = types.SignalTypeNoAction

	return signal
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return strategy.ToJSONSchema(BacktestEngineV1Config{})
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.state == nil {
		return errors.New(errors.ErrCodeBacktestNotRun, "engine is not initialized")
	}

	if b.series == nil {
		return errors.New(errors.ErrCodeBacktestNoSeries, "no bar series set")
	}

	if len(b.strategies) == 0 {
		return errors.New(errors.ErrCodeBacktestNoStrategy, "no strategy loaded")
	}

	return nil
}

// clipSeries bounds the series by the configured start and end times.
func (b *BacktestEngineV1) clipSeries() (*types.BarSeries, error) {
	bars := b.series.Bars

	if b.config.StartTime.IsSome() {
		start := b.config.StartTime.Unwrap()
		for len(bars) > 0 && bars[0].Time.Before(start) {
			bars = bars[1:]
		}
	}

	if b.config.EndTime.IsSome() {
		end := b.config.EndTime.Unwrap()
		for len(bars) > 0 && bars[len(bars)-1].Time.After(end) {
			bars = bars[:len(bars)-1]
		}
	}

	if len(bars) == 0 {
		return nil, errors.New(errors.ErrCodeBacktestNoSeries, "no bars within the configured time range")
	}

	return &types.BarSeries{Symbol: b.series.Symbol, Bars: bars}, nil
}

func (b *BacktestEngineV1) writeResults(s strategy.Strategy, report types.PerformanceReport) error {
	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestNotRun, "failed to create results folder", err)
	}

	path := filepath.Join(b.resultsFolder, fmt.Sprintf("%s_%s.yaml", s.Type(), report.ID))

	return types.WritePerformanceReports(path, []types.PerformanceReport{report})
}
