// Package strategy implements the periodic-investment strategy variants.
//
// A strategy is a pair of signal predicates evaluated once per bar against
// the history up to and including that bar. Variants are dispatched by a
// StrategyType tag and configured through an immutable parameter struct;
// the funding and fill mechanics are shared and live in the engine.
package strategy

import (
	"github.com/steadyvest/steadyvest/internal/types"
)

// StrategyType identifies a strategy variant.
type StrategyType string

const (
	StrategyTypeRSI            StrategyType = "rsi"
	StrategyTypeMovingAverage  StrategyType = "moving_average"
	StrategyTypeBollingerBands StrategyType = "bollinger_bands"
	StrategyTypeDCA            StrategyType = "dca"
)

var AllStrategyTypes = []StrategyType{
	StrategyTypeRSI,
	StrategyTypeMovingAverage,
	StrategyTypeBollingerBands,
	StrategyTypeDCA,
}

// Context is the read-only view the engine hands a strategy for one bar.
// Series and Index bound the visible history; signal code must not read
// past Index.
type Context struct {
	Series *types.BarSeries
	// Index is the current bar position within Series.
	Index int
	// SharesHeld is the current position size, for strategies whose
	// signals depend on whether they are already invested.
	SharesHeld int64
}

// Bar returns the current bar.
func (c Context) Bar() types.Bar {
	return c.Series.Bars[c.Index]
}

// Strategy produces buy and sell signals bar by bar.
//
// Either signal method may return an InsufficientDataError while its
// indicators warm up; the engine resolves that to "no signal" instead of
// failing the run.
type Strategy interface {
	// Type returns the variant tag.
	Type() StrategyType
	// Name returns the human-readable strategy name.
	Name() string
	// BuySignal reports whether the strategy wants to deploy cash on this bar.
	BuySignal(ctx Context) (types.Signal, error)
	// SellSignal reports whether the strategy wants to liquidate on this bar.
	SellSignal(ctx Context) (types.Signal, error)
}

func noAction(ctx Context, name string, reason string, raw map[string]float64) types.Signal {
	bar := ctx.Bar()

	return types.Signal{
		Time:     bar.Time,
		Type:     types.SignalTypeNoAction,
		Name:     name,
		Reason:   reason,
		Symbol:   bar.Symbol,
		RawValue: raw,
	}
}

func action(ctx Context, signalType types.SignalType, name string, reason string, raw map[string]float64) types.Signal {
	bar := ctx.Bar()

	return types.Signal{
		Time:     bar.Time,
		Type:     signalType,
		Name:     name,
		Reason:   reason,
		Symbol:   bar.Symbol,
		RawValue: raw,
	}
}
