package strategy

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/steadyvest/steadyvest/internal/indicator"
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// MovingAverageParams configures the moving-average crossover strategy.
type MovingAverageParams struct {
	// FastPeriod is the short moving average window.
	FastPeriod int `yaml:"fast_period" json:"fast_period" jsonschema:"default=10,minimum=5,maximum=50" validate:"gte=2"`
	// SlowPeriod is the long moving average window.
	SlowPeriod int `yaml:"slow_period" json:"slow_period" jsonschema:"default=30,minimum=15,maximum=100" validate:"gte=2,gtfield=FastPeriod"`
}

// DefaultMovingAverageParams returns the documented defaults.
func DefaultMovingAverageParams() MovingAverageParams {
	return MovingAverageParams{
		FastPeriod: 10,
		SlowPeriod: 30,
	}
}

// MovingAverageStrategy buys exactly on golden-cross bars: the fast moving
// average crossing from at-or-below the slow one to above it.
type MovingAverageStrategy struct {
	params MovingAverageParams
	fast   *indicator.MA
	slow   *indicator.MA
}

// NewMovingAverageStrategy creates a moving-average crossover strategy.
func NewMovingAverageStrategy(params MovingAverageParams) (Strategy, error) {
	defaults := DefaultMovingAverageParams()

	if params.FastPeriod == 0 {
		params.FastPeriod = defaults.FastPeriod
	}

	if params.SlowPeriod == 0 {
		params.SlowPeriod = defaults.SlowPeriod
	}

	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid moving average parameters", err)
	}

	fast := indicator.NewMA().(*indicator.MA)
	if err := fast.Config(params.FastPeriod); err != nil {
		return nil, err
	}

	slow := indicator.NewMA().(*indicator.MA)
	if err := slow.Config(params.SlowPeriod); err != nil {
		return nil, err
	}

	return &MovingAverageStrategy{
		params: params,
		fast:   fast,
		slow:   slow,
	}, nil
}

// Type implements Strategy.
func (s *MovingAverageStrategy) Type() StrategyType {
	return StrategyTypeMovingAverage
}

// Name implements Strategy.
func (s *MovingAverageStrategy) Name() string {
	return "Moving Average Crossover"
}

// BuySignal fires only on the bar where the fast average first moves above
// the slow one. Both the current and the previous bar need full windows, so
// the signal stays undefined until slow period + 1 bars exist.
func (s *MovingAverageStrategy) BuySignal(ctx Context) (types.Signal, error) {
	if ctx.Index < 1 {
		return noAction(ctx, string(s.Type()), "not enough history for a crossover", nil),
			errors.NewInsufficientDataError(s.params.SlowPeriod+1, ctx.Index+1, ctx.Bar().Symbol, "crossover needs a previous bar")
	}

	closes := ctx.Series.Closes(ctx.Index)
	prevCloses := closes[:len(closes)-1]

	fastNow, err := s.fast.RawValue(closes)
	if err != nil {
		return noAction(ctx, string(s.Type()), "fast MA warming up", nil), err
	}

	slowNow, err := s.slow.RawValue(closes)
	if err != nil {
		return noAction(ctx, string(s.Type()), "slow MA warming up", nil), err
	}

	fastPrev, err := s.fast.RawValue(prevCloses)
	if err != nil {
		return noAction(ctx, string(s.Type()), "fast MA warming up", nil), err
	}

	slowPrev, err := s.slow.RawValue(prevCloses)
	if err != nil {
		return noAction(ctx, string(s.Type()), "slow MA warming up", nil), err
	}

	raw := map[string]float64{
		"fast_ma": fastNow,
		"slow_ma": slowNow,
	}

	if fastPrev <= slowPrev && fastNow > slowNow {
		reason := fmt.Sprintf("golden cross (fast=%.2f, slow=%.2f)", fastNow, slowNow)

		return action(ctx, types.SignalTypeBuy, string(s.Type()), reason, raw), nil
	}

	return noAction(ctx, string(s.Type()), "no crossover", raw), nil
}

// SellSignal never fires; the baseline variant has no exit rule.
func (s *MovingAverageStrategy) SellSignal(ctx Context) (types.Signal, error) {
	return noAction(ctx, string(s.Type()), "no sell rule", nil), nil
}
