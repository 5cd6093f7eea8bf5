package strategy

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/steadyvest/steadyvest/internal/indicator"
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// RSIParams configures the RSI strategy.
type RSIParams struct {
	// Period is the RSI smoothing period.
	Period int `yaml:"period" json:"period" jsonschema:"default=14,minimum=2,maximum=50" validate:"gte=2,lte=50"`
	// BuyThreshold triggers a buy when RSI falls below it.
	BuyThreshold float64 `yaml:"buy_threshold" json:"buy_threshold" jsonschema:"default=25,minimum=10,maximum=40" validate:"gt=0,lt=100"`
	// SellThreshold triggers a sell when RSI rises above it.
	SellThreshold float64 `yaml:"sell_threshold" json:"sell_threshold" jsonschema:"default=70,minimum=50,maximum=90" validate:"gt=0,lt=100,gtfield=BuyThreshold"`
}

// DefaultRSIParams returns the documented defaults.
func DefaultRSIParams() RSIParams {
	return RSIParams{
		Period:        14,
		BuyThreshold:  25,
		SellThreshold: 70,
	}
}

// RSIStrategy buys oversold bars and liquidates overbought ones.
type RSIStrategy struct {
	params RSIParams
	rsi    *indicator.RSI
}

// NewRSIStrategy creates an RSI strategy. Zero-valued params fields are
// replaced with their defaults before validation.
func NewRSIStrategy(params RSIParams) (Strategy, error) {
	defaults := DefaultRSIParams()

	if params.Period == 0 {
		params.Period = defaults.Period
	}

	if params.BuyThreshold == 0 {
		params.BuyThreshold = defaults.BuyThreshold
	}

	if params.SellThreshold == 0 {
		params.SellThreshold = defaults.SellThreshold
	}

	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid RSI parameters", err)
	}

	rsi := indicator.NewRSI().(*indicator.RSI)
	if err := rsi.Config(params.Period); err != nil {
		return nil, err
	}

	return &RSIStrategy{
		params: params,
		rsi:    rsi,
	}, nil
}

// Type implements Strategy.
func (s *RSIStrategy) Type() StrategyType {
	return StrategyTypeRSI
}

// Name implements Strategy.
func (s *RSIStrategy) Name() string {
	return "RSI Strategy"
}

// BuySignal fires when RSI drops below the buy threshold and no position is
// currently held. Holding a position suppresses re-buys so contributions
// accumulate until the position is closed.
func (s *RSIStrategy) BuySignal(ctx Context) (types.Signal, error) {
	value, err := s.rsi.RawValue(ctx.Series.Closes(ctx.Index))
	if err != nil {
		return noAction(ctx, string(s.Type()), "RSI warming up", nil), err
	}

	raw := map[string]float64{"rsi": value}

	if value < s.params.BuyThreshold && ctx.SharesHeld == 0 {
		reason := fmt.Sprintf("RSI oversold (value=%.2f, threshold=%.2f)", value, s.params.BuyThreshold)

		return action(ctx, types.SignalTypeBuy, string(s.Type()), reason, raw), nil
	}

	return noAction(ctx, string(s.Type()), "RSI above buy threshold or already invested", raw), nil
}

// SellSignal fires when RSI rises above the sell threshold while a position
// is held.
func (s *RSIStrategy) SellSignal(ctx Context) (types.Signal, error) {
	value, err := s.rsi.RawValue(ctx.Series.Closes(ctx.Index))
	if err != nil {
		return noAction(ctx, string(s.Type()), "RSI warming up", nil), err
	}

	raw := map[string]float64{"rsi": value}

	if value > s.params.SellThreshold && ctx.SharesHeld > 0 {
		reason := fmt.Sprintf("RSI overbought (value=%.2f, threshold=%.2f)", value, s.params.SellThreshold)

		return action(ctx, types.SignalTypeSell, string(s.Type()), reason, raw), nil
	}

	return noAction(ctx, string(s.Type()), "RSI below sell threshold or no position", raw), nil
}
