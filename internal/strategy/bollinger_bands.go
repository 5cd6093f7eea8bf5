package strategy

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/steadyvest/steadyvest/internal/indicator"
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// BollingerBandsParams configures the Bollinger Bands strategy.
type BollingerBandsParams struct {
	// Period is the moving average window.
	Period int `yaml:"period" json:"period" jsonschema:"default=20,minimum=10,maximum=50" validate:"gte=2,lte=100"`
	// DevFactor scales the standard-deviation band width.
	DevFactor float64 `yaml:"dev_factor" json:"dev_factor" jsonschema:"default=2,minimum=1.5,maximum=3" validate:"gt=0,lte=5"`
}

// DefaultBollingerBandsParams returns the documented defaults.
func DefaultBollingerBandsParams() BollingerBandsParams {
	return BollingerBandsParams{
		Period:    20,
		DevFactor: 2.0,
	}
}

// BollingerBandsStrategy buys bars whose close touches or breaks the lower band.
type BollingerBandsStrategy struct {
	params BollingerBandsParams
	bands  *indicator.BollingerBands
}

// NewBollingerBandsStrategy creates a Bollinger Bands strategy.
func NewBollingerBandsStrategy(params BollingerBandsParams) (Strategy, error) {
	defaults := DefaultBollingerBandsParams()

	if params.Period == 0 {
		params.Period = defaults.Period
	}

	if params.DevFactor == 0 {
		params.DevFactor = defaults.DevFactor
	}

	validate := validator.New()
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid Bollinger Bands parameters", err)
	}

	bands := indicator.NewBollingerBands().(*indicator.BollingerBands)
	if err := bands.Config(params.Period, params.DevFactor); err != nil {
		return nil, err
	}

	return &BollingerBandsStrategy{
		params: params,
		bands:  bands,
	}, nil
}

// Type implements Strategy.
func (s *BollingerBandsStrategy) Type() StrategyType {
	return StrategyTypeBollingerBands
}

// Name implements Strategy.
func (s *BollingerBandsStrategy) Name() string {
	return "Bollinger Bands Strategy"
}

// BuySignal fires when the close is at or below the lower band.
func (s *BollingerBandsStrategy) BuySignal(ctx Context) (types.Signal, error) {
	_, _, lower, err := s.bands.Bands(ctx.Series.Closes(ctx.Index))
	if err != nil {
		return noAction(ctx, string(s.Type()), "bands warming up", nil), err
	}

	close := ctx.Bar().Close
	raw := map[string]float64{
		"close":      close,
		"lower_band": lower,
	}

	if close <= lower {
		reason := fmt.Sprintf("close %.2f at or below lower band %.2f", close, lower)

		return action(ctx, types.SignalTypeBuy, string(s.Type()), reason, raw), nil
	}

	return noAction(ctx, string(s.Type()), "close above lower band", raw), nil
}

// SellSignal never fires; the baseline variant has no exit rule.
func (s *BollingerBandsStrategy) SellSignal(ctx Context) (types.Signal, error) {
	return noAction(ctx, string(s.Type()), "no sell rule", nil), nil
}
