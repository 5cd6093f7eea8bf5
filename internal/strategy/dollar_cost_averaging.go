package strategy

import (
	"github.com/steadyvest/steadyvest/internal/types"
)

// DCAParams configures the dollar-cost-averaging strategy. It has no
// tunable parameters; the struct exists so every variant exposes a schema.
type DCAParams struct{}

// DCAStrategy invests every contribution as soon as it arrives, regardless
// of market conditions, and never sells.
type DCAStrategy struct{}

// NewDCAStrategy creates a dollar-cost-averaging strategy.
func NewDCAStrategy(DCAParams) (Strategy, error) {
	return &DCAStrategy{}, nil
}

// Type implements Strategy.
func (s *DCAStrategy) Type() StrategyType {
	return StrategyTypeDCA
}

// Name implements Strategy.
func (s *DCAStrategy) Name() string {
	return "Dollar Cost Averaging"
}

// BuySignal always fires; the engine still skips the fill when there is no
// cash for at least one whole share.
func (s *DCAStrategy) BuySignal(ctx Context) (types.Signal, error) {
	return action(ctx, types.SignalTypeBuy, string(s.Type()), "periodic investment", nil), nil
}

// SellSignal never fires.
func (s *DCAStrategy) SellSignal(ctx Context) (types.Signal, error) {
	return noAction(ctx, string(s.Type()), "buy-and-hold", nil), nil
}
