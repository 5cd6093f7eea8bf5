package engine

import (
	"math"

	"go.uber.org/zap"

	"github.com/steadyvest/steadyvest/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/steadyvest/steadyvest/internal/logger"
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// BacktestState owns the mutable portfolio of a single run: uninvested
// cash, the share position, the fill log and the equity curve. All
// transitions go through Contribute, ExecuteBuy, ExecuteSell and
// AppendEquity; nothing else mutates the portfolio.
type BacktestState struct {
	logger     *logger.Logger
	commission commission_fee.CommissionFee
	portfolio  types.Portfolio
	fills      []types.Fill
	equity     types.EquityCurve
	// avgCost is the weighted-average buy price of the current position.
	// Valid only while SharesHeld > 0.
	avgCost float64
}

// NewBacktestState creates a state with the given starting cash.
func NewBacktestState(log *logger.Logger, commission commission_fee.CommissionFee, initialCash float64) *BacktestState {
	return &BacktestState{
		logger:     log,
		commission: commission,
		portfolio: types.Portfolio{
			Cash: initialCash,
		},
		fills:  nil,
		equity: nil,
	}
}

// Reset returns the state to a fresh run with the given starting cash.
func (s *BacktestState) Reset(initialCash float64) {
	s.portfolio = types.Portfolio{Cash: initialCash}
	s.fills = nil
	s.equity = nil
	s.avgCost = 0
}

// Portfolio returns a copy of the current portfolio.
func (s *BacktestState) Portfolio() types.Portfolio {
	return s.portfolio
}

// Fills returns the fill log.
func (s *BacktestState) Fills() []types.Fill {
	return s.fills
}

// EquityCurve returns the equity curve recorded so far.
func (s *BacktestState) EquityCurve() types.EquityCurve {
	return s.equity
}

// Contribute credits scheduled contribution cash. The funding scheduler is
// the only caller.
func (s *BacktestState) Contribute(amount float64) {
	s.portfolio.Cash += amount
	s.portfolio.TotalContributed += amount
}

// ExecuteBuy deploys as much uninvested cash as whole shares allow at the
// bar's closing price. Returns the executed fill, or nil when no fill
// occurred (no cash for even one share; not an error).
func (s *BacktestState) ExecuteBuy(bar types.Bar, reason string) (*types.Fill, error) {
	if bar.Close <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidSeries, "non-positive close price at %s", bar.Time.Format("2006-01-02"))
	}

	if s.portfolio.Cash <= 0 {
		return nil, nil
	}

	shares := int64(math.Floor(s.portfolio.Cash / bar.Close))

	// Commission is charged on top of the notional, so shrink the order
	// until it fits the available cash.
	var notional, fee float64

	for shares >= 1 {
		notional = float64(shares) * bar.Close
		fee = s.commission.Calculate(notional)

		if notional+fee <= s.portfolio.Cash {
			break
		}

		shares--
	}

	if shares < 1 {
		return nil, nil
	}

	held := float64(s.portfolio.SharesHeld)
	s.avgCost = (s.avgCost*held + notional) / (held + float64(shares))

	s.portfolio.Cash -= notional + fee
	s.portfolio.SharesHeld += shares
	s.portfolio.BuyCount++

	fill := types.Fill{
		Time:       bar.Time,
		Symbol:     bar.Symbol,
		Side:       types.PurchaseTypeBuy,
		Shares:     shares,
		Price:      bar.Close,
		Commission: fee,
		Reason:     reason,
	}
	s.fills = append(s.fills, fill)

	s.logger.Debug("buy fill",
		zap.String("date", bar.Time.Format("2006-01-02")),
		zap.Int64("shares", shares),
		zap.Float64("price", bar.Close),
		zap.Float64("fee", fee),
	)

	return &fill, nil
}

// ExecuteSell liquidates the given portion of the position at the bar's
// closing price; portion 1.0 is full liquidation. Freed cash is available
// immediately. Returns nil when no position is held.
func (s *BacktestState) ExecuteSell(bar types.Bar, portion float64, reason string) (*types.Fill, error) {
	if portion <= 0 || portion > 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "sell portion must be in (0, 1], got %f", portion)
	}

	if s.portfolio.SharesHeld <= 0 {
		return nil, nil
	}

	shares := int64(math.Floor(float64(s.portfolio.SharesHeld) * portion))
	if shares < 1 {
		return nil, nil
	}

	notional := float64(shares) * bar.Close
	fee := s.commission.Calculate(notional)

	// Realized PnL against the weighted-average cost basis of the shares
	// sold. The basis of any remaining shares is unchanged.
	pnl := (bar.Close-s.avgCost)*float64(shares) - fee

	s.portfolio.Cash += notional - fee
	s.portfolio.SharesHeld -= shares
	s.portfolio.SellCount++

	if s.portfolio.SharesHeld == 0 {
		s.avgCost = 0
	}

	fill := types.Fill{
		Time:       bar.Time,
		Symbol:     bar.Symbol,
		Side:       types.PurchaseTypeSell,
		Shares:     shares,
		Price:      bar.Close,
		Commission: fee,
		PnL:        pnl,
		Reason:     reason,
	}
	s.fills = append(s.fills, fill)

	s.logger.Debug("sell fill",
		zap.String("date", bar.Time.Format("2006-01-02")),
		zap.Int64("shares", shares),
		zap.Float64("price", bar.Close),
		zap.Float64("fee", fee),
		zap.Float64("pnl", pnl),
	)

	return &fill, nil
}

// AppendEquity records the bar's portfolio value on the equity curve.
func (s *BacktestState) AppendEquity(bar types.Bar) types.EquityPoint {
	point := types.EquityPoint{
		Time:  bar.Time,
		Value: s.portfolio.Value(bar.Close),
	}
	s.equity = append(s.equity, point)

	return point
}
