// Package analyzer turns the raw outputs of a finished simulation, the
// equity curve and the fill log, into a summary performance report. Every
// function here is pure: nothing mutates the inputs, and the same inputs
// always produce the same report.
package analyzer

import (
	"math"

	"github.com/steadyvest/steadyvest/internal/types"
)

const (
	tradingDaysPerYear  = 252
	calendarDaysPerYear = 365.25
)

// Input carries everything a report is derived from.
type Input struct {
	Symbol      string
	Strategy    string
	DataSource  types.DataSource
	InitialCash float64
	Portfolio   types.Portfolio
	EquityCurve types.EquityCurve
	Fills       []types.Fill
}

// Analyze computes the performance report for one run. The caller stamps
// ID and Timestamp.
func Analyze(in Input) types.PerformanceReport {
	finalValue := in.InitialCash
	if n := len(in.EquityCurve); n > 0 {
		finalValue = in.EquityCurve[n-1].Value
	}

	totalInvested := in.InitialCash + in.Portfolio.TotalContributed
	netProfit := finalValue - totalInvested

	totalReturn := 0.0
	if totalInvested > 0 {
		totalReturn = netProfit / totalInvested * 100
	}

	winning, losing := classifyRoundTrips(in.Fills)

	winRate := 0.0
	if closed := winning + losing; closed > 0 {
		winRate = float64(winning) / float64(closed) * 100
	}

	totalFees := 0.0
	for _, fill := range in.Fills {
		totalFees += fill.Commission
	}

	return types.PerformanceReport{
		Symbol:          in.Symbol,
		Strategy:        in.Strategy,
		DataSource:      in.DataSource,
		FinalValue:      finalValue,
		TotalInvested:   totalInvested,
		NetProfit:       netProfit,
		TotalReturnPct:  totalReturn,
		AnnualReturnPct: AnnualReturn(in.EquityCurve, totalInvested, finalValue),
		MaxDrawdownPct:  MaxDrawdown(in.EquityCurve),
		SharpeRatio:     SharpeRatio(in.EquityCurve),
		BuyTrades:       in.Portfolio.BuyCount,
		SellTrades:      in.Portfolio.SellCount,
		TotalTrades:     in.Portfolio.BuyCount + in.Portfolio.SellCount,
		WinningTrades:   winning,
		LosingTrades:    losing,
		WinRatePct:      winRate,
		TotalFees:       totalFees,
	}
}

// AnnualReturn is the compound annual growth rate of final value over
// total invested, in percent. Runs shorter than a day, or with nothing
// invested, report zero.
func AnnualReturn(curve types.EquityCurve, totalInvested, finalValue float64) float64 {
	if len(curve) < 2 || totalInvested <= 0 || finalValue <= 0 {
		return 0
	}

	days := curve[len(curve)-1].Time.Sub(curve[0].Time).Hours() / 24
	if days < 1 {
		return 0
	}

	years := days / calendarDaysPerYear

	return (math.Pow(finalValue/totalInvested, 1/years) - 1) * 100
}

// MaxDrawdown is the largest peak-to-trough decline of the equity curve,
// in percent. Always within [0, 100].
func MaxDrawdown(curve types.EquityCurve) float64 {
	maxDrawdown := 0.0
	peak := 0.0

	for _, point := range curve {
		if point.Value > peak {
			peak = point.Value
		}

		if peak <= 0 {
			continue
		}

		drawdown := (peak - point.Value) / peak * 100
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return maxDrawdown
}

// SharpeRatio annualizes the mean over standard deviation of daily
// equity returns with a zero risk-free rate. A flat curve reports zero.
func SharpeRatio(curve types.EquityCurve) float64 {
	if len(curve) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)

	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Value
		if prev <= 0 {
			continue
		}

		returns = append(returns, curve[i].Value/prev-1)
	}

	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(returns))

	stddev := math.Sqrt(variance)
	if stddev == 0 {
		return 0
	}

	return mean / stddev * math.Sqrt(tradingDaysPerYear)
}

// classifyRoundTrips counts sell fills as winning or losing by their
// realized PnL. Break-even sells count as losses.
func classifyRoundTrips(fills []types.Fill) (winning, losing int) {
	for _, fill := range fills {
		if fill.Side != types.PurchaseTypeSell {
			continue
		}

		if fill.PnL > 0 {
			winning++
		} else {
			losing++
		}
	}

	return winning, losing
}
