package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DataSource tags where the bar series used by a run came from.
type DataSource string

const (
	DataSourceReal DataSource = "real"
	DataSourceMock DataSource = "mock"
)

// PerformanceReport is the summary a finished backtest hands to the
// presentation layer. Pure output; computing it never mutates engine state.
type PerformanceReport struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Symbol of the instrument.
	Symbol string `yaml:"symbol" json:"symbol"`
	// Strategy is the identifier of the strategy that produced this run.
	Strategy string `yaml:"strategy" json:"strategy"`
	// DataSource records whether real or mock bars backed the run.
	DataSource DataSource `yaml:"data_source" json:"data_source"`

	// FinalValue is the last equity-curve value.
	FinalValue float64 `yaml:"final_value" json:"final_value"`
	// TotalInvested is initial cash plus every periodic contribution.
	TotalInvested float64 `yaml:"total_invested" json:"total_invested"`
	NetProfit     float64 `yaml:"net_profit" json:"net_profit"`
	// TotalReturnPct is (final/invested - 1) * 100, 0 when nothing invested.
	TotalReturnPct float64 `yaml:"total_return_pct" json:"total_return_pct"`
	// AnnualReturnPct is the CAGR of final value over total invested
	// across the elapsed calendar years of the run.
	AnnualReturnPct float64 `yaml:"annual_return_pct" json:"annual_return_pct"`
	// MaxDrawdownPct is the maximum peak-to-trough percentage decline.
	MaxDrawdownPct float64 `yaml:"max_drawdown_pct" json:"max_drawdown_pct"`
	// SharpeRatio is annualized from daily equity returns (sqrt 252).
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`

	BuyTrades   int `yaml:"buy_trades" json:"buy_trades"`
	SellTrades  int `yaml:"sell_trades" json:"sell_trades"`
	TotalTrades int `yaml:"total_trades" json:"total_trades"`
	// WinningTrades and LosingTrades classify closed round trips against
	// their weighted-average buy cost basis.
	WinningTrades int     `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades  int     `yaml:"losing_trades" json:"losing_trades"`
	WinRatePct    float64 `yaml:"win_rate_pct" json:"win_rate_pct"`
	// TotalFees is the sum of commissions charged on fills.
	TotalFees float64 `yaml:"total_fees" json:"total_fees"`
}

// WritePerformanceReports writes the reports for a run as a YAML file.
func WritePerformanceReports(path string, reports []PerformanceReport) error {
	data, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("failed to marshal performance reports to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write performance reports to file: %w", err)
	}

	return nil
}
