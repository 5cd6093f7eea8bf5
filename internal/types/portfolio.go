package types

import (
	"time"
)

type PurchaseType string

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

// Portfolio is the mutable account state owned by the simulation engine
// during a run. Cash changes only through contributions and fills; shares
// change only through fills.
type Portfolio struct {
	// Cash is contributed money not yet deployed.
	Cash float64 `yaml:"cash" json:"cash"`
	// SharesHeld is the current whole-share position.
	SharesHeld int64 `yaml:"shares_held" json:"shares_held"`
	// TotalContributed is the running sum of scheduled contributions,
	// excluding the initial lump sum. Monotonically non-decreasing.
	TotalContributed float64 `yaml:"total_contributed" json:"total_contributed"`
	// BuyCount and SellCount count executed fills by side.
	BuyCount  int `yaml:"buy_count" json:"buy_count"`
	SellCount int `yaml:"sell_count" json:"sell_count"`
}

// Value returns the portfolio value against the given closing price.
func (p *Portfolio) Value(closePrice float64) float64 {
	return p.Cash + float64(p.SharesHeld)*closePrice
}

// Fill is one executed simulated trade at a bar's closing price.
type Fill struct {
	Time       time.Time    `yaml:"time" json:"time" csv:"time"`
	Symbol     string       `yaml:"symbol" json:"symbol" csv:"symbol"`
	Side       PurchaseType `yaml:"side" json:"side" csv:"side"`
	Shares     int64        `yaml:"shares" json:"shares" csv:"shares"`
	Price      float64      `yaml:"price" json:"price" csv:"price"`
	Commission float64      `yaml:"commission" json:"commission" csv:"commission"`
	// PnL is realized profit for sell fills, measured against the
	// weighted-average cost basis of the shares sold. Zero for buys.
	PnL float64 `yaml:"pnl" json:"pnl" csv:"pnl"`
	// Reason describes the signal that produced the fill.
	Reason string `yaml:"reason" json:"reason" csv:"reason"`
}

// EquityPoint is one sample of the equity curve.
type EquityPoint struct {
	Time  time.Time `yaml:"time" json:"time"`
	Value float64   `yaml:"value" json:"value"`
}

// EquityCurve is the per-bar time series of total portfolio value.
// Append-only; produced by the engine, consumed by the analyzer.
type EquityCurve []EquityPoint

// Dates returns the curve's dates formatted for the presentation layer.
func (c EquityCurve) Dates() []string {
	dates := make([]string, 0, len(c))
	for _, p := range c {
		dates = append(dates, p.Time.Format("2006-01-02"))
	}

	return dates
}

// Values returns the curve's portfolio values.
func (c EquityCurve) Values() []float64 {
	values := make([]float64, 0, len(c))
	for _, p := range c {
		values = append(values, p.Value)
	}

	return values
}
