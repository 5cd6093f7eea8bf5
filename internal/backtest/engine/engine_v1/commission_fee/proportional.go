package commission_fee

import (
	"github.com/shopspring/decimal"
)

// ProportionalCommissionFee charges a fixed fraction of trade notional,
// rounded to whole cents.
type ProportionalCommissionFee struct {
	rate decimal.Decimal
}

// NewProportionalCommissionFee creates a proportional commission fee with
// the given rate, e.g. 0.0005 for 0.05% of notional.
func NewProportionalCommissionFee(rate float64) CommissionFee {
	return &ProportionalCommissionFee{
		rate: decimal.NewFromFloat(rate),
	}
}

// Calculate implements CommissionFee.
func (c *ProportionalCommissionFee) Calculate(notional float64) float64 {
	fee := decimal.NewFromFloat(notional).Mul(c.rate).Round(2)

	value, _ := fee.Float64()

	return value
}
