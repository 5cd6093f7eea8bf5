package commission_fee

// CommissionFee computes the fee in USD charged on a fill's notional value.
type CommissionFee interface {
	// Calculate the commission fee for a given trade notional (shares x price).
	Calculate(notional float64) float64
}
