package types

// IndicatorType identifies a registered technical indicator.
type IndicatorType string

const (
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
)
