package indicator

import (
	"math"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// BollingerBands implements a moving average with bands placed a configurable
// number of standard deviations above and below it.
type BollingerBands struct {
	period    int
	devFactor float64
}

// NewBollingerBands creates a new Bollinger Bands indicator with default configuration.
func NewBollingerBands() Indicator {
	return &BollingerBands{
		period:    20,  // Default period
		devFactor: 2.0, // Default deviation factor
	}
}

// Name returns the name of the indicator.
func (b *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the indicator. Expected parameters: period (int), devFactor (float64).
func (b *BollingerBands) Config(params ...any) error {
	if len(params) < 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	b.period = period

	if len(params) >= 2 {
		devFactor, ok := params[1].(float64)
		if !ok {
			return errors.New(errors.ErrCodeInvalidParameter, "invalid type for deviation factor parameter, expected float64")
		}

		if devFactor <= 0 {
			return errors.Newf(errors.ErrCodeInvalidThreshold, "deviation factor must be positive, got %f", devFactor)
		}

		b.devFactor = devFactor
	}

	return nil
}

// RawValue returns the middle band (the moving average) at the last bar.
func (b *BollingerBands) RawValue(closes []float64) (float64, error) {
	middle, _, _, err := b.Bands(closes)

	return middle, err
}

// Bands returns the middle, upper and lower band values at the last bar.
// The band width is devFactor times the population standard deviation of
// the last period closes, so a constant series collapses the bands onto
// the mean.
func (b *BollingerBands) Bands(closes []float64) (middle, upper, lower float64, err error) {
	if len(closes) < b.period {
		return 0, 0, 0, errors.NewInsufficientDataErrorf(b.period, len(closes), "",
			"BollingerBands(%d) needs %d closes, have %d", b.period, b.period, len(closes))
	}

	window := closes[len(closes)-b.period:]

	var sum float64
	for _, c := range window {
		sum += c
	}

	middle = sum / float64(b.period)

	var variance float64
	for _, c := range window {
		diff := c - middle
		variance += diff * diff
	}

	variance /= float64(b.period)
	stdDev := math.Sqrt(variance)

	upper = middle + b.devFactor*stdDev
	lower = middle - b.devFactor*stdDev

	return middle, upper, lower, nil
}
