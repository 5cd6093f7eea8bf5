package indicator

import (
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// MA implements a simple moving average over closing prices.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config configures the MA indicator. Expected parameters: period (int).
func (m *MA) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		// Accept a float period for callers coming from JSON config.
		periodFloat, floatOk := params[0].(float64)
		if !floatOk {
			return errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int or float")
		}

		period = int(periodFloat)
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	m.period = period

	return nil
}

// RawValue computes the mean of the last period closes.
func (m *MA) RawValue(closes []float64) (float64, error) {
	if len(closes) < m.period {
		return 0, errors.NewInsufficientDataErrorf(m.period, len(closes), "",
			"MA(%d) needs %d closes, have %d", m.period, m.period, len(closes))
	}

	var sum float64
	for _, c := range closes[len(closes)-m.period:] {
		sum += c
	}

	return sum / float64(m.period), nil
}
