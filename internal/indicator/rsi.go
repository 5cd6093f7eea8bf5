package indicator

import (
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// RSI represents the Relative Strength Index indicator with Wilder-style
// smoothing (exponential smoothing factor 1/period).
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	return &RSI{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := params[0].(int)
	if !ok {
		return errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	r.period = period

	return nil
}

// RawValue computes the RSI at the last bar of closes.
//
// The first `period` price changes seed the average gain and loss with a
// simple mean; every later change is folded in with Wilder smoothing:
// avg = (avg*(period-1) + change) / period. RS = avgGain/avgLoss and
// RSI = 100 - 100/(1+RS).
func (r *RSI) RawValue(closes []float64) (float64, error) {
	if len(closes) < r.period+1 {
		return 0, errors.NewInsufficientDataErrorf(r.period+1, len(closes), "",
			"RSI(%d) needs %d closes, have %d", r.period, r.period+1, len(closes))
	}

	var avgGain, avgLoss float64

	for i := 1; i <= r.period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}

	avgGain /= float64(r.period)
	avgLoss /= float64(r.period)

	for i := r.period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]

		var gain, loss float64
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(r.period-1) + gain) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + loss) / float64(r.period)
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			// Flat series: no momentum either way.
			return 50, nil
		}

		return 100, nil
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs), nil
}
