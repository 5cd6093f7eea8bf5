package indicator

import (
	"github.com/steadyvest/steadyvest/internal/types"
)

// Indicator is a technical indicator computed over a window of closing
// prices. Values are derived only from the closes passed in, so callers
// control the look-ahead boundary by slicing the series themselves.
type Indicator interface {
	// Name returns the name of the indicator.
	Name() types.IndicatorType
	// Config configures the indicator. Each implementation documents its
	// expected parameters.
	Config(params ...any) error
	// RawValue returns the indicator value at the last element of closes.
	// Returns an InsufficientDataError while inside the warm-up window.
	RawValue(closes []float64) (float64, error)
}
