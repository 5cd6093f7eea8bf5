package engine

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/steadyvest/steadyvest/internal/types"
)

// PeriodKey identifies the funding-cadence bucket a date falls into.
// Sub is the ISO week for weekly cadence, the month for monthly, the
// zero-based quarter for quarterly and 0 for yearly.
type PeriodKey struct {
	Year int
	Sub  int
}

// PeriodKeyFor computes the period key of t under the given frequency.
func PeriodKeyFor(t time.Time, frequency types.Frequency) PeriodKey {
	switch frequency {
	case types.FrequencyWeekly:
		isoYear, isoWeek := t.ISOWeek()

		return PeriodKey{Year: isoYear, Sub: isoWeek}
	case types.FrequencyMonthly:
		return PeriodKey{Year: t.Year(), Sub: int(t.Month())}
	case types.FrequencyQuarterly:
		return PeriodKey{Year: t.Year(), Sub: (int(t.Month()) - 1) / 3}
	case types.FrequencyYearly:
		return PeriodKey{Year: t.Year(), Sub: 0}
	default:
		return PeriodKey{Year: t.Year(), Sub: int(t.Month())}
	}
}

// FundingScheduler decides, once per bar, whether a scheduled contribution
// should be injected. It fires exactly once per calendar period touched by
// the data, and always on the first bar it ever sees.
type FundingScheduler struct {
	frequency  types.Frequency
	amount     float64
	calendar   *TradingCalendar
	checkDays  bool
	lastPeriod optional.Option[PeriodKey]
}

// NewFundingScheduler creates a scheduler for the given cadence and
// contribution amount. When checkTradingDays is set, contributions falling
// on non-trading days are deferred to the next valid bar.
func NewFundingScheduler(frequency types.Frequency, amount float64, checkTradingDays bool) *FundingScheduler {
	return &FundingScheduler{
		frequency:  frequency,
		amount:     amount,
		calendar:   NewTradingCalendar(),
		checkDays:  checkTradingDays,
		lastPeriod: optional.None[PeriodKey](),
	}
}

// Advance processes one bar date and reports whether a contribution is due
// on it. The caller credits the portfolio; Advance only tracks periods.
func (s *FundingScheduler) Advance(t time.Time) bool {
	if s.checkDays && !s.calendar.IsTradingDay(t) {
		// Defer to the next valid bar; the period marker stays unset so
		// the pending period still fires.
		return false
	}

	key := PeriodKeyFor(t, s.frequency)

	if s.lastPeriod.IsSome() && s.lastPeriod.Unwrap() == key {
		return false
	}

	s.lastPeriod = optional.Some(key)

	return true
}

// Amount returns the per-period contribution amount.
func (s *FundingScheduler) Amount() float64 {
	return s.amount
}

// LastPeriod exposes the most recent period marker, for tests.
func (s *FundingScheduler) LastPeriod() optional.Option[PeriodKey] {
	return s.lastPeriod
}
