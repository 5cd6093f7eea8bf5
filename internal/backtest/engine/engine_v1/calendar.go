package engine

import (
	"time"
)

// fixedHoliday is a market holiday that falls on the same calendar day
// every year.
type fixedHoliday struct {
	month time.Month
	day   int
}

// fixedHolidays is a small fixed set of full-day US market closures.
// Movable holidays are not modeled; upstream feeds already exclude
// non-trading days, so this filter is a safety net rather than an
// exchange calendar.
var fixedHolidays = []fixedHoliday{
	{time.January, 1},  // New Year's Day
	{time.July, 4},     // Independence Day
	{time.December, 25}, // Christmas Day
}

// TradingCalendar provides trading-day awareness for the funding scheduler.
type TradingCalendar struct{}

// NewTradingCalendar creates a TradingCalendar.
func NewTradingCalendar() *TradingCalendar {
	return &TradingCalendar{}
}

// IsTradingDay reports whether t falls on a weekday that is not a fixed
// holiday.
func (tc *TradingCalendar) IsTradingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	for _, h := range fixedHolidays {
		if t.Month() == h.month && t.Day() == h.day {
			return false
		}
	}

	return true
}
