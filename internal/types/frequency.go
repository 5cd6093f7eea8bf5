package types

import (
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// Frequency is the cadence at which the funding scheduler injects cash.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

var AllFrequencies = []Frequency{
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyQuarterly,
	FrequencyYearly,
}

// ParseFrequency converts a string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly:
		return Frequency(s), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidFrequency, "unknown funding frequency %q", s)
	}
}
