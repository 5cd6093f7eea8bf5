package types

import (
	"time"

	"github.com/steadyvest/steadyvest/pkg/errors"
)

// Bar is one trading day of OHLCV data for a single instrument.
// Bars are produced once by the data layer and never mutated afterwards.
type Bar struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time" validate:"required"`
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol" validate:"required"`
	Open   float64   `yaml:"open" json:"open" csv:"open" validate:"required,gt=0"`
	High   float64   `yaml:"high" json:"high" csv:"high" validate:"required,gt=0"`
	Low    float64   `yaml:"low" json:"low" csv:"low" validate:"required,gt=0"`
	Close  float64   `yaml:"close" json:"close" csv:"close" validate:"required,gt=0"`
	Volume int64     `yaml:"volume" json:"volume" csv:"volume" validate:"gte=0"`
}

// Validate checks the OHLC shape of a single bar.
func (b *Bar) Validate() error {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return errors.Newf(errors.ErrCodeInvalidSeries, "bar at %s has non-positive prices", b.Time.Format("2006-01-02"))
	}

	if b.Low > b.Open || b.Low > b.Close || b.High < b.Open || b.High < b.Close {
		return errors.Newf(errors.ErrCodeInvalidSeries, "bar at %s violates low <= {open, close} <= high", b.Time.Format("2006-01-02"))
	}

	if b.Volume < 0 {
		return errors.Newf(errors.ErrCodeInvalidSeries, "bar at %s has negative volume", b.Time.Format("2006-01-02"))
	}

	return nil
}

// BarSeries is an ordered sequence of daily bars for one instrument.
type BarSeries struct {
	Symbol string `yaml:"symbol" json:"symbol"`
	Bars   []Bar  `yaml:"bars" json:"bars"`
}

// Validate checks every bar and the strictly-increasing date invariant.
func (s *BarSeries) Validate() error {
	for i := range s.Bars {
		if err := s.Bars[i].Validate(); err != nil {
			return err
		}

		if i > 0 && !s.Bars[i].Time.After(s.Bars[i-1].Time) {
			return errors.Newf(errors.ErrCodeInvalidSeries,
				"bars must be strictly increasing in time: %s followed by %s",
				s.Bars[i-1].Time.Format("2006-01-02"), s.Bars[i].Time.Format("2006-01-02"))
		}
	}

	return nil
}

// Len returns the number of bars in the series.
func (s *BarSeries) Len() int {
	return len(s.Bars)
}

// Closes returns the closing prices up to and including index i.
// Signal code uses this to guarantee no look-ahead past the current bar.
func (s *BarSeries) Closes(i int) []float64 {
	if i >= len(s.Bars) {
		i = len(s.Bars) - 1
	}

	closes := make([]float64, 0, i+1)
	for j := 0; j <= i; j++ {
		closes = append(closes, s.Bars[j].Close)
	}

	return closes
}
