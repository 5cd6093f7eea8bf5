package types

import (
	"time"
)

// SignalType is the action a strategy proposes for the current bar.
type SignalType string

const (
	SignalTypeBuy      SignalType = "buy"
	SignalTypeSell     SignalType = "sell"
	SignalTypeNoAction SignalType = "no_action"
)

// Signal is a strategy's decision for one bar, with the indicator values
// that produced it.
type Signal struct {
	Time   time.Time  `yaml:"time" json:"time"`
	Type   SignalType `yaml:"type" json:"type"`
	Name   string     `yaml:"name" json:"name"`
	Reason string     `yaml:"reason" json:"reason"`
	Symbol string     `yaml:"symbol" json:"symbol"`
	// RawValue holds the indicator values backing the decision.
	RawValue map[string]float64 `yaml:"raw_value" json:"raw_value"`
}
