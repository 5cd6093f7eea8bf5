package engine

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

// ConfigSchemaVersion is the schema version this engine accepts. Configs
// declare their own version; incompatible majors are rejected up front.
const ConfigSchemaVersion = "1.0.0"

// DefaultCommissionRate is the documented proportional commission charged
// on trade notional (0.05%).
const DefaultCommissionRate = 0.0005

// BacktestEngineV1Config configures one simulation run.
type BacktestEngineV1Config struct {
	// SchemaVersion is the config schema version, checked for
	// compatibility against ConfigSchemaVersion.
	SchemaVersion string `yaml:"schema_version" json:"schema_version" jsonschema:"default=1.0.0" validate:"required"`
	// InitialCash is the lump sum available before the first bar.
	InitialCash float64 `yaml:"initial_cash" json:"initial_cash" jsonschema:"default=10000" validate:"gte=0"`
	// ContributionAmount is added to uninvested cash once per funding period.
	ContributionAmount float64 `yaml:"contribution_amount" json:"contribution_amount" jsonschema:"default=500" validate:"gte=0"`
	// Frequency is the funding cadence.
	Frequency types.Frequency `yaml:"frequency" json:"frequency" jsonschema:"default=monthly" validate:"required,oneof=weekly monthly quarterly yearly"`
	// CommissionRate is the proportional commission on trade notional.
	CommissionRate float64 `yaml:"commission_rate" json:"commission_rate" jsonschema:"default=0.0005" validate:"gte=0,lte=0.1"`
	// ValidateTradingDays defers contributions falling on weekends or
	// fixed holidays to the next valid bar. Off by default: real feeds
	// already exclude non-trading days.
	ValidateTradingDays bool `yaml:"validate_trading_days" json:"validate_trading_days"`
	// StartTime and EndTime optionally clip the series before simulation.
	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time"`
}

// UnmarshalYAML implements custom unmarshaling so the optional time
// bounds parse from plain YAML timestamps.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plainConfig struct {
		SchemaVersion       string          `yaml:"schema_version"`
		InitialCash         float64         `yaml:"initial_cash"`
		ContributionAmount  float64         `yaml:"contribution_amount"`
		Frequency           types.Frequency `yaml:"frequency"`
		CommissionRate      float64         `yaml:"commission_rate"`
		ValidateTradingDays bool            `yaml:"validate_trading_days"`
		StartTime           *time.Time      `yaml:"start_time"`
		EndTime             *time.Time      `yaml:"end_time"`
	}

	var config plainConfig
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.SchemaVersion = config.SchemaVersion
	c.InitialCash = config.InitialCash
	c.ContributionAmount = config.ContributionAmount
	c.Frequency = config.Frequency
	c.CommissionRate = config.CommissionRate
	c.ValidateTradingDays = config.ValidateTradingDays
	c.StartTime = optional.None[time.Time]()
	c.EndTime = optional.None[time.Time]()

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	return nil
}

// EmptyConfig returns a config with documented defaults and no time bounds.
func EmptyConfig() BacktestEngineV1Config {
	return BacktestEngineV1Config{
		SchemaVersion:       ConfigSchemaVersion,
		InitialCash:         0,
		ContributionAmount:  0,
		Frequency:           types.FrequencyMonthly,
		CommissionRate:      DefaultCommissionRate,
		ValidateTradingDays: false,
		StartTime:           optional.None[time.Time](),
		EndTime:             optional.None[time.Time](),
	}
}

// TestConfig returns a config suitable for deterministic tests: $10,000
// initial cash, $500 monthly contributions, zero commission.
func TestConfig() BacktestEngineV1Config {
	config := EmptyConfig()
	config.InitialCash = 10000
	config.ContributionAmount = 500
	config.CommissionRate = 0

	return config
}

// Validate checks the config struct.
func (c *BacktestEngineV1Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && !c.StartTime.Unwrap().Before(c.EndTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidDateRange, "start_time must be before end_time")
	}

	return nil
}
