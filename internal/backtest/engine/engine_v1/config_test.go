package engine

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"

	"github.com/steadyvest/steadyvest/internal/types"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestEmptyConfig() {
	config := EmptyConfig()

	suite.Equal(ConfigSchemaVersion, config.SchemaVersion)
	suite.Equal(0.0, config.InitialCash)
	suite.Equal(0.0, config.ContributionAmount)
	suite.Equal(types.FrequencyMonthly, config.Frequency)
	suite.Equal(DefaultCommissionRate, config.CommissionRate)
	suite.False(config.ValidateTradingDays)
	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
}

func (suite *ConfigTestSuite) TestTestConfig() {
	config := TestConfig()

	suite.Equal(10000.0, config.InitialCash)
	suite.Equal(500.0, config.ContributionAmount)
	suite.Equal(types.FrequencyMonthly, config.Frequency)
	suite.Equal(0.0, config.CommissionRate)
}

func (suite *ConfigTestSuite) TestUnmarshalYAML() {
	raw := `
schema_version: "1.0.0"
initial_cash: 10000
contribution_amount: 500
frequency: weekly
commission_rate: 0.0005
validate_trading_days: true
start_time: 2020-01-01T00:00:00Z
end_time: 2020-12-31T00:00:00Z
`

	var config BacktestEngineV1Config
	suite.NoError(yaml.Unmarshal([]byte(raw), &config))

	suite.Equal("1.0.0", config.SchemaVersion)
	suite.Equal(10000.0, config.InitialCash)
	suite.Equal(500.0, config.ContributionAmount)
	suite.Equal(types.FrequencyWeekly, config.Frequency)
	suite.Equal(0.0005, config.CommissionRate)
	suite.True(config.ValidateTradingDays)
	suite.True(config.StartTime.IsSome())
	suite.True(config.EndTime.IsSome())
	suite.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), config.StartTime.Unwrap())
}

func (suite *ConfigTestSuite) TestUnmarshalYAMLOmittedTimes() {
	raw := `
schema_version: "1.0.0"
initial_cash: 1000
frequency: monthly
`

	var config BacktestEngineV1Config
	suite.NoError(yaml.Unmarshal([]byte(raw), &config))

	suite.True(config.StartTime.IsNone())
	suite.True(config.EndTime.IsNone())
}

func (suite *ConfigTestSuite) TestValidate() {
	config := TestConfig()
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestValidateRejectsNegativeCash() {
	config := TestConfig()
	config.InitialCash = -1

	suite.Error(config.Validate())
}

func (suite *ConfigTestSuite) TestValidateRejectsBadFrequency() {
	config := TestConfig()
	config.Frequency = types.Frequency("daily")

	suite.Error(config.Validate())
}

func (suite *ConfigTestSuite) TestValidateRejectsInvertedRange() {
	config := TestConfig()
	config.StartTime = optional.Some(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
	config.EndTime = optional.Some(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	suite.Error(config.Validate())
}
