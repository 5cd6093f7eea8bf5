package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestNewRSI() {
	rsi := NewRSI()
	suite.NotNil(rsi)

	rsiImpl := rsi.(*RSI)
	suite.Equal(14, rsiImpl.period)
}

func (suite *RSITestSuite) TestName() {
	suite.Equal(types.IndicatorTypeRSI, NewRSI().Name())
}

func (suite *RSITestSuite) TestConfig() {
	rsi := NewRSI()
	rsiImpl := rsi.(*RSI)

	suite.NoError(rsi.Config(2))
	suite.Equal(2, rsiImpl.period)

	suite.Error(rsi.Config())
	suite.Error(rsi.Config("14"))
	suite.Error(rsi.Config(0))
	suite.Error(rsi.Config(-3))
}

func (suite *RSITestSuite) TestWarmUpReturnsInsufficientData() {
	rsi := NewRSI()
	suite.NoError(rsi.Config(14))

	_, err := rsi.RawValue([]float64{100, 101, 102})
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *RSITestSuite) TestAllGainsIsHundred() {
	rsi := NewRSI()
	suite.NoError(rsi.Config(2))

	value, err := rsi.RawValue([]float64{100, 101, 102, 103})
	suite.NoError(err)
	suite.InDelta(100.0, value, 1e-9)
}

func (suite *RSITestSuite) TestFlatSeriesIsNeutral() {
	rsi := NewRSI()
	suite.NoError(rsi.Config(2))

	value, err := rsi.RawValue([]float64{50, 50, 50, 50, 50})
	suite.NoError(err)
	suite.InDelta(50.0, value, 1e-9)
}

func (suite *RSITestSuite) TestSeedWindowValue() {
	// Two changes seed the averages: +1 then -1.
	// avgGain = avgLoss = 0.5, RS = 1, RSI = 50.
	rsi := NewRSI()
	suite.NoError(rsi.Config(2))

	value, err := rsi.RawValue([]float64{100, 101, 100})
	suite.NoError(err)
	suite.InDelta(50.0, value, 1e-9)
}

func (suite *RSITestSuite) TestWilderSmoothingAfterSeed() {
	// Seed over changes [+1, -1]: avgGain = 0.5, avgLoss = 0.5.
	// Next change -2: avgGain = (0.5*1+0)/2 = 0.25, avgLoss = (0.5*1+2)/2 = 1.25.
	// RS = 0.2, RSI = 100 - 100/1.2 = 16.666...
	rsi := NewRSI()
	suite.NoError(rsi.Config(2))

	value, err := rsi.RawValue([]float64{100, 101, 100, 98})
	suite.NoError(err)
	suite.InDelta(100-100/1.2, value, 1e-9)
}

func (suite *RSITestSuite) TestSustainedDeclineIsOversold() {
	closes := []float64{10, 9, 8, 7, 6, 5}

	rsi := NewRSI()
	suite.NoError(rsi.Config(2))

	value, err := rsi.RawValue(closes)
	suite.NoError(err)
	suite.Less(value, 25.0)
}
