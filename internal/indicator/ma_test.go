package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
)

type MATestSuite struct {
	suite.Suite
}

func TestMASuite(t *testing.T) {
	suite.Run(t, new(MATestSuite))
}

func (suite *MATestSuite) TestNewMA() {
	ma := NewMA()
	suite.NotNil(ma)
	suite.Equal(20, ma.(*MA).period)
	suite.Equal(types.IndicatorTypeMA, ma.Name())
}

func (suite *MATestSuite) TestConfig() {
	ma := NewMA()
	maImpl := ma.(*MA)

	suite.NoError(ma.Config(10))
	suite.Equal(10, maImpl.period)

	// Float periods are accepted for JSON-sourced parameters.
	suite.NoError(ma.Config(30.0))
	suite.Equal(30, maImpl.period)

	suite.Error(ma.Config())
	suite.Error(ma.Config("10"))
	suite.Error(ma.Config(0))
}

func (suite *MATestSuite) TestRawValue() {
	ma := NewMA()
	suite.NoError(ma.Config(3))

	value, err := ma.RawValue([]float64{1, 2, 3, 4, 5})
	suite.NoError(err)
	suite.InDelta(4.0, value, 1e-9)
}

func (suite *MATestSuite) TestWarmUp() {
	ma := NewMA()
	suite.NoError(ma.Config(5))

	_, err := ma.RawValue([]float64{1, 2})
	suite.Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}
