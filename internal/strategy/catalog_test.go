package strategy

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/steadyvest/steadyvest/pkg/errors"
)

type CatalogTestSuite struct {
	suite.Suite
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (suite *CatalogTestSuite) TestCatalogListsEveryVariant() {
	catalog, err := Catalog()
	suite.NoError(err)
	suite.Len(catalog, len(AllStrategyTypes))

	ids := make([]StrategyType, 0, len(catalog))
	for _, d := range catalog {
		ids = append(ids, d.ID)
		suite.NotEmpty(d.Name)
		suite.NotEmpty(d.Description)
		suite.NotEmpty(d.Schema)
	}

	suite.ElementsMatch(AllStrategyTypes, ids)
}

func (suite *CatalogTestSuite) TestParameterSpecs() {
	catalog, err := Catalog()
	suite.NoError(err)

	byID := map[StrategyType]Descriptor{}
	for _, d := range catalog {
		byID[d.ID] = d
	}

	rsi := byID[StrategyTypeRSI]
	suite.Len(rsi.Parameters, 3)
	suite.Equal("period", rsi.Parameters[0].Name)
	suite.Equal("int", rsi.Parameters[0].Type)
	suite.Equal(14.0, rsi.Parameters[0].Default)

	suite.Empty(byID[StrategyTypeDCA].Parameters)
}

func (suite *CatalogTestSuite) TestCreateStrategyDefaults() {
	for _, st := range AllStrategyTypes {
		s, err := CreateStrategy(st, nil)
		suite.NoError(err)
		suite.Equal(st, s.Type())
	}
}

func (suite *CatalogTestSuite) TestCreateStrategyWithParams() {
	s, err := CreateStrategy(StrategyTypeRSI, map[string]float64{
		"period":        2,
		"buy_threshold": 20,
	})
	suite.NoError(err)

	rsi := s.(*RSIStrategy)
	suite.Equal(2, rsi.params.Period)
	suite.Equal(20.0, rsi.params.BuyThreshold)
	// Unspecified parameters keep their defaults.
	suite.Equal(70.0, rsi.params.SellThreshold)
}

func (suite *CatalogTestSuite) TestCreateStrategyUnknown() {
	_, err := CreateStrategy("momentum", nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
}
