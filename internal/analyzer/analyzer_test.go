package analyzer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/steadyvest/steadyvest/internal/types"
)

type AnalyzerTestSuite struct {
	suite.Suite
}

func TestAnalyzerSuite(t *testing.T) {
	suite.Run(t, new(AnalyzerTestSuite))
}

func curveFromValues(start time.Time, values []float64) types.EquityCurve {
	curve := make(types.EquityCurve, 0, len(values))
	for i, v := range values {
		curve = append(curve, types.EquityPoint{
			Time:  start.AddDate(0, 0, i),
			Value: v,
		})
	}

	return curve
}

func (suite *AnalyzerTestSuite) TestTotalReturn() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	report := Analyze(Input{
		Symbol:      "AAPL",
		Strategy:    "dca",
		DataSource:  types.DataSourceMock,
		InitialCash: 10000,
		Portfolio:   types.Portfolio{TotalContributed: 1500},
		EquityCurve: curveFromValues(start, []float64{10000, 11000, 12650}),
	})

	suite.InDelta(11500.0, report.TotalInvested, 1e-9)
	suite.InDelta(12650.0, report.FinalValue, 1e-9)
	suite.InDelta(1150.0, report.NetProfit, 1e-9)
	suite.InDelta(10.0, report.TotalReturnPct, 1e-9)
}

func (suite *AnalyzerTestSuite) TestTotalReturnZeroInvested() {
	report := Analyze(Input{})

	suite.Zero(report.TotalReturnPct)
	suite.Zero(report.AnnualReturnPct)
	suite.Zero(report.WinRatePct)
}

func (suite *AnalyzerTestSuite) TestAnnualReturnIsCAGR() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	// Two calendar years, value doubles: CAGR should be close to
	// sqrt(2)-1 per year.
	curve := types.EquityCurve{
		{Time: start, Value: 10000},
		{Time: start.AddDate(2, 0, 0), Value: 20000},
	}

	years := curve[1].Time.Sub(curve[0].Time).Hours() / 24 / 365.25
	want := (math.Pow(2, 1/years) - 1) * 100

	suite.InDelta(want, AnnualReturn(curve, 10000, 20000), 1e-9)
}

func (suite *AnalyzerTestSuite) TestAnnualReturnShortRun() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := types.EquityCurve{
		{Time: start, Value: 100},
		{Time: start.Add(time.Hour), Value: 200},
	}

	suite.Zero(AnnualReturn(curve, 100, 200))
}

func (suite *AnalyzerTestSuite) TestMaxDrawdown() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	curve := curveFromValues(start, []float64{100, 120, 90, 110, 80, 130})

	// Peak 120 to trough 80 is a 33.33% decline.
	suite.InDelta((120.0-80.0)/120.0*100, MaxDrawdown(curve), 1e-9)
}

func (suite *AnalyzerTestSuite) TestMaxDrawdownMonotonicCurve() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.Zero(MaxDrawdown(curveFromValues(start, []float64{100, 110, 120, 130})))
}

func (suite *AnalyzerTestSuite) TestSharpeRatioFlatCurve() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.Zero(SharpeRatio(curveFromValues(start, []float64{100, 100, 100, 100})))
}

func (suite *AnalyzerTestSuite) TestSharpeRatioSign() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	rising := SharpeRatio(curveFromValues(start, []float64{100, 101, 103, 104, 106, 107}))
	falling := SharpeRatio(curveFromValues(start, []float64{107, 106, 104, 103, 101, 100}))

	suite.Positive(rising)
	suite.Negative(falling)
}

func (suite *AnalyzerTestSuite) TestWinRateFromFills() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	report := Analyze(Input{
		InitialCash: 1000,
		Portfolio:   types.Portfolio{BuyCount: 3, SellCount: 3},
		Fills: []types.Fill{
			{Time: start, Side: types.PurchaseTypeBuy, Shares: 10, Price: 10},
			{Time: start.AddDate(0, 0, 1), Side: types.PurchaseTypeSell, Shares: 10, Price: 12, PnL: 20},
			{Time: start.AddDate(0, 0, 2), Side: types.PurchaseTypeBuy, Shares: 10, Price: 12},
			{Time: start.AddDate(0, 0, 3), Side: types.PurchaseTypeSell, Shares: 10, Price: 11, PnL: -10},
			{Time: start.AddDate(0, 0, 4), Side: types.PurchaseTypeBuy, Shares: 10, Price: 11},
			{Time: start.AddDate(0, 0, 5), Side: types.PurchaseTypeSell, Shares: 10, Price: 13, PnL: 20},
		},
	})

	suite.Equal(2, report.WinningTrades)
	suite.Equal(1, report.LosingTrades)
	suite.InDelta(2.0/3.0*100, report.WinRatePct, 1e-9)
	suite.Equal(6, report.TotalTrades)
}

func (suite *AnalyzerTestSuite) TestTotalFees() {
	report := Analyze(Input{
		Fills: []types.Fill{
			{Side: types.PurchaseTypeBuy, Commission: 5.00},
			{Side: types.PurchaseTypeSell, Commission: 5.50, PnL: 1},
		},
	})

	suite.InDelta(10.50, report.TotalFees, 1e-9)
}
