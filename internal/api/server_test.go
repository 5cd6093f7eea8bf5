package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/steadyvest/steadyvest/internal/logger"
	"github.com/steadyvest/steadyvest/internal/strategy"
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
	"github.com/steadyvest/steadyvest/pkg/marketdata"
)

// fixedFetcher serves a canned series or error.
type fixedFetcher struct {
	series *types.BarSeries
	err    error
}

func (f *fixedFetcher) FetchBars(ctx context.Context, params marketdata.FetchParams) (*types.BarSeries, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.series, nil
}

type ServerTestSuite struct {
	suite.Suite
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) newServer(fetcher BarFetcher) *Server {
	return NewServer(ServerConfig{Address: ":0", Fetcher: fetcher}, logger.NewNopLogger())
}

func (suite *ServerTestSuite) request(server *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader

	if body != nil {
		data, err := json.Marshal(body)
		suite.Require().NoError(err)

		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)

	return recorder
}

func flatSeries(symbol string, start time.Time, n int, close float64) *types.BarSeries {
	series := &types.BarSeries{Symbol: symbol}
	for i := 0; i < n; i++ {
		series.Bars = append(series.Bars, types.Bar{
			Time:   start.AddDate(0, 0, i),
			Symbol: symbol,
			Open:   close,
			High:   close,
			Low:    close,
			Close:  close,
			Volume: 1000,
		})
	}

	return series
}

func validRequest() BacktestRequest {
	return BacktestRequest{
		Symbol:             "AAPL",
		StartDate:          "2020-01-01",
		EndDate:            "2020-06-30",
		Strategy:           string(strategy.StrategyTypeDCA),
		Parameters:         nil,
		InitialCash:        10000,
		ContributionAmount: 500,
		Frequency:          "monthly",
	}
}

func (suite *ServerTestSuite) TestHealthz() {
	recorder := suite.request(suite.newServer(nil), http.MethodGet, "/healthz", nil)
	suite.Equal(http.StatusOK, recorder.Code)
}

func (suite *ServerTestSuite) TestStrategiesCatalog() {
	recorder := suite.request(suite.newServer(nil), http.MethodGet, "/api/v1/strategies", nil)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var catalog []strategy.Descriptor
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &catalog))
	suite.Len(catalog, 4)

	ids := make([]strategy.StrategyType, 0, len(catalog))
	for _, descriptor := range catalog {
		ids = append(ids, descriptor.ID)
		suite.NotEmpty(descriptor.Name)
		suite.NotEmpty(descriptor.Schema)
	}

	suite.Equal(strategy.AllStrategyTypes, ids)
}

func (suite *ServerTestSuite) TestSymbols() {
	recorder := suite.request(suite.newServer(nil), http.MethodGet, "/api/v1/symbols", nil)
	suite.Require().Equal(http.StatusOK, recorder.Code)

	var symbols []SymbolInfo
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &symbols))
	suite.Len(symbols, 20)
	suite.Equal("^GSPC", symbols[0].Symbol)
}

func (suite *ServerTestSuite) TestBacktestWithRealData() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &fixedFetcher{series: flatSeries("AAPL", start, 90, 100)}

	recorder := suite.request(suite.newServer(fetcher), http.MethodPost, "/api/v1/backtest", validRequest())
	suite.Require().Equal(http.StatusOK, recorder.Code, recorder.Body.String())

	var response BacktestResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))

	suite.Equal(types.DataSourceReal, response.DataSource)
	suite.Equal("AAPL", response.Report.Symbol)
	suite.Len(response.EquityCurve.Dates, 90)
	suite.Len(response.EquityCurve.PortfolioValues, 90)

	// January, February and March funded on top of the initial cash.
	suite.InDelta(11500.0, response.Report.TotalInvested, 1e-9)
}

func (suite *ServerTestSuite) TestBacktestFallsBackToMock() {
	fetcher := &fixedFetcher{err: errors.New(errors.ErrCodeRateLimited, "too many requests")}

	recorder := suite.request(suite.newServer(fetcher), http.MethodPost, "/api/v1/backtest", validRequest())
	suite.Require().Equal(http.StatusOK, recorder.Code, recorder.Body.String())

	var response BacktestResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	suite.Equal(types.DataSourceMock, response.DataSource)
	suite.NotEmpty(response.EquityCurve.Dates)
}

func (suite *ServerTestSuite) TestBacktestWithoutFetcherUsesMock() {
	recorder := suite.request(suite.newServer(nil), http.MethodPost, "/api/v1/backtest", validRequest())
	suite.Require().Equal(http.StatusOK, recorder.Code, recorder.Body.String())

	var response BacktestResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	suite.Equal(types.DataSourceMock, response.DataSource)
}

func (suite *ServerTestSuite) TestBacktestRejectsBadDates() {
	req := validRequest()
	req.StartDate = "not-a-date"

	recorder := suite.request(suite.newServer(nil), http.MethodPost, "/api/v1/backtest", req)
	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *ServerTestSuite) TestBacktestRejectsInvertedRange() {
	req := validRequest()
	req.StartDate, req.EndDate = req.EndDate, req.StartDate

	recorder := suite.request(suite.newServer(nil), http.MethodPost, "/api/v1/backtest", req)
	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *ServerTestSuite) TestBacktestRejectsUnknownStrategy() {
	req := validRequest()
	req.Strategy = "momentum"

	recorder := suite.request(suite.newServer(nil), http.MethodPost, "/api/v1/backtest", req)
	suite.Equal(http.StatusBadRequest, recorder.Code)

	var body map[string]any
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
	suite.Contains(body["error"], "momentum")
}

func (suite *ServerTestSuite) TestBacktestRejectsBadFrequency() {
	req := validRequest()
	req.Frequency = "daily"

	recorder := suite.request(suite.newServer(nil), http.MethodPost, "/api/v1/backtest", req)
	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *ServerTestSuite) TestBacktestRejectsNegativeCash() {
	req := validRequest()
	req.InitialCash = -100

	recorder := suite.request(suite.newServer(nil), http.MethodPost, "/api/v1/backtest", req)
	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *ServerTestSuite) TestBacktestWithStrategyParameters() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &fixedFetcher{series: flatSeries("AAPL", start, 90, 100)}

	req := validRequest()
	req.Strategy = string(strategy.StrategyTypeRSI)
	req.Parameters = map[string]float64{
		"period":        2,
		"buy_threshold": 25,
	}

	recorder := suite.request(suite.newServer(fetcher), http.MethodPost, "/api/v1/backtest", req)
	suite.Require().Equal(http.StatusOK, recorder.Code, recorder.Body.String())

	var response BacktestResponse
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &response))
	suite.Equal(string(strategy.StrategyTypeRSI), response.Report.Strategy)
}
