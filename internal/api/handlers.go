package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	backtest "github.com/steadyvest/steadyvest/internal/backtest/engine"
	enginev1 "github.com/steadyvest/steadyvest/internal/backtest/engine/engine_v1"
	"github.com/steadyvest/steadyvest/internal/strategy"
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
	"github.com/steadyvest/steadyvest/pkg/marketdata"
	"github.com/steadyvest/steadyvest/pkg/marketdata/provider"
)

const dateLayout = "2006-01-02"

// BacktestRequest is the body of POST /api/v1/backtest.
type BacktestRequest struct {
	Symbol             string             `json:"symbol"`
	StartDate          string             `json:"start_date"`
	EndDate            string             `json:"end_date"`
	Strategy           string             `json:"strategy"`
	Parameters         map[string]float64 `json:"parameters"`
	InitialCash        float64            `json:"initial_cash"`
	ContributionAmount float64            `json:"contribution_amount"`
	Frequency          string             `json:"frequency"`
	// CommissionRate defaults to the engine's documented rate when omitted.
	CommissionRate *float64 `json:"commission_rate"`
}

// EquityCurveResponse is the chart-ready shape of the equity curve.
type EquityCurveResponse struct {
	Dates           []string  `json:"dates"`
	PortfolioValues []float64 `json:"portfolio_values"`
}

// BacktestResponse is the body of a successful backtest run.
type BacktestResponse struct {
	Report      types.PerformanceReport `json:"report"`
	EquityCurve EquityCurveResponse     `json:"equity_curve"`
	DataSource  types.DataSource        `json:"data_source"`
}

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	catalog, err := strategy.Catalog()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)

		return
	}

	s.writeJSON(w, http.StatusOK, catalog)
}

func (s *Server) handleSymbols(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, PopularSymbols())
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid request body", err))

		return
	}

	startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrapf(errors.ErrCodeInvalidDateRange, err, "invalid start_date %q", req.StartDate))

		return
	}

	endDate, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrapf(errors.ErrCodeInvalidDateRange, err, "invalid end_date %q", req.EndDate))

		return
	}

	if !startDate.Before(endDate) {
		s.writeError(w, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidDateRange, "start_date must be before end_date"))

		return
	}

	frequency, err := types.ParseFrequency(req.Frequency)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)

		return
	}

	runStrategy, err := strategy.CreateStrategy(strategy.StrategyType(req.Strategy), req.Parameters)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)

		return
	}

	series, dataSource := s.fetchSeries(r, req.Symbol, startDate, endDate)
	if series == nil {
		s.writeError(w, http.StatusBadGateway, errors.Newf(errors.ErrCodeDataUnavailable, "no data available for %s", req.Symbol))

		return
	}

	commissionRate := enginev1.DefaultCommissionRate
	if req.CommissionRate != nil {
		commissionRate = *req.CommissionRate
	}

	result, err := s.runBacktest(r, runStrategy, series, dataSource, backtestSettings{
		initialCash:        req.InitialCash,
		contributionAmount: req.ContributionAmount,
		frequency:          frequency,
		commissionRate:     commissionRate,
	})
	if err != nil {
		s.writeError(w, statusForError(err), err)

		return
	}

	s.writeJSON(w, http.StatusOK, BacktestResponse{
		Report: result.Report,
		EquityCurve: EquityCurveResponse{
			Dates:           result.EquityCurve.Dates(),
			PortfolioValues: result.EquityCurve.Values(),
		},
		DataSource: result.Report.DataSource,
	})
}

// fetchSeries tries the real fetcher first and falls back to the
// deterministic mock generator, tagging the result accordingly.
func (s *Server) fetchSeries(r *http.Request, symbol string, startDate, endDate time.Time) (*types.BarSeries, types.DataSource) {
	if s.config.Fetcher != nil {
		series, err := s.config.Fetcher.FetchBars(r.Context(), marketdata.FetchParams{
			Symbol:    symbol,
			StartDate: startDate,
			EndDate:   endDate,
		})
		if err == nil {
			return series, types.DataSourceReal
		}

		s.log.Warn("falling back to mock data",
			zap.String("symbol", symbol),
			zap.Error(err),
		)
	}

	bars, err := provider.NewMockProvider().FetchDailyBars(r.Context(), symbol, startDate, endDate)
	if err != nil || len(bars) == 0 {
		return nil, types.DataSourceMock
	}

	return &types.BarSeries{Symbol: symbol, Bars: bars}, types.DataSourceMock
}

type backtestSettings struct {
	initialCash        float64
	contributionAmount float64
	frequency          types.Frequency
	commissionRate     float64
}

func (s *Server) runBacktest(r *http.Request, runStrategy strategy.Strategy, series *types.BarSeries, dataSource types.DataSource, settings backtestSettings) (backtest.RunResult, error) {
	configYAML, err := yaml.Marshal(map[string]any{
		"schema_version":      enginev1.ConfigSchemaVersion,
		"initial_cash":        settings.initialCash,
		"contribution_amount": settings.contributionAmount,
		"frequency":           string(settings.frequency),
		"commission_rate":     settings.commissionRate,
	})
	if err != nil {
		return backtest.RunResult{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to build engine config", err)
	}

	engine := enginev1.NewBacktestEngineV1()
	if err := engine.Initialize(string(configYAML)); err != nil {
		return backtest.RunResult{}, err
	}

	if err := engine.SetSeries(series); err != nil {
		return backtest.RunResult{}, err
	}

	if err := engine.SetDataSource(dataSource); err != nil {
		return backtest.RunResult{}, err
	}

	if err := engine.LoadStrategy(runStrategy); err != nil {
		return backtest.RunResult{}, err
	}

	results, err := engine.Run(r.Context(), optional.None[backtest.OnProcessBarCallback]())
	if err != nil {
		return backtest.RunResult{}, err
	}

	return results[0], nil
}

// statusForError maps caller mistakes to 400 and everything else to 500.
func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidParameter,
		errors.ErrCodeInvalidConfiguration,
		errors.ErrCodeInvalidDateRange,
		errors.ErrCodeInvalidFrequency,
		errors.ErrCodeStrategyNotFound,
		errors.ErrCodeStrategyConfigError,
		errors.ErrCodeBacktestConfigError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
