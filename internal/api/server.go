// Package api exposes the backtest engine over HTTP: the strategy
// catalog, the popular-symbol list, and a backtest endpoint that runs a
// simulation and returns its metrics and equity curve.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/steadyvest/steadyvest/internal/logger"
	"github.com/steadyvest/steadyvest/internal/types"
	"github.com/steadyvest/steadyvest/pkg/errors"
	"github.com/steadyvest/steadyvest/pkg/marketdata"
)

// BarFetcher is the slice of the market data client the server needs.
type BarFetcher interface {
	FetchBars(ctx context.Context, params marketdata.FetchParams) (*types.BarSeries, error)
}

// ServerConfig wires the server's collaborators. Fetcher may be nil, in
// which case every backtest runs against mock data.
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080".
	Address string
	// Fetcher provides real market data.
	Fetcher BarFetcher
}

// Server hosts the REST API.
type Server struct {
	config     ServerConfig
	log        *logger.Logger
	httpServer *http.Server
}

func NewServer(config ServerConfig, log *logger.Logger) *Server {
	s := &Server{
		config:     config,
		log:        log,
		httpServer: nil,
	}

	s.httpServer = &http.Server{
		Addr:              config.Address,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/strategies", s.handleStrategies).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/symbols", s.handleSymbols).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/backtest", s.handleBacktest).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return router
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe blocks serving the API until the server shuts down.
func (s *Server) ListenAndServe() error {
	s.log.Info("api server listening", zap.String("address", s.config.Address))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string           `json:"error"`
	Code  errors.ErrorCode `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorBody{
		Error: err.Error(),
		Code:  errors.GetCode(err),
	})
}
