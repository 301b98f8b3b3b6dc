package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"l2scope/internal/cache"
	"l2scope/internal/model"
)

// MetricsProvider is the slice of the metrics service the API serves.
type MetricsProvider interface {
	TVL(ctx context.Context, network model.Network) ([]model.TvlPoint, error)
	ChainMetrics(ctx context.Context, network model.Network) ([]model.MetricRow, error)
	Snapshots(ctx context.Context, network model.Network) ([]model.DailySnapshot, error)
	Correlation(ctx context.Context, network model.Network) (float64, error)
	Overview(ctx context.Context) []model.NetworkSummary
	GasPrice(ctx context.Context, network model.Network) (model.GasPrice, error)
	CacheStats() map[string]cache.Stats
}

// Server exposes the chart data over a JSON REST API.
type Server struct {
	svc    MetricsProvider
	logger *zap.Logger
	router *mux.Router
}

// New creates the API server and registers its routes.
func New(svc MetricsProvider, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		svc:    svc,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/tvl/{network}", s.handleTvl).Methods("GET")
	api.HandleFunc("/metrics/{network}", s.handleMetrics).Methods("GET")
	api.HandleFunc("/snapshots/{network}", s.handleSnapshots).Methods("GET")
	api.HandleFunc("/correlation/{network}", s.handleCorrelation).Methods("GET")
	api.HandleFunc("/gas/{network}", s.handleGas).Methods("GET")
	api.HandleFunc("/overview", s.handleOverview).Methods("GET")
	api.HandleFunc("/cache/stats", s.handleCacheStats).Methods("GET")
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves the API until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("api server listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
