package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"l2scope/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTvl(w http.ResponseWriter, r *http.Request) {
	network, ok := s.network(w, r)
	if !ok {
		return
	}
	points, err := s.svc.TVL(r.Context(), network)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"network": network,
		"points":  points,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	network, ok := s.network(w, r)
	if !ok {
		return
	}
	rows, err := s.svc.ChainMetrics(r.Context(), network)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"network": network,
		"rows":    rows,
	})
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	network, ok := s.network(w, r)
	if !ok {
		return
	}
	snapshots, err := s.svc.Snapshots(r.Context(), network)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"network":   network,
		"snapshots": snapshots,
	})
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	network, ok := s.network(w, r)
	if !ok {
		return
	}
	corr, err := s.svc.Correlation(r.Context(), network)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"network":          network,
		"gas_fee_tx_count": corr,
	})
}

func (s *Server) handleGas(w http.ResponseWriter, r *http.Request) {
	network, ok := s.network(w, r)
	if !ok {
		return
	}
	price, err := s.svc.GasPrice(r.Context(), network)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, price)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"networks": s.svc.Overview(r.Context()),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.svc.CacheStats())
}

func (s *Server) network(w http.ResponseWriter, r *http.Request) (model.Network, bool) {
	network, err := model.ParseNetwork(mux.Vars(r)["network"])
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: err.Error()})
		return "", false
	}
	return network, true
}
