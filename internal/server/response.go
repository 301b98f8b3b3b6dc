package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"l2scope/internal/model"
)

type errorEnvelope struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response failed", zap.Error(err))
	}
}

// writeError maps the fetch taxonomy onto HTTP statuses and surfaces
// the error text as the user-visible message.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrPlanRequired):
		status = http.StatusPaymentRequired
	case errors.Is(err, model.ErrUpstreamUnavailable),
		errors.Is(err, model.ErrMalformedResponse):
		status = http.StatusBadGateway
	case errors.Is(err, model.ErrConfiguration):
		status = http.StatusInternalServerError
	}

	s.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	s.writeJSON(w, status, errorEnvelope{Error: err.Error()})
}
