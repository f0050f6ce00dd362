// internal/httpserver/routes_history.go
//
// Aggregate statistics over finished rounds.
//   - GET /history/summary       → rounds, solved, contradictions, avg/max guesses
//   - GET /history/distribution  → solved rounds per guess count
//
// Both accept ?mode=strict|relaxed; no mode means all rounds.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/history"
)

// mountHistory registers all /history routes.
func (s *Server) mountHistory(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/distribution", s.handleDistribution)
	})
}

// modeParam returns the normalized ?mode= value, "" for all modes.
func modeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return "", true
	}
	m, err := game.ParseMode(raw)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return string(m), true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(w, r)
	if !ok {
		return
	}
	sum, err := s.history.Summary(r.Context(), mode)
	if err != nil {
		log.Error().Err(err).Msg("history summary")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(sum)
}

type distributionRes struct {
	Mode    string           `json:"mode,omitempty"`
	Buckets []history.Bucket `json:"buckets"`
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	mode, ok := modeParam(w, r)
	if !ok {
		return
	}
	b, err := s.history.Distribution(r.Context(), mode)
	if err != nil {
		log.Error().Err(err).Msg("history distribution")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(distributionRes{Mode: mode, Buckets: b})
}
