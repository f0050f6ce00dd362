// internal/httpserver/routes_round.go
//
// HTTP routes for playing a round against a remote oracle.
//   - POST /round/new              → start a round, returns the first guess
//   - POST /round/feedback         → answer the current guess with black/white
//   - GET  /round/{id}             → round state and turn history
//   - GET  /round/{id}/candidates  → remaining codes (limit query param)
//
// Rounds live in the in-memory store; finished rounds are written to the
// history database and counted in the owner's stats (best effort).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/history"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/store"
)

// mountRounds registers all /round routes.
func (s *Server) mountRounds(r chi.Router) {
	r.Route("/round", func(r chi.Router) {
		r.Post("/new", s.handleNewRound)
		r.Post("/feedback", s.handleFeedback)
		r.Get("/{id}", s.handleGetRound)
		r.Get("/{id}/candidates", s.handleCandidates)
	})
}

type newRoundReq struct {
	Mode    string `json:"mode" validate:"omitempty,oneof=strict relaxed relax"`
	Palette string `json:"palette" validate:"omitempty,max=32"`
}

type feedbackReq struct {
	RoundID string `json:"roundId" validate:"required"`
	Black   *int   `json:"black" validate:"required,min=0,max=4"`
	White   *int   `json:"white" validate:"required,min=0,max=4"`
}

// roundRes describes the round after each request.
type roundRes struct {
	RoundID    string      `json:"roundId"`
	Mode       game.Mode   `json:"mode"`
	Status     game.Status `json:"status"`
	Guess      string      `json:"guess,omitempty"`   // digit form
	Display    string      `json:"display,omitempty"` // palette form
	Extension  bool        `json:"extension"`
	Candidates int         `json:"candidates"`
	Guesses    int         `json:"guesses"`
	Secret     string      `json:"secret,omitempty"`
	Error      string      `json:"error,omitempty"`
	Turns      []game.Turn `json:"turns,omitempty"`
}

func describe(e store.Entry, withTurns bool) roundRes {
	r := e.Round
	res := roundRes{
		RoundID:    r.ID(),
		Mode:       r.Mode(),
		Status:     r.Status(),
		Candidates: r.CandidateCount(),
		Guesses:    r.Guesses(),
	}
	if res.Status == game.StatusContinuing {
		g, ext := r.NextGuess()
		res.Guess, res.Extension = g.String(), ext
		if p, err := palette.Builtin(e.Palette); err == nil {
			res.Display = p.Format(g)
		}
	}
	if c, ok := r.Secret(); ok {
		res.Secret = c.String()
	}
	if err := r.Err(); err != nil {
		res.Error = err.Error()
	}
	if withTurns {
		res.Turns = r.Turns()
	}
	return res
}

// handleNewRound starts a round for the caller (user or anonymous cookie).
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	var req newRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Palette == "" {
		req.Palette = "digits"
	}
	if _, err := palette.Builtin(req.Palette); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	round, err := s.engine.NewRound(r.Context(), "", mode)
	if err != nil {
		log.Error().Err(err).Msg("new round")
		http.Error(w, `{"error":"engine_failed"}`, http.StatusServiceUnavailable)
		return
	}
	owner, _ := s.ownerOf(w, r)
	entry := store.Entry{Round: round, Owner: owner, Palette: req.Palette}
	if err := s.store.Save(r.Context(), entry); err != nil {
		log.Error().Err(err).Msg("save round")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	s.metrics.RoundStarted(mode, history.SourceHTTP)
	s.metrics.SetActiveRounds(s.store.Len())
	log.Info().Str("round", round.ID()).Str("mode", string(mode)).Msg("round started")

	_ = json.NewEncoder(w).Encode(describe(entry, false))
}

// handleFeedback applies the oracle's answer to the current guess.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	entry, ok := s.lookup(w, r, req.RoundID)
	if !ok {
		return
	}

	fb := game.Feedback{Black: *req.Black, White: *req.White}
	st, err := entry.Round.SubmitFeedback(r.Context(), fb)
	switch {
	case errors.Is(err, game.ErrRoundOver):
		http.Error(w, `{"error":"round_over"}`, http.StatusConflict)
		return
	case errors.Is(err, game.ErrFeedbackRange), errors.Is(err, game.ErrFeedbackColumns),
		errors.Is(err, game.ErrFeedbackImpossible):
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Warn().Err(err).Str("round", req.RoundID).Msg("submit feedback")
		http.Error(w, `{"error":"engine_failed"}`, http.StatusServiceUnavailable)
		return
	}

	_ = s.store.Save(r.Context(), entry)
	if guess, ext := entry.Round.NextGuess(); st == game.StatusContinuing && ext {
		s.metrics.ExtensionGuess(entry.Round.Mode())
		log.Debug().Str("round", req.RoundID).Str("guess", guess.String()).Msg("extension guess")
	}
	if st != game.StatusContinuing {
		s.finishRound(r.Context(), entry, currentUser(r))
	}

	_ = json.NewEncoder(w).Encode(describe(entry, false))
}

// finishRound persists a finished round and updates the owner's counters.
// Failures are logged; the client already has its answer.
func (s *Server) finishRound(ctx context.Context, e store.Entry, me *authUser) {
	r := e.Round
	s.metrics.RoundFinished(r.Mode(), r.Status(), r.Guesses())
	log.Info().Str("round", r.ID()).Str("status", string(r.Status())).Int("guesses", r.Guesses()).Msg("round finished")

	res := history.FromRound(r, history.SourceHTTP)
	if me != nil && me.ID == e.Owner {
		res.UserID = me.ID
	} else {
		res.AnonID = e.Owner
	}
	if err := s.history.Record(ctx, res); err != nil {
		log.Warn().Err(err).Str("round", r.ID()).Msg("record round")
	}
	if res.UserID != "" {
		if err := s.bumpStats(ctx, res.UserID, r.Status() == game.StatusSuccess); err != nil {
			log.Warn().Err(err).Str("user", res.UserID).Msg("bump stats")
		}
	}
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(describe(entry, true))
}

type candidatesRes struct {
	Count      int      `json:"count"`
	Candidates []string `json:"candidates"`
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.lookup(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = n
	}

	codes := entry.Round.Candidates()
	res := candidatesRes{Count: len(codes), Candidates: []string{}}
	for _, c := range codes[:min(limit, len(codes))] {
		res.Candidates = append(res.Candidates, c.String())
	}
	_ = json.NewEncoder(w).Encode(res)
}

// lookup finds a round the caller owns; other callers get the same 404 as
// for unknown IDs.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request, id string) (store.Entry, bool) {
	entry, err := s.store.Get(r.Context(), id)
	if err != nil || !s.owns(r, entry) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return store.Entry{}, false
	}
	return entry, true
}

func (s *Server) owns(r *http.Request, e store.Entry) bool {
	if me := currentUser(r); me != nil && me.ID == e.Owner {
		return true
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value != "" && c.Value == e.Owner
}
