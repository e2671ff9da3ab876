package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/kukudrill/internal/logger"
)

type startSessionRequest struct {
	Multipliers []int `json:"multipliers"`
}

type answerRequest struct {
	Choice int `json:"choice"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("start session request: user_id=%s", userID)

	snap, err := s.DrillService.StartSession(r.Context(), userID, req.Multipliers)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, snap)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.DrillService.Session(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	snap, err := s.DrillService.SubmitAnswer(r.Context(), chi.URLParam(r, "handle"), req.Choice)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	if err := s.DrillService.Abandon(r.Context(), chi.URLParam(r, "handle")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
