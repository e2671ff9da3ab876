package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/kukudrill/internal/models"
)

type groupRequest struct {
	UserIDs []string `json:"user_ids"`
}

func (s *Server) handleUserAnalytics(w http.ResponseWriter, r *http.Request) {
	report, err := s.StatsService.Analyze(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleGroupAnalytics(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	report, err := s.StatsService.AnalyzeGroup(r.Context(), req.UserIDs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleCohorts(w http.ResponseWriter, r *http.Request) {
	cohorts, err := s.StatsService.CohortStats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cohorts)
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := s.StatsService.ClassStats(r.Context(), chi.URLParam(r, "grade"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, classes)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind := models.LeaderboardKind(chi.URLParam(r, "kind"))
	entries, err := s.ProgressService.Leaderboard(r.Context(), kind)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	writeJSON(w, r, http.StatusOK, entries)
}
