package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/kukudrill/internal/logger"
	"github.com/vytor/kukudrill/internal/models"
)

type createUserRequest struct {
	Nickname string `json:"nickname"`
	Grade    string `json:"grade"`
	Class    string `json:"class"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debug("listing users")

	var filter models.UserFilter
	q := r.URL.Query()
	if q.Has("grade") {
		grade := q.Get("grade")
		filter.Grade = &grade
	}
	if q.Has("class") {
		class := q.Get("class")
		filter.Class = &class
	}

	users, err := s.UserService.ListUsers(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, r, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.CreateUser(r.Context(), req.Nickname, req.Grade, req.Class)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.UserService.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var update models.UserUpdate
	if err := decodeJSON(r, &update); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.UserService.UpdateUser(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.UserService.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.UserService.GetUser(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	progress, err := s.ProgressService.GetProgress(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, progress)
}
