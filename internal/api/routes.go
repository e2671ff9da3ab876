package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const requestTimeout = 15 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(timeoutMiddleware(requestTimeout))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Post("/", s.handleCreateUser)
		r.Get("/{id}", s.handleGetUser)
		r.Put("/{id}", s.handleUpdateUser)
		r.Delete("/{id}", s.handleDeleteUser)
		r.Get("/{id}/progress", s.handleGetProgress)
		r.Get("/{id}/analytics", s.handleUserAnalytics)
		r.Post("/{id}/sessions", s.handleStartSession)
	})

	r.Route("/sessions/{handle}", func(r chi.Router) {
		r.Get("/", s.handleGetSession)
		r.Post("/answer", s.handleSubmitAnswer)
		r.Delete("/", s.handleAbandonSession)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Post("/group", s.handleGroupAnalytics)
		r.Get("/cohorts", s.handleCohorts)
		r.Get("/cohorts/{grade}/classes", s.handleClasses)
	})

	r.Get("/leaderboard/{kind}", s.handleLeaderboard)
	return r
}
