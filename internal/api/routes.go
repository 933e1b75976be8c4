package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/8bitgaijin/Learniverse-sub000/internal/db"
	"github.com/8bitgaijin/Learniverse-sub000/internal/services"
)

// Server is the JSON gateway the presentation layer talks to. It exposes the
// engine's operations and the advisory statistics (streak, skip eligibility,
// incomplete-session detection).
type Server struct {
	DB       *db.DB
	Students services.StudentService
	Sessions services.SessionService
	Progress services.ProgressService
	Skips    services.SkipService
	Streaks  services.StreakService
	Reports  services.ReportService
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Post("/students", s.handleRegisterStudent)
	r.Get("/students/{name}/streak", s.handleStreak)
	r.Get("/students/{name}/skip-eligibility", s.handleSkipEligibility)
	r.Get("/students/{name}/incomplete-today", s.handleIncompleteToday)

	r.Post("/sessions", s.handleStartSession)
	r.Post("/sessions/{id}/end", s.handleEndSession)
	r.Get("/sessions/{id}/level", s.handleGetLevel)
	r.Post("/sessions/{id}/result", s.handleRecordResult)
	r.Post("/sessions/{id}/skip", s.handleRecordSkip)
	r.Get("/sessions/{id}/report", s.handleSessionReport)

	return r
}
