package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/8bitgaijin/Learniverse-sub000/internal/errors"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
)

type registerStudentRequest struct {
	Name  string  `json:"name"`
	Age   *int    `json:"age,omitempty"`
	Email *string `json:"email,omitempty"`
}

func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req registerStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid register payload: %v", err)
		handleError(w, r, errors.NewValidationError("body", "invalid JSON"))
		return
	}

	student, err := s.Students.Register(r.Context(), req.Name, req.Age, req.Email)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":   student.ID,
		"name": student.Name,
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	// Advisory: the service already degrades to 0 on any failure.
	streak := s.Streaks.CurrentStreak(r.Context(), name)

	respondJSON(w, http.StatusOK, map[string]any{
		"student": name,
		"streak":  streak,
	})
}

func (s *Server) handleSkipEligibility(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	lesson := r.URL.Query().Get("lesson")
	if lesson == "" {
		handleError(w, r, errors.NewValidationError("lesson", "query parameter required"))
		return
	}

	eligible := s.Skips.PerfectScoreYesterday(r.Context(), name, lesson)

	respondJSON(w, http.StatusOK, map[string]any{
		"student":  name,
		"lesson":   lesson,
		"eligible": eligible,
	})
}

func (s *Server) handleIncompleteToday(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	incomplete := s.Sessions.WasLastSessionIncompleteToday(r.Context(), name)

	respondJSON(w, http.StatusOK, map[string]any{
		"student":    name,
		"incomplete": incomplete,
	})
}
