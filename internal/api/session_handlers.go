package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/8bitgaijin/Learniverse-sub000/internal/clock"
	"github.com/8bitgaijin/Learniverse-sub000/internal/errors"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
)

// clockNow is swapped out in tests.
var clockNow = time.Now

func sessionIDParam(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, errors.NewValidationError("id", "must be an integer session id")
	}
	return id, nil
}

type startSessionRequest struct {
	Student string `json:"student"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid start session payload: %v", err)
		handleError(w, r, errors.NewValidationError("body", "invalid JSON"))
		return
	}
	if req.Student == "" {
		handleError(w, r, errors.NewValidationError("student", "cannot be empty"))
		return
	}

	// Detection only: the flag lets the presentation layer warn the
	// operator; the engine does not repair or resume.
	incomplete := s.Sessions.WasLastSessionIncompleteToday(r.Context(), req.Student)

	sessionID, err := s.Sessions.StartSession(r.Context(), req.Student)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"session_id":               sessionID,
		"incomplete_session_today": incomplete,
	})
}

type endSessionRequest struct {
	TotalQuestions     int     `json:"total_questions"`
	TotalCorrect       int     `json:"total_correct"`
	AvgTimePerQuestion float64 `json:"avg_time_per_question"`
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req endSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid end session payload: %v", err)
		handleError(w, r, errors.NewValidationError("body", "invalid JSON"))
		return
	}

	if err := s.Sessions.EndSession(r.Context(), id, req.TotalQuestions, req.TotalCorrect, req.AvgTimePerQuestion); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	lesson := r.URL.Query().Get("lesson")
	if lesson == "" {
		handleError(w, r, errors.NewValidationError("lesson", "query parameter required"))
		return
	}

	level, err := s.Progress.GetLevel(r.Context(), id, lesson)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"lesson":     lesson,
		"level":      level,
	})
}

type recordResultRequest struct {
	Lesson             string   `json:"lesson"`
	QuestionsAsked     int      `json:"questions_asked"`
	QuestionsCorrect   int      `json:"questions_correct"`
	AvgTimePerQuestion *float64 `json:"avg_time_per_question,omitempty"`
	StartedAt          string   `json:"started_at,omitempty"`
	EndedAt            string   `json:"ended_at,omitempty"`
}

func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req recordResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid result payload: %v", err)
		handleError(w, r, errors.NewValidationError("body", "invalid JSON"))
		return
	}
	if req.Lesson == "" {
		handleError(w, r, errors.NewValidationError("lesson", "cannot be empty"))
		return
	}
	if req.QuestionsAsked < 0 || req.QuestionsCorrect < 0 || req.QuestionsCorrect > req.QuestionsAsked {
		handleError(w, r, errors.NewValidationError("questions_correct", "must be between 0 and questions_asked"))
		return
	}

	attempt, err := attemptFromRequest(req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Progress.RecordAttempt(r.Context(), id, req.Lesson, attempt); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Progress.RecordOutcome(r.Context(), id, req.Lesson); err != nil {
		handleError(w, r, err)
		return
	}

	level, err := s.Progress.GetLevel(r.Context(), id, req.Lesson)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"lesson":     req.Lesson,
		"level":      level,
	})
}

// attemptFromRequest fills in timing: explicit timestamps when the client
// measured them, the current instant otherwise.
func attemptFromRequest(req recordResultRequest) (models.LessonAttempt, error) {
	attempt := models.LessonAttempt{
		QuestionsAsked:     req.QuestionsAsked,
		QuestionsCorrect:   req.QuestionsCorrect,
		AvgTimePerQuestion: req.AvgTimePerQuestion,
	}

	now := clock.Format(clockNow())
	attempt.StartTime = now
	attempt.EndTime = now
	if req.StartedAt != "" && req.EndedAt != "" {
		started, err := clock.Parse(req.StartedAt)
		if err != nil {
			return attempt, errors.NewValidationError("started_at", "must match YYYY-MM-DD HH:MM:SS")
		}
		ended, err := clock.Parse(req.EndedAt)
		if err != nil {
			return attempt, errors.NewValidationError("ended_at", "must match YYYY-MM-DD HH:MM:SS")
		}
		attempt.StartTime = req.StartedAt
		attempt.EndTime = req.EndedAt
		attempt.TotalTime = ended.Sub(started).Seconds()
	}
	return attempt, nil
}

type recordSkipRequest struct {
	Lesson string `json:"lesson"`
}

func (s *Server) handleRecordSkip(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req recordSkipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid skip payload: %v", err)
		handleError(w, r, errors.NewValidationError("body", "invalid JSON"))
		return
	}
	if req.Lesson == "" {
		handleError(w, r, errors.NewValidationError("lesson", "cannot be empty"))
		return
	}

	if err := s.Skips.RecordSkipByTitle(r.Context(), id, req.Lesson); err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleSessionReport(w http.ResponseWriter, r *http.Request) {
	id, err := sessionIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := models.ReportFilter{
		LessonTitle:   r.URL.Query().Get("lesson"),
		SkippedOnly:   r.URL.Query().Get("skipped_only") == "true",
		StartedAfter:  r.URL.Query().Get("from"),
		StartedBefore: r.URL.Query().Get("to"),
	}

	report, err := s.Reports.SessionReport(r.Context(), id, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	rows := make([]map[string]any, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, map[string]any{
			"lesson":                row.LessonTitle,
			"skipped":               row.Skipped,
			"questions_asked":       row.QuestionsAsked,
			"questions_correct":     row.QuestionsCorrect,
			"percent_correct":       row.PercentCorrect,
			"total_time":            row.TotalTime,
			"avg_time_per_question": row.AvgTimePerQuestion,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"session_id":      report.Session.ID,
		"student":         report.StudentName,
		"start_time":      report.Session.StartTime,
		"end_time":        report.Session.EndTime,
		"total_time":      report.Session.TotalTime,
		"total_questions": report.Session.TotalQuestions,
		"total_correct":   report.Session.TotalCorrect,
		"lessons":         rows,
	})
}
