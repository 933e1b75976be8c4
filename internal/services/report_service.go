package services

import (
	"context"

	"github.com/8bitgaijin/Learniverse-sub000/internal/errors"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

// ReportService assembles per-session reports. It relies on the completeness
// invariant: every lesson in a sequence leaves exactly one SessionLesson row,
// completed or tombstoned.
type ReportService interface {
	SessionReport(ctx context.Context, sessionID int64, filter models.ReportFilter) (*models.SessionReport, error)
}

type reportService struct {
	students       repository.StudentRepository
	sessions       repository.SessionRepository
	sessionLessons repository.SessionLessonRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	students repository.StudentRepository,
	sessions repository.SessionRepository,
	sessionLessons repository.SessionLessonRepository,
) ReportService {
	return &reportService{students: students, sessions: sessions, sessionLessons: sessionLessons}
}

func (s *reportService) SessionReport(ctx context.Context, sessionID int64, filter models.ReportFilter) (*models.SessionReport, error) {
	log := logger.FromContext(ctx)
	log.Debug("building session report: session_id=%d", sessionID)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, errors.NewStoreError("get session", err)
	}
	if session == nil {
		return nil, errors.NewNotFoundError("session", sessionID)
	}

	student, err := s.students.Get(ctx, session.StudentID)
	if err != nil {
		log.Error("failed to get student: %v", err)
		return nil, errors.NewStoreError("get student", err)
	}
	if student == nil {
		return nil, errors.NewNotFoundError("student", session.StudentID)
	}

	rows, err := s.sessionLessons.ListForSession(ctx, sessionID, filter)
	if err != nil {
		log.Error("failed to list session lessons: %v", err)
		return nil, errors.NewStoreError("list session lessons", err)
	}

	log.Debug("report built: session_id=%d, rows=%d", sessionID, len(rows))
	return &models.SessionReport{
		Session:     *session,
		StudentName: student.Name,
		Rows:        rows,
	}, nil
}
