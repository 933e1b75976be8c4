package services

import (
	"context"
	"math"
	"time"

	"github.com/8bitgaijin/Learniverse-sub000/internal/clock"
	"github.com/8bitgaijin/Learniverse-sub000/internal/errors"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

// SessionService is the session lifecycle manager: it opens sessions, detects
// a dangling incomplete session from earlier the same day, and closes a
// session with aggregate statistics.
type SessionService interface {
	StartSession(ctx context.Context, studentName string) (int64, error)
	// WasLastSessionIncompleteToday is advisory: every failure degrades to
	// false so presentation warnings can never block the session flow.
	WasLastSessionIncompleteToday(ctx context.Context, studentName string) bool
	// EndSession writes end_time and aggregates. An unknown session id is
	// logged and swallowed rather than surfaced: closing must never crash
	// the game loop.
	EndSession(ctx context.Context, sessionID int64, totalQuestions, totalCorrect int, avgTime float64) error
}

type sessionService struct {
	students repository.StudentRepository
	sessions repository.SessionRepository
	now      func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(students repository.StudentRepository, sessions repository.SessionRepository) SessionService {
	return &sessionService{students: students, sessions: sessions, now: time.Now}
}

func (s *sessionService) StartSession(ctx context.Context, studentName string) (int64, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: student=%s", studentName)

	student, err := s.students.GetByName(ctx, studentName)
	if err != nil {
		log.Error("failed to resolve student %q: %v", studentName, err)
		return 0, errors.NewStoreError("resolve student", err)
	}
	if student == nil {
		return 0, errors.NewNotFoundError("student", studentName)
	}

	id, err := s.sessions.Insert(ctx, student.ID, clock.Format(s.now()))
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return 0, errors.NewStoreError("insert session", err)
	}

	log.Info("session started: session_id=%d, student=%s", id, studentName)
	return id, nil
}

func (s *sessionService) WasLastSessionIncompleteToday(ctx context.Context, studentName string) bool {
	log := logger.FromContext(ctx)
	log.Debug("checking for incomplete session today: student=%s", studentName)

	student, err := s.students.GetByName(ctx, studentName)
	if err != nil || student == nil {
		log.Debug("student lookup came up empty (err=%v), treating as no incomplete session", err)
		return false
	}

	dayStart, dayEnd := clock.DayWindow(s.now())
	last, err := s.sessions.LatestInWindow(ctx, student.ID, dayStart, dayEnd)
	if err != nil {
		log.Warn("failed to look up today's sessions, treating as no incomplete session: %v", err)
		return false
	}
	if last == nil {
		return false
	}
	incomplete := last.EndTime == nil
	if incomplete {
		log.Info("detected incomplete session from today: session_id=%d", last.ID)
	}
	return incomplete
}

func (s *sessionService) EndSession(ctx context.Context, sessionID int64, totalQuestions, totalCorrect int, avgTime float64) error {
	log := logger.FromContext(ctx)
	log.Debug("ending session: session_id=%d, questions=%d, correct=%d", sessionID, totalQuestions, totalCorrect)

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to look up session %d: %v", sessionID, err)
		return errors.NewStoreError("get session", err)
	}
	if session == nil {
		// Deliberate: an unknown id is logged, not raised.
		log.Warn("end session called for unknown session id %d, ignoring", sessionID)
		return nil
	}

	started, err := clock.Parse(session.StartTime)
	if err != nil {
		log.Error("stored start_time for session %d is malformed: %v", sessionID, err)
		return err
	}

	nowT := s.now()
	totalTime := math.Round(nowT.Sub(started).Seconds()*10) / 10

	ok, err := s.sessions.Close(ctx, sessionID, clock.Format(nowT), totalTime, totalQuestions, totalCorrect, avgTime)
	if err != nil {
		log.Error("failed to close session %d: %v", sessionID, err)
		return errors.NewStoreError("close session", err)
	}
	if !ok {
		log.Warn("close affected no rows for session id %d", sessionID)
		return nil
	}

	log.Info("session ended: session_id=%d, total_time=%.1fs", sessionID, totalTime)
	return nil
}
