package services

import (
	"context"

	"github.com/8bitgaijin/Learniverse-sub000/internal/errors"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

// ProgressService is the adaptive progress tracker. The mastery level of a
// (student, lesson) pair advances by exactly one if and only if the lesson
// was completed with a perfect score.
type ProgressService interface {
	// GetLevel resolves the student from the session and the lesson from its
	// title, lazily creating the level-1 progress row on first query.
	GetLevel(ctx context.Context, sessionID int64, lessonTitle string) (int, error)
	// RecordAttempt stores the SessionLesson row for a completed lesson run.
	RecordAttempt(ctx context.Context, sessionID int64, lessonTitle string, attempt models.LessonAttempt) error
	// RecordOutcome re-derives percent_correct for the lesson within the
	// session and applies the level-up rule. Repeating the call for the same
	// session leaves the level unchanged.
	RecordOutcome(ctx context.Context, sessionID int64, lessonTitle string) error
}

type progressService struct {
	sessions       repository.SessionRepository
	lessons        repository.LessonRepository
	sessionLessons repository.SessionLessonRepository
	progress       repository.ProgressRepository
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	sessions repository.SessionRepository,
	lessons repository.LessonRepository,
	sessionLessons repository.SessionLessonRepository,
	progress repository.ProgressRepository,
) ProgressService {
	return &progressService{
		sessions:       sessions,
		lessons:        lessons,
		sessionLessons: sessionLessons,
		progress:       progress,
	}
}

// resolve maps a session id and lesson title to their row ids. These lookups
// are prerequisites for correctness, so misses surface as NOT_FOUND instead
// of degrading.
func (s *progressService) resolve(ctx context.Context, sessionID int64, lessonTitle string) (studentID, lessonID int64, err error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return 0, 0, errors.NewStoreError("get session", err)
	}
	if session == nil {
		return 0, 0, errors.NewNotFoundError("session", sessionID)
	}

	lesson, err := s.lessons.GetByTitle(ctx, lessonTitle)
	if err != nil {
		return 0, 0, errors.NewStoreError("get lesson", err)
	}
	if lesson == nil {
		return 0, 0, errors.NewNotFoundError("lesson", lessonTitle)
	}

	return session.StudentID, lesson.ID, nil
}

func (s *progressService) GetLevel(ctx context.Context, sessionID int64, lessonTitle string) (int, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting level: session_id=%d, lesson=%s", sessionID, lessonTitle)

	studentID, lessonID, err := s.resolve(ctx, sessionID, lessonTitle)
	if err != nil {
		return 0, err
	}

	p, err := s.progress.GetOrCreate(ctx, studentID, lessonID)
	if err != nil {
		log.Error("failed to load progress: %v", err)
		return 0, errors.NewStoreError("get progress", err)
	}

	log.Debug("level: student_id=%d, lesson=%s, level=%d", studentID, lessonTitle, p.StudentLevel)
	return p.StudentLevel, nil
}

func (s *progressService) RecordAttempt(ctx context.Context, sessionID int64, lessonTitle string, attempt models.LessonAttempt) error {
	log := logger.FromContext(ctx)
	log.Debug("recording attempt: session_id=%d, lesson=%s, asked=%d, correct=%d",
		sessionID, lessonTitle, attempt.QuestionsAsked, attempt.QuestionsCorrect)

	_, lessonID, err := s.resolve(ctx, sessionID, lessonTitle)
	if err != nil {
		return err
	}

	if _, err := s.sessionLessons.InsertAttempt(ctx, sessionID, lessonID, attempt); err != nil {
		log.Error("failed to record attempt: %v", err)
		return errors.NewStoreError("insert attempt", err)
	}
	return nil
}

func (s *progressService) RecordOutcome(ctx context.Context, sessionID int64, lessonTitle string) error {
	log := logger.FromContext(ctx)
	log.Debug("recording outcome: session_id=%d, lesson=%s", sessionID, lessonTitle)

	studentID, lessonID, err := s.resolve(ctx, sessionID, lessonTitle)
	if err != nil {
		return err
	}

	percent, found, err := s.sessionLessons.PercentCorrect(ctx, sessionID, lessonTitle)
	if err != nil {
		log.Error("failed to derive percent correct: %v", err)
		return errors.NewStoreError("derive percent correct", err)
	}
	if !found {
		// Continuing without the row would silently corrupt progress data.
		return errors.NewNotFoundError("session lesson", lessonTitle)
	}
	if percent == nil {
		// Skip tombstone or zero-question run: the level never moves.
		log.Debug("no score for lesson %q in session %d, level unchanged", lessonTitle, sessionID)
		return nil
	}

	// Make sure the progress row exists before the conditional update.
	if _, err := s.progress.GetOrCreate(ctx, studentID, lessonID); err != nil {
		log.Error("failed to ensure progress row: %v", err)
		return errors.NewStoreError("get progress", err)
	}

	if *percent != 100 {
		log.Debug("score %.1f%% below perfect, level unchanged", *percent)
		return nil
	}

	advanced, err := s.progress.LevelUp(ctx, studentID, lessonID, sessionID)
	if err != nil {
		log.Error("failed to apply level up: %v", err)
		return errors.NewStoreError("level up", err)
	}
	if advanced {
		log.Info("perfect score, level advanced: student_id=%d, lesson=%s", studentID, lessonTitle)
	} else {
		log.Debug("level already advanced for session %d, no-op", sessionID)
	}
	return nil
}
