package services

import (
	"context"
	"time"

	"github.com/8bitgaijin/Learniverse-sub000/internal/clock"
	"github.com/8bitgaijin/Learniverse-sub000/internal/errors"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

// SkipService is the skip evaluator: a lesson may be bypassed today when the
// student already scored 100% on it during any session started yesterday.
type SkipService interface {
	// PerfectScoreYesterday is advisory: absence of evidence and every
	// lookup failure mean "not eligible to skip", never a fault.
	PerfectScoreYesterday(ctx context.Context, studentName, lessonTitle string) bool
	// RecordSkip writes the skip tombstone so every lesson in the sequence
	// produces exactly one SessionLesson row, skipped or not.
	RecordSkip(ctx context.Context, sessionID, lessonID int64) error
	// RecordSkipByTitle resolves the lesson title first; a miss is NOT_FOUND.
	RecordSkipByTitle(ctx context.Context, sessionID int64, lessonTitle string) error
}

type skipService struct {
	students       repository.StudentRepository
	lessons        repository.LessonRepository
	sessionLessons repository.SessionLessonRepository
	now            func() time.Time
}

// NewSkipService creates a new SkipService
func NewSkipService(
	students repository.StudentRepository,
	lessons repository.LessonRepository,
	sessionLessons repository.SessionLessonRepository,
) SkipService {
	return &skipService{
		students:       students,
		lessons:        lessons,
		sessionLessons: sessionLessons,
		now:            time.Now,
	}
}

func (s *skipService) PerfectScoreYesterday(ctx context.Context, studentName, lessonTitle string) bool {
	log := logger.FromContext(ctx)
	log.Debug("evaluating skip eligibility: student=%s, lesson=%s", studentName, lessonTitle)

	student, err := s.students.GetByName(ctx, studentName)
	if err != nil || student == nil {
		log.Debug("student lookup came up empty (err=%v), not eligible to skip", err)
		return false
	}

	lesson, err := s.lessons.GetByTitle(ctx, lessonTitle)
	if err != nil || lesson == nil {
		log.Debug("lesson lookup came up empty (err=%v), not eligible to skip", err)
		return false
	}

	dayStart, dayEnd := clock.DayWindow(clock.DaysAgo(s.now(), 1))
	perfect, err := s.sessionLessons.AnyPerfectInWindow(ctx, student.ID, lesson.ID, dayStart, dayEnd)
	if err != nil {
		log.Warn("failed to check yesterday's scores, not eligible to skip: %v", err)
		return false
	}

	if perfect {
		log.Info("perfect score yesterday, lesson skippable: student=%s, lesson=%s", studentName, lessonTitle)
	}
	return perfect
}

func (s *skipService) RecordSkip(ctx context.Context, sessionID, lessonID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("recording skip: session_id=%d, lesson_id=%d", sessionID, lessonID)

	if _, err := s.sessionLessons.InsertSkip(ctx, sessionID, lessonID, clock.Format(s.now())); err != nil {
		log.Error("failed to record skip: %v", err)
		return errors.NewStoreError("insert skip", err)
	}
	return nil
}

func (s *skipService) RecordSkipByTitle(ctx context.Context, sessionID int64, lessonTitle string) error {
	log := logger.FromContext(ctx)

	lesson, err := s.lessons.GetByTitle(ctx, lessonTitle)
	if err != nil {
		log.Error("failed to resolve lesson %q: %v", lessonTitle, err)
		return errors.NewStoreError("get lesson", err)
	}
	if lesson == nil {
		return errors.NewNotFoundError("lesson", lessonTitle)
	}
	return s.RecordSkip(ctx, sessionID, lesson.ID)
}
