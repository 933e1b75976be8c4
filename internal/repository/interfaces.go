package repository

import (
	"context"

	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
)

// StudentRepository handles student data access. Lookup misses return
// (nil, nil); the service layer decides whether that is a NOT_FOUND.
type StudentRepository interface {
	Get(ctx context.Context, id int64) (*models.Student, error)
	GetByName(ctx context.Context, name string) (*models.Student, error)
	Upsert(ctx context.Context, name string, age *int, email *string) (*models.Student, error)
}

// LessonRepository handles lesson catalog access. Title matching is
// case-insensitive.
type LessonRepository interface {
	GetByTitle(ctx context.Context, title string) (*models.Lesson, error)
	List(ctx context.Context) ([]models.Lesson, error)
	Upsert(ctx context.Context, title, description string) (*models.Lesson, error)
	// Seed upserts the fixed catalog in a single transaction.
	Seed(ctx context.Context, lessons []models.Lesson) error
}

// SessionRepository handles session rows. Window bounds are stored-format
// timestamp strings, inclusive on both ends.
type SessionRepository interface {
	Insert(ctx context.Context, studentID int64, startTime string) (int64, error)
	Get(ctx context.Context, id int64) (*models.Session, error)
	LatestInWindow(ctx context.Context, studentID int64, windowStart, windowEnd string) (*models.Session, error)
	// Close writes end_time and the aggregate totals, leaving start_time
	// untouched. Returns false when no row matched the id.
	Close(ctx context.Context, id int64, endTime string, totalTime float64, totalQuestions, totalCorrect int, avgTime float64) (bool, error)
	CountInWindow(ctx context.Context, studentID int64, windowStart, windowEnd string) (int, error)
}

// SessionLessonRepository handles per-lesson outcome rows within a session.
type SessionLessonRepository interface {
	InsertAttempt(ctx context.Context, sessionID, lessonID int64, attempt models.LessonAttempt) (int64, error)
	// InsertSkip records a skip tombstone: performance fields all NULL,
	// start_time and end_time both set to at.
	InsertSkip(ctx context.Context, sessionID, lessonID int64, at string) (int64, error)
	// PercentCorrect re-derives the stored score for a lesson within a
	// session by joining sessions, session_lessons and lessons. found is
	// false when no row exists; percent is nil for a skip tombstone.
	PercentCorrect(ctx context.Context, sessionID int64, lessonTitle string) (percent *float64, found bool, err error)
	AnyPerfectInWindow(ctx context.Context, studentID, lessonID int64, windowStart, windowEnd string) (bool, error)
	ListForSession(ctx context.Context, sessionID int64, filter models.ReportFilter) ([]models.ReportRow, error)
}

// ProgressRepository handles the durable per-student per-lesson mastery
// record.
type ProgressRepository interface {
	// GetOrCreate lazily inserts the progress row at level 1 on first query.
	GetOrCreate(ctx context.Context, studentID, lessonID int64) (*models.StudentLessonProgress, error)
	// LevelUp advances the level by one unless sessionID already produced a
	// level-up for this pair. Returns whether the level advanced.
	LevelUp(ctx context.Context, studentID, lessonID, sessionID int64) (bool, error)
}
