package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) GetOrCreate(ctx context.Context, studentID, lessonID int64) (*models.StudentLessonProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: student_id=%d, lesson_id=%d", studentID, lessonID)

	p, err := r.get(ctx, studentID, lessonID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	// First query for this pair: insert the level-1 row. The row is the
	// source of truth for "has this student ever seen this lesson".
	log.Debug("creating progress row at level 1: student_id=%d, lesson_id=%d", studentID, lessonID)
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO student_lesson_progress (student_id, lesson_id, student_level)
VALUES (?, ?, 1)
ON CONFLICT(student_id, lesson_id) DO NOTHING
`, studentID, lessonID); err != nil {
		log.Error("failed to create progress row: %v", err)
		return nil, err
	}

	p, err = r.get(ctx, studentID, lessonID)
	if err != nil {
		log.Error("failed to re-read progress: %v", err)
		return nil, err
	}
	return p, nil
}

func (r *progressRepository) get(ctx context.Context, studentID, lessonID int64) (*models.StudentLessonProgress, error) {
	var p models.StudentLessonProgress
	err := r.db.QueryRowContext(ctx, `
SELECT id, student_id, lesson_id, student_level, last_perfect_session_id
FROM student_lesson_progress
WHERE student_id = ? AND lesson_id = ?
`, studentID, lessonID).Scan(&p.ID, &p.StudentID, &p.LessonID, &p.StudentLevel, &p.LastPerfectSessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *progressRepository) LevelUp(ctx context.Context, studentID, lessonID, sessionID int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("applying level up: student_id=%d, lesson_id=%d, session_id=%d", studentID, lessonID, sessionID)

	// The last_perfect_session_id guard makes a repeated call for the same
	// session a no-op instead of a double advance.
	res, err := r.db.ExecContext(ctx, `
UPDATE student_lesson_progress
SET student_level = student_level + 1, last_perfect_session_id = ?
WHERE student_id = ? AND lesson_id = ?
  AND (last_perfect_session_id IS NULL OR last_perfect_session_id != ?)
`, sessionID, studentID, lessonID, sessionID)
	if err != nil {
		log.Error("failed to apply level up: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read affected rows: %v", err)
		return false, err
	}
	if n > 0 {
		log.Debug("level advanced: student_id=%d, lesson_id=%d", studentID, lessonID)
	} else {
		log.Debug("level unchanged (already advanced for session %d)", sessionID)
	}
	return n > 0, nil
}
