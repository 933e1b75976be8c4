package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, studentID int64, startTime string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: student_id=%d, start_time=%s", studentID, startTime)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (student_id, start_time)
VALUES (?, ?)
`, studentID, startTime)
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to read inserted session id: %v", err)
		return 0, err
	}
	log.Debug("session inserted: id=%d", id)
	return id, nil
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%d", id)

	var s models.Session
	err := r.db.QueryRowContext(ctx, `
SELECT session_id, student_id, start_time, end_time, total_time, total_questions, total_correct, avg_time_per_question
FROM sessions
WHERE session_id = ?
`, id).Scan(&s.ID, &s.StudentID, &s.StartTime, &s.EndTime, &s.TotalTime, &s.TotalQuestions, &s.TotalCorrect, &s.AvgTimePerQuestion)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) LatestInWindow(ctx context.Context, studentID int64, windowStart, windowEnd string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting latest session in window: student_id=%d, window=[%s, %s]", studentID, windowStart, windowEnd)

	var s models.Session
	err := r.db.QueryRowContext(ctx, `
SELECT session_id, student_id, start_time, end_time, total_time, total_questions, total_correct, avg_time_per_question
FROM sessions
WHERE student_id = ? AND start_time BETWEEN ? AND ?
ORDER BY start_time DESC, session_id DESC
LIMIT 1
`, studentID, windowStart, windowEnd).Scan(&s.ID, &s.StudentID, &s.StartTime, &s.EndTime, &s.TotalTime, &s.TotalQuestions, &s.TotalCorrect, &s.AvgTimePerQuestion)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no session in window: student_id=%d", studentID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get latest session in window: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) Close(ctx context.Context, id int64, endTime string, totalTime float64, totalQuestions, totalCorrect int, avgTime float64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("closing session: id=%d, end_time=%s", id, endTime)

	// start_time is deliberately left out: a second close overwrites the
	// aggregates, never the start.
	res, err := r.db.ExecContext(ctx, `
UPDATE sessions
SET end_time = ?, total_time = ?, total_questions = ?, total_correct = ?, avg_time_per_question = ?
WHERE session_id = ?
`, endTime, totalTime, totalQuestions, totalCorrect, avgTime, id)
	if err != nil {
		log.Error("failed to close session: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		log.Error("failed to read affected rows: %v", err)
		return false, err
	}
	log.Debug("session close affected %d rows", n)
	return n > 0, nil
}

func (r *sessionRepository) CountInWindow(ctx context.Context, studentID int64, windowStart, windowEnd string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("counting sessions in window: student_id=%d, window=[%s, %s]", studentID, windowStart, windowEnd)

	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM sessions
WHERE student_id = ? AND start_time BETWEEN ? AND ?
`, studentID, windowStart, windowEnd).Scan(&count)
	if err != nil {
		log.Error("failed to count sessions: %v", err)
		return 0, err
	}
	return count, nil
}
