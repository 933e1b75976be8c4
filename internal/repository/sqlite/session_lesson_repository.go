package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type sessionLessonRepository struct {
	db *sql.DB
}

// NewSessionLessonRepository creates a new SessionLessonRepository implementation
func NewSessionLessonRepository(db *sql.DB) repository.SessionLessonRepository {
	return &sessionLessonRepository{db: db}
}

func (r *sessionLessonRepository) InsertAttempt(ctx context.Context, sessionID, lessonID int64, attempt models.LessonAttempt) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_lesson_repo")
	log.Debug("inserting attempt: session_id=%d, lesson_id=%d, asked=%d, correct=%d",
		sessionID, lessonID, attempt.QuestionsAsked, attempt.QuestionsCorrect)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO session_lessons (session_id, lesson_id, start_time, end_time, total_time, questions_asked, questions_correct, avg_time_per_question, percent_correct)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, sessionID, lessonID, attempt.StartTime, attempt.EndTime, attempt.TotalTime,
		attempt.QuestionsAsked, attempt.QuestionsCorrect, attempt.AvgTimePerQuestion, attempt.PercentCorrect())
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to read inserted session lesson id: %v", err)
		return 0, err
	}
	log.Debug("attempt inserted: id=%d", id)
	return id, nil
}

func (r *sessionLessonRepository) InsertSkip(ctx context.Context, sessionID, lessonID int64, at string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("session_lesson_repo")
	log.Debug("inserting skip tombstone: session_id=%d, lesson_id=%d", sessionID, lessonID)

	// Performance fields stay NULL: a skip is a tombstone, not a zero score.
	res, err := r.db.ExecContext(ctx, `
INSERT INTO session_lessons (session_id, lesson_id, start_time, end_time)
VALUES (?, ?, ?, ?)
`, sessionID, lessonID, at, at)
	if err != nil {
		log.Error("failed to insert skip tombstone: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to read inserted session lesson id: %v", err)
		return 0, err
	}
	log.Debug("skip tombstone inserted: id=%d", id)
	return id, nil
}

func (r *sessionLessonRepository) PercentCorrect(ctx context.Context, sessionID int64, lessonTitle string) (*float64, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("session_lesson_repo")
	log.Debug("deriving percent correct: session_id=%d, lesson=%s", sessionID, lessonTitle)

	var percent *float64
	err := r.db.QueryRowContext(ctx, `
SELECT sl.percent_correct
FROM session_lessons sl
JOIN sessions s ON s.session_id = sl.session_id
JOIN lessons l ON l.lesson_id = sl.lesson_id
WHERE s.session_id = ? AND l.title = ?
ORDER BY sl.session_lesson_id DESC
LIMIT 1
`, sessionID, lessonTitle).Scan(&percent)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no session lesson row: session_id=%d, lesson=%s", sessionID, lessonTitle)
		return nil, false, nil
	}
	if err != nil {
		log.Error("failed to derive percent correct: %v", err)
		return nil, false, err
	}
	return percent, true, nil
}

func (r *sessionLessonRepository) AnyPerfectInWindow(ctx context.Context, studentID, lessonID int64, windowStart, windowEnd string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("session_lesson_repo")
	log.Debug("checking for perfect score: student_id=%d, lesson_id=%d, window=[%s, %s]",
		studentID, lessonID, windowStart, windowEnd)

	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM session_lessons sl
JOIN sessions s ON s.session_id = sl.session_id
WHERE s.student_id = ?
  AND sl.lesson_id = ?
  AND s.start_time BETWEEN ? AND ?
  AND sl.percent_correct = 100
`, studentID, lessonID, windowStart, windowEnd).Scan(&count)
	if err != nil {
		log.Error("failed to check for perfect score: %v", err)
		return false, err
	}
	log.Debug("perfect scores in window: %d", count)
	return count > 0, nil
}

func (r *sessionLessonRepository) ListForSession(ctx context.Context, sessionID int64, filter models.ReportFilter) ([]models.ReportRow, error) {
	log := logger.FromContext(ctx).WithPrefix("session_lesson_repo")
	log.Debug("listing session lessons: session_id=%d, lesson=%s, skipped_only=%v",
		sessionID, filter.LessonTitle, filter.SkippedOnly)

	query := sqlBuilder.Select(
		"l.title", "sl.questions_asked", "sl.questions_correct",
		"sl.percent_correct", "sl.total_time", "sl.avg_time_per_question",
	).
		From("session_lessons sl").
		Join("lessons l ON l.lesson_id = sl.lesson_id").
		Where(squirrel.Eq{"sl.session_id": sessionID})

	// Dynamic WHERE clauses
	if filter.LessonTitle != "" {
		query = query.Where(squirrel.Eq{"l.title": filter.LessonTitle})
	}
	if filter.SkippedOnly {
		query = query.Where("sl.questions_asked IS NULL")
	}
	if filter.StartedAfter != "" {
		query = query.Where(squirrel.GtOrEq{"sl.start_time": filter.StartedAfter})
	}
	if filter.StartedBefore != "" {
		query = query.Where(squirrel.LtOrEq{"sl.start_time": filter.StartedBefore})
	}
	query = query.OrderBy("sl.session_lesson_id ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list session lessons: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ReportRow
	for rows.Next() {
		var row models.ReportRow
		if err := rows.Scan(&row.LessonTitle, &row.QuestionsAsked, &row.QuestionsCorrect,
			&row.PercentCorrect, &row.TotalTime, &row.AvgTimePerQuestion); err != nil {
			log.Error("failed to scan session lesson row: %v", err)
			return nil, err
		}
		row.Skipped = row.QuestionsAsked == nil
		out = append(out, row)
	}
	log.Debug("found %d session lesson rows", len(out))
	return out, rows.Err()
}
