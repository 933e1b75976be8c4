package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

type lessonRepository struct {
	db *sql.DB
}

// NewLessonRepository creates a new LessonRepository implementation
func NewLessonRepository(db *sql.DB) repository.LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) GetByTitle(ctx context.Context, title string) (*models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("getting lesson: title=%s", title)

	// title is UNIQUE COLLATE NOCASE, so equality here is case-insensitive.
	var l models.Lesson
	err := r.db.QueryRowContext(ctx, `
SELECT lesson_id, title, description
FROM lessons
WHERE title = ?
`, title).Scan(&l.ID, &l.Title, &l.Description)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("lesson not found: title=%s", title)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get lesson: %v", err)
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepository) List(ctx context.Context) ([]models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("listing lessons")

	rows, err := r.db.QueryContext(ctx, `
SELECT lesson_id, title, description
FROM lessons
ORDER BY lesson_id ASC
`)
	if err != nil {
		log.Error("failed to list lessons: %v", err)
		return nil, err
	}
	defer rows.Close()

	var lessons []models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.Title, &l.Description); err != nil {
			log.Error("failed to scan lesson row: %v", err)
			return nil, err
		}
		lessons = append(lessons, l)
	}

	log.Debug("found %d lessons", len(lessons))
	return lessons, rows.Err()
}

func (r *lessonRepository) Upsert(ctx context.Context, title, description string) (*models.Lesson, error) {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("upserting lesson: title=%s", title)

	var l models.Lesson
	err := r.db.QueryRowContext(ctx, `
INSERT INTO lessons (title, description)
VALUES (?, ?)
ON CONFLICT(title) DO UPDATE SET description = excluded.description
RETURNING lesson_id, title, description
`, title, description).Scan(&l.ID, &l.Title, &l.Description)
	if err != nil {
		log.Error("failed to upsert lesson: %v", err)
		return nil, err
	}
	log.Debug("lesson upserted: id=%d", l.ID)
	return &l, nil
}

func (r *lessonRepository) Seed(ctx context.Context, lessons []models.Lesson) error {
	log := logger.FromContext(ctx).WithPrefix("lesson_repo")
	log.Debug("seeding %d catalog lessons", len(lessons))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, l := range lessons {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO lessons (title, description)
VALUES (?, ?)
ON CONFLICT(title) DO UPDATE SET description = excluded.description
`, l.Title, l.Description); err != nil {
				log.Error("failed to seed lesson %q: %v", l.Title, err)
				return err
			}
		}
		log.Debug("catalog seeded")
		return nil
	})
}
