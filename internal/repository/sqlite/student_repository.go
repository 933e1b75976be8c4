package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

type studentRepository struct {
	db *sql.DB
}

// NewStudentRepository creates a new StudentRepository implementation
func NewStudentRepository(db *sql.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Get(ctx context.Context, id int64) (*models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("getting student: id=%d", id)

	var s models.Student
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, age, email
FROM students
WHERE id = ?
`, id).Scan(&s.ID, &s.Name, &s.Age, &s.Email)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("student not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get student: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) GetByName(ctx context.Context, name string) (*models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("getting student: name=%s", name)

	var s models.Student
	err := r.db.QueryRowContext(ctx, `
SELECT id, name, age, email
FROM students
WHERE name = ?
`, name).Scan(&s.ID, &s.Name, &s.Age, &s.Email)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("student not found: name=%s", name)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get student by name: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *studentRepository) Upsert(ctx context.Context, name string, age *int, email *string) (*models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("student_repo")
	log.Debug("upserting student: name=%s", name)

	var s models.Student
	err := r.db.QueryRowContext(ctx, `
INSERT INTO students (name, age, email)
VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    age = COALESCE(excluded.age, students.age),
    email = COALESCE(excluded.email, students.email)
RETURNING id, name, age, email
`, name, age, email).Scan(&s.ID, &s.Name, &s.Age, &s.Email)
	if err != nil {
		log.Error("failed to upsert student: %v", err)
		return nil, err
	}
	log.Debug("student upserted: id=%d", s.ID)
	return &s, nil
}
