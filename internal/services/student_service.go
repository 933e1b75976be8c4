package services

import (
	"context"
	"strings"

	"github.com/8bitgaijin/Learniverse-sub000/internal/errors"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

// StudentService handles student registration and lookup. Students are
// created on first use and never deleted by the engine.
type StudentService interface {
	Register(ctx context.Context, name string, age *int, email *string) (*models.Student, error)
	GetByName(ctx context.Context, name string) (*models.Student, error)
}

type studentService struct {
	students repository.StudentRepository
}

// NewStudentService creates a new StudentService
func NewStudentService(students repository.StudentRepository) StudentService {
	return &studentService{students: students}
}

func (s *studentService) Register(ctx context.Context, name string, age *int, email *string) (*models.Student, error) {
	log := logger.FromContext(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if age != nil && *age < 0 {
		return nil, errors.NewValidationError("age", "cannot be negative")
	}

	log.Debug("registering student: name=%s", name)
	student, err := s.students.Upsert(ctx, name, age, email)
	if err != nil {
		log.Error("failed to register student: %v", err)
		return nil, errors.NewStoreError("upsert student", err)
	}
	return student, nil
}

func (s *studentService) GetByName(ctx context.Context, name string) (*models.Student, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting student: name=%s", name)

	student, err := s.students.GetByName(ctx, name)
	if err != nil {
		log.Error("failed to get student: %v", err)
		return nil, errors.NewStoreError("get student", err)
	}
	if student == nil {
		return nil, errors.NewNotFoundError("student", name)
	}
	return student, nil
}
