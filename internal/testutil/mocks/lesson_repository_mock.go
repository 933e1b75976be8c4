package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
)

// MockLessonRepository is a mock implementation of repository.LessonRepository
type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) GetByTitle(ctx context.Context, title string) (*models.Lesson, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) List(ctx context.Context) ([]models.Lesson, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) Upsert(ctx context.Context, title, description string) (*models.Lesson, error) {
	args := m.Called(ctx, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) Seed(ctx context.Context, lessons []models.Lesson) error {
	args := m.Called(ctx, lessons)
	return args.Error(0)
}
