package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetOrCreate(ctx context.Context, studentID, lessonID int64) (*models.StudentLessonProgress, error) {
	args := m.Called(ctx, studentID, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StudentLessonProgress), args.Error(1)
}

func (m *MockProgressRepository) LevelUp(ctx context.Context, studentID, lessonID, sessionID int64) (bool, error) {
	args := m.Called(ctx, studentID, lessonID, sessionID)
	return args.Bool(0), args.Error(1)
}
