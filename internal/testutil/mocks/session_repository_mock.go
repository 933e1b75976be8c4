package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
)

// MockSessionRepository is a mock implementation of repository.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Insert(ctx context.Context, studentID int64, startTime string) (int64, error) {
	args := m.Called(ctx, studentID, startTime)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) Get(ctx context.Context, id int64) (*models.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) LatestInWindow(ctx context.Context, studentID int64, windowStart, windowEnd string) (*models.Session, error) {
	args := m.Called(ctx, studentID, windowStart, windowEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) Close(ctx context.Context, id int64, endTime string, totalTime float64, totalQuestions, totalCorrect int, avgTime float64) (bool, error) {
	args := m.Called(ctx, id, endTime, totalTime, totalQuestions, totalCorrect, avgTime)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) CountInWindow(ctx context.Context, studentID int64, windowStart, windowEnd string) (int, error) {
	args := m.Called(ctx, studentID, windowStart, windowEnd)
	return args.Int(0), args.Error(1)
}
