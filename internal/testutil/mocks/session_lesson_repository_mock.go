package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
)

// MockSessionLessonRepository is a mock implementation of repository.SessionLessonRepository
type MockSessionLessonRepository struct {
	mock.Mock
}

func (m *MockSessionLessonRepository) InsertAttempt(ctx context.Context, sessionID, lessonID int64, attempt models.LessonAttempt) (int64, error) {
	args := m.Called(ctx, sessionID, lessonID, attempt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionLessonRepository) InsertSkip(ctx context.Context, sessionID, lessonID int64, at string) (int64, error) {
	args := m.Called(ctx, sessionID, lessonID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionLessonRepository) PercentCorrect(ctx context.Context, sessionID int64, lessonTitle string) (*float64, bool, error) {
	args := m.Called(ctx, sessionID, lessonTitle)
	var percent *float64
	if args.Get(0) != nil {
		percent = args.Get(0).(*float64)
	}
	return percent, args.Bool(1), args.Error(2)
}

func (m *MockSessionLessonRepository) AnyPerfectInWindow(ctx context.Context, studentID, lessonID int64, windowStart, windowEnd string) (bool, error) {
	args := m.Called(ctx, studentID, lessonID, windowStart, windowEnd)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionLessonRepository) ListForSession(ctx context.Context, sessionID int64, filter models.ReportFilter) ([]models.ReportRow, error) {
	args := m.Called(ctx, sessionID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReportRow), args.Error(1)
}
