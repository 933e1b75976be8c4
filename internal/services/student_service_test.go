package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/8bitgaijin/Learniverse-sub000/internal/errors"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/testutil/mocks"
)

type StudentServiceSuite struct {
	suite.Suite
	students *mocks.MockStudentRepository
	svc      StudentService
}

func (s *StudentServiceSuite) SetupTest() {
	s.students = new(mocks.MockStudentRepository)
	s.svc = NewStudentService(s.students)
}

func (s *StudentServiceSuite) TearDownTest() {
	s.students.AssertExpectations(s.T())
}

func (s *StudentServiceSuite) TestRegisterTrimsName() {
	ctx := context.Background()
	s.students.On("Upsert", ctx, "Mina", (*int)(nil), (*string)(nil)).
		Return(&models.Student{ID: 7, Name: "Mina"}, nil)

	student, err := s.svc.Register(ctx, "  Mina  ", nil, nil)
	s.Require().NoError(err)
	s.Assert().Equal("Mina", student.Name)
}

func (s *StudentServiceSuite) TestRegisterRejectsEmptyName() {
	ctx := context.Background()

	_, err := s.svc.Register(ctx, "   ", nil, nil)
	s.Require().Error(err)
	s.Assert().True(errors.IsCode(err, errors.CodeValidation))
	s.students.AssertNotCalled(s.T(), "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *StudentServiceSuite) TestRegisterRejectsNegativeAge() {
	ctx := context.Background()
	age := -3

	_, err := s.svc.Register(ctx, "Mina", &age, nil)
	s.Require().Error(err)
	s.Assert().True(errors.IsCode(err, errors.CodeValidation))
}

func (s *StudentServiceSuite) TestGetByNameMissingIsNotFound() {
	ctx := context.Background()
	s.students.On("GetByName", ctx, "Nobody").Return(nil, nil)

	_, err := s.svc.GetByName(ctx, "Nobody")
	s.Require().Error(err)
	s.Assert().True(errors.IsCode(err, errors.CodeNotFound))
}

func TestStudentServiceSuite(t *testing.T) {
	suite.Run(t, new(StudentServiceSuite))
}
