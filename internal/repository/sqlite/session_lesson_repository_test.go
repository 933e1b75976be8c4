package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository/sqlite"
	"github.com/8bitgaijin/Learniverse-sub000/internal/testutil"
)

type SessionLessonRepositorySuite struct {
	suite.Suite
	db        *sql.DB
	repo      repository.SessionLessonRepository
	studentID int64
	lessonID  int64
	sessionID int64
}

func (s *SessionLessonRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewSessionLessonRepository(s.db)

	ctx := context.Background()
	students := sqlite.NewStudentRepository(s.db)
	student, err := students.Upsert(ctx, "Mina", nil, nil)
	s.Require().NoError(err)
	s.studentID = student.ID

	lessons := sqlite.NewLessonRepository(s.db)
	lesson, err := lessons.Upsert(ctx, "Rainbow Numbers", "Pairs that sum to ten")
	s.Require().NoError(err)
	s.lessonID = lesson.ID

	sessions := sqlite.NewSessionRepository(s.db)
	s.sessionID, err = sessions.Insert(ctx, s.studentID, "2026-08-31 09:00:00")
	s.Require().NoError(err)
}

func (s *SessionLessonRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func attempt(asked, correct int, avg float64) models.LessonAttempt {
	return models.LessonAttempt{
		QuestionsAsked:     asked,
		QuestionsCorrect:   correct,
		AvgTimePerQuestion: &avg,
		StartTime:          "2026-08-31 09:00:10",
		EndTime:            "2026-08-31 09:01:40",
		TotalTime:          90,
	}
}

func (s *SessionLessonRepositorySuite) TestInsertAttemptStoresDerivedPercent() {
	ctx := context.Background()

	_, err := s.repo.InsertAttempt(ctx, s.sessionID, s.lessonID, attempt(5, 4, 3.2))
	s.Require().NoError(err)

	percent, found, err := s.repo.PercentCorrect(ctx, s.sessionID, "Rainbow Numbers")
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Require().NotNil(percent)
	s.Assert().InDelta(80.0, *percent, 0.0001)
}

func (s *SessionLessonRepositorySuite) TestPercentCorrectUsesLatestRow() {
	ctx := context.Background()

	_, err := s.repo.InsertAttempt(ctx, s.sessionID, s.lessonID, attempt(5, 3, 4.0))
	s.Require().NoError(err)
	_, err = s.repo.InsertAttempt(ctx, s.sessionID, s.lessonID, attempt(5, 5, 2.5))
	s.Require().NoError(err)

	percent, found, err := s.repo.PercentCorrect(ctx, s.sessionID, "Rainbow Numbers")
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Require().NotNil(percent)
	s.Assert().InDelta(100.0, *percent, 0.0001)
}

func (s *SessionLessonRepositorySuite) TestPercentCorrectMissingRow() {
	ctx := context.Background()

	percent, found, err := s.repo.PercentCorrect(ctx, s.sessionID, "Rainbow Numbers")
	s.Require().NoError(err)
	s.Assert().False(found)
	s.Assert().Nil(percent)
}

func (s *SessionLessonRepositorySuite) TestInsertSkipWritesTombstone() {
	ctx := context.Background()

	_, err := s.repo.InsertSkip(ctx, s.sessionID, s.lessonID, "2026-08-31 09:00:10")
	s.Require().NoError(err)

	rows, err := s.repo.ListForSession(ctx, s.sessionID, models.ReportFilter{})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Assert().True(rows[0].Skipped)
	s.Assert().Nil(rows[0].QuestionsAsked)
	s.Assert().Nil(rows[0].PercentCorrect)

	percent, found, err := s.repo.PercentCorrect(ctx, s.sessionID, "Rainbow Numbers")
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Assert().Nil(percent)
}

func (s *SessionLessonRepositorySuite) TestAnyPerfectInWindow() {
	ctx := context.Background()

	_, err := s.repo.InsertAttempt(ctx, s.sessionID, s.lessonID, attempt(5, 4, 3.2))
	s.Require().NoError(err)

	perfect, err := s.repo.AnyPerfectInWindow(ctx, s.studentID, s.lessonID, "2026-08-31 00:00:00", "2026-08-31 23:59:59")
	s.Require().NoError(err)
	s.Assert().False(perfect)

	_, err = s.repo.InsertAttempt(ctx, s.sessionID, s.lessonID, attempt(5, 5, 2.0))
	s.Require().NoError(err)

	perfect, err = s.repo.AnyPerfectInWindow(ctx, s.studentID, s.lessonID, "2026-08-31 00:00:00", "2026-08-31 23:59:59")
	s.Require().NoError(err)
	s.Assert().True(perfect)

	// The perfect score sits outside this window.
	perfect, err = s.repo.AnyPerfectInWindow(ctx, s.studentID, s.lessonID, "2026-08-30 00:00:00", "2026-08-30 23:59:59")
	s.Require().NoError(err)
	s.Assert().False(perfect)
}

func (s *SessionLessonRepositorySuite) TestListForSessionFilters() {
	ctx := context.Background()

	lessons := sqlite.NewLessonRepository(s.db)
	other, err := lessons.Upsert(ctx, "Skip Counting", "Count by twos and fives")
	s.Require().NoError(err)

	_, err = s.repo.InsertAttempt(ctx, s.sessionID, s.lessonID, attempt(5, 5, 2.0))
	s.Require().NoError(err)
	_, err = s.repo.InsertSkip(ctx, s.sessionID, other.ID, "2026-08-31 09:02:00")
	s.Require().NoError(err)

	all, err := s.repo.ListForSession(ctx, s.sessionID, models.ReportFilter{})
	s.Require().NoError(err)
	s.Assert().Len(all, 2)

	byTitle, err := s.repo.ListForSession(ctx, s.sessionID, models.ReportFilter{LessonTitle: "Rainbow Numbers"})
	s.Require().NoError(err)
	s.Require().Len(byTitle, 1)
	s.Assert().Equal("Rainbow Numbers", byTitle[0].LessonTitle)
	s.Assert().False(byTitle[0].Skipped)

	skipped, err := s.repo.ListForSession(ctx, s.sessionID, models.ReportFilter{SkippedOnly: true})
	s.Require().NoError(err)
	s.Require().Len(skipped, 1)
	s.Assert().Equal("Skip Counting", skipped[0].LessonTitle)
	s.Assert().True(skipped[0].Skipped)

	// Only the skip tombstone sits inside this start range.
	ranged, err := s.repo.ListForSession(ctx, s.sessionID, models.ReportFilter{
		StartedAfter:  "2026-08-31 09:01:30",
		StartedBefore: "2026-08-31 09:02:30",
	})
	s.Require().NoError(err)
	s.Require().Len(ranged, 1)
	s.Assert().Equal("Skip Counting", ranged[0].LessonTitle)
}

func TestSessionLessonRepositorySuite(t *testing.T) {
	suite.Run(t, new(SessionLessonRepositorySuite))
}
