package engine_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/8bitgaijin/Learniverse-sub000/internal/clock"
	"github.com/8bitgaijin/Learniverse-sub000/internal/engine"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository/sqlite"
	"github.com/8bitgaijin/Learniverse-sub000/internal/services"
	"github.com/8bitgaijin/Learniverse-sub000/internal/testutil"
)

// EngineSuite runs the full dispatch loop against a real store: repositories,
// services and sequencer wired exactly as in production, with lesson modules
// replaced by functions.
type EngineSuite struct {
	suite.Suite
	db *sql.DB

	students       repository.StudentRepository
	lessons        repository.LessonRepository
	sessions       repository.SessionRepository
	sessionLessons repository.SessionLessonRepository
	progress       repository.ProgressRepository
}

func (s *EngineSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())

	s.students = sqlite.NewStudentRepository(s.db)
	s.lessons = sqlite.NewLessonRepository(s.db)
	s.sessions = sqlite.NewSessionRepository(s.db)
	s.sessionLessons = sqlite.NewSessionLessonRepository(s.db)
	s.progress = sqlite.NewProgressRepository(s.db)

	ctx := context.Background()
	_, err := s.students.Upsert(ctx, "Mina", nil, nil)
	s.Require().NoError(err)
	for _, title := range []string{"Rainbow Numbers", "Skip Counting"} {
		_, err := s.lessons.Upsert(ctx, title, "")
		s.Require().NoError(err)
	}
}

func (s *EngineSuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *EngineSuite) newEngine(registry *engine.Registry) *engine.Engine {
	return engine.New(
		registry,
		services.NewStudentService(s.students),
		services.NewSessionService(s.students, s.sessions),
		services.NewProgressService(s.sessions, s.lessons, s.sessionLessons, s.progress),
		services.NewSkipService(s.students, s.lessons, s.sessionLessons),
	)
}

func completedModule(asked, correct int, avg float64) engine.LessonModule {
	return engine.LessonModuleFunc(func(ctx context.Context, sc engine.SessionContext) (engine.ModuleResult, error) {
		return engine.Completed{QuestionsAsked: asked, QuestionsCorrect: correct, AvgTime: &avg}, nil
	})
}

func (s *EngineSuite) lessonID(title string) int64 {
	lesson, err := s.lessons.GetByTitle(context.Background(), title)
	s.Require().NoError(err)
	s.Require().NotNil(lesson)
	return lesson.ID
}

func (s *EngineSuite) studentID() int64 {
	student, err := s.students.GetByName(context.Background(), "Mina")
	s.Require().NoError(err)
	s.Require().NotNil(student)
	return student.ID
}

func (s *EngineSuite) TestRunSessionRecordsEverything() {
	ctx := context.Background()

	registry := engine.NewRegistry()
	s.Require().NoError(registry.Register("Rainbow Numbers", completedModule(5, 5, 2.0)))
	s.Require().NoError(registry.Register("Skip Counting", completedModule(5, 4, 4.0)))

	e := s.newEngine(registry)
	summary, err := e.RunSession(ctx, "Mina", []string{"Rainbow Numbers", "Skip Counting"})
	s.Require().NoError(err)

	s.Assert().Equal(2, summary.LessonsRun)
	s.Assert().Equal(0, summary.LessonsSkipped)
	s.Assert().Equal(10, summary.TotalQuestions)
	s.Assert().Equal(9, summary.TotalCorrect)
	s.Assert().InDelta(3.0, summary.OverallAvgTime, 0.0001)

	// The terminal advance closed the session.
	session, err := s.sessions.Get(ctx, summary.SessionID)
	s.Require().NoError(err)
	s.Require().NotNil(session.EndTime)
	s.Require().NotNil(session.TotalQuestions)
	s.Assert().Equal(10, *session.TotalQuestions)

	// One row per lesson, neither a tombstone.
	rows, err := s.sessionLessons.ListForSession(ctx, summary.SessionID, models.ReportFilter{})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	for _, row := range rows {
		s.Assert().False(row.Skipped)
	}

	// Perfect score advanced the level, imperfect did not.
	perfect, err := s.progress.GetOrCreate(ctx, s.studentID(), s.lessonID("Rainbow Numbers"))
	s.Require().NoError(err)
	s.Assert().Equal(2, perfect.StudentLevel)

	imperfect, err := s.progress.GetOrCreate(ctx, s.studentID(), s.lessonID("Skip Counting"))
	s.Require().NoError(err)
	s.Assert().Equal(1, imperfect.StudentLevel)
}

func (s *EngineSuite) TestPerfectScoreYesterdaySkipsLesson() {
	ctx := context.Background()
	yesterday := clock.DaysAgo(time.Now(), 1)

	// Plant a perfect run from yesterday directly in the store.
	priorSession, err := s.sessions.Insert(ctx, s.studentID(), clock.Format(yesterday))
	s.Require().NoError(err)
	avg := 2.0
	_, err = s.sessionLessons.InsertAttempt(ctx, priorSession, s.lessonID("Rainbow Numbers"), models.LessonAttempt{
		QuestionsAsked:     5,
		QuestionsCorrect:   5,
		AvgTimePerQuestion: &avg,
		StartTime:          clock.Format(yesterday),
		EndTime:            clock.Format(yesterday.Add(90 * time.Second)),
		TotalTime:          90,
	})
	s.Require().NoError(err)

	invoked := false
	registry := engine.NewRegistry()
	s.Require().NoError(registry.Register("Rainbow Numbers", engine.LessonModuleFunc(
		func(ctx context.Context, sc engine.SessionContext) (engine.ModuleResult, error) {
			invoked = true
			return engine.Completed{}, nil
		})))
	s.Require().NoError(registry.Register("Skip Counting", completedModule(5, 4, 4.0)))

	e := s.newEngine(registry)
	summary, err := e.RunSession(ctx, "Mina", []string{"Rainbow Numbers", "Skip Counting"})
	s.Require().NoError(err)

	s.Assert().False(invoked, "a skippable lesson's module must never run")
	s.Assert().Equal(1, summary.LessonsSkipped)
	s.Assert().Equal(1, summary.LessonsRun)

	// The skip still left its tombstone row.
	skipped, err := s.sessionLessons.ListForSession(ctx, summary.SessionID, models.ReportFilter{SkippedOnly: true})
	s.Require().NoError(err)
	s.Require().Len(skipped, 1)
	s.Assert().Equal("Rainbow Numbers", skipped[0].LessonTitle)
}

func (s *EngineSuite) TestModuleDecliningToRunLeavesTombstone() {
	ctx := context.Background()

	registry := engine.NewRegistry()
	s.Require().NoError(registry.Register("Rainbow Numbers", engine.LessonModuleFunc(
		func(ctx context.Context, sc engine.SessionContext) (engine.ModuleResult, error) {
			return engine.Skipped{}, nil
		})))

	e := s.newEngine(registry)
	summary, err := e.RunSession(ctx, "Mina", []string{"Rainbow Numbers"})
	s.Require().NoError(err)

	s.Assert().Equal(1, summary.LessonsSkipped)
	rows, err := s.sessionLessons.ListForSession(ctx, summary.SessionID, models.ReportFilter{})
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.Assert().True(rows[0].Skipped)
}

func (s *EngineSuite) TestUnresolvedModuleFailsBeforeAnyRows() {
	ctx := context.Background()

	e := s.newEngine(engine.NewRegistry())
	_, err := e.RunSession(ctx, "Mina", []string{"Rainbow Numbers"})
	s.Require().Error(err)

	dayStart, dayEnd := clock.DayWindow(time.Now())
	count, err := s.sessions.CountInWindow(ctx, s.studentID(), dayStart, dayEnd)
	s.Require().NoError(err)
	s.Assert().Equal(0, count)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}
