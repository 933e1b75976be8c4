package services

import (
	"context"
	"time"

	"github.com/8bitgaijin/Learniverse-sub000/internal/clock"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

// StreakService computes consecutive-day usage streaks. The whole surface is
// cosmetic: every failure degrades to 0 so a streak display can never block
// the session flow.
type StreakService interface {
	// CurrentStreak counts consecutive prior days with at least one session,
	// as of the start of today. Today's activity does not yet count.
	CurrentStreak(ctx context.Context, studentName string) int
	SessionCountOnDate(ctx context.Context, studentID int64, date time.Time) int
}

type streakService struct {
	students repository.StudentRepository
	sessions repository.SessionRepository
	now      func() time.Time
}

// NewStreakService creates a new StreakService
func NewStreakService(students repository.StudentRepository, sessions repository.SessionRepository) StreakService {
	return &streakService{students: students, sessions: sessions, now: time.Now}
}

func (s *streakService) CurrentStreak(ctx context.Context, studentName string) int {
	log := logger.FromContext(ctx)
	log.Debug("computing streak: student=%s", studentName)

	student, err := s.students.GetByName(ctx, studentName)
	if err != nil || student == nil {
		log.Debug("student lookup came up empty (err=%v), streak is 0", err)
		return 0
	}

	today := s.now()
	if s.SessionCountOnDate(ctx, student.ID, clock.DaysAgo(today, 1)) == 0 {
		log.Debug("no session yesterday, streak is 0")
		return 0
	}

	streak := 1
	for day := 2; ; day++ {
		if s.SessionCountOnDate(ctx, student.ID, clock.DaysAgo(today, day)) == 0 {
			break
		}
		streak++
	}

	log.Debug("streak for %s: %d days", studentName, streak)
	return streak
}

func (s *streakService) SessionCountOnDate(ctx context.Context, studentID int64, date time.Time) int {
	log := logger.FromContext(ctx)

	dayStart, dayEnd := clock.DayWindow(date)
	count, err := s.sessions.CountInWindow(ctx, studentID, dayStart, dayEnd)
	if err != nil {
		log.Warn("failed to count sessions on %s, treating as 0: %v", clock.DateOf(date), err)
		return 0
	}
	return count
}
