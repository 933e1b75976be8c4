package engine

import (
	"context"
	"fmt"

	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/services"
)

// State is the sequencer's lifecycle phase.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Sequencer walks an ordered list of lesson titles for one session, tallying
// results as the presentation layer feeds them back. Skipped lessons
// contribute nothing to the tally: they are excluded from the aggregate
// average, not counted as zero.
type Sequencer struct {
	sessions  services.SessionService
	sessionID int64
	lessons   []string

	state State
	idx   int

	totalQuestions int
	totalCorrect   int
	avgTimes       []float64
}

// NewSequencer creates a Sequencer over the given lesson order.
func NewSequencer(sessions services.SessionService, sessionID int64, lessons []string) *Sequencer {
	return &Sequencer{
		sessions:  sessions,
		sessionID: sessionID,
		lessons:   lessons,
		state:     StateNotStarted,
	}
}

// State returns the current lifecycle phase.
func (s *Sequencer) State() State {
	return s.state
}

// Current returns the lesson title the sequence is waiting on. ok is false
// outside the Running state.
func (s *Sequencer) Current() (title string, ok bool) {
	if s.state != StateRunning {
		return "", false
	}
	return s.lessons[s.idx], true
}

// Start moves the sequence into Running. An empty lesson list finishes
// immediately, closing the session with zero totals.
func (s *Sequencer) Start(ctx context.Context) error {
	if s.state != StateNotStarted {
		return fmt.Errorf("start: sequencer is %s", s.state)
	}
	if len(s.lessons) == 0 {
		return s.finish(ctx)
	}
	s.state = StateRunning
	return nil
}

// Advance consumes exactly one module result for the current lesson and moves
// to the next. The terminal advance closes the session with the aggregate
// totals. Modules are never retried: one call, one result.
func (s *Sequencer) Advance(ctx context.Context, result ModuleResult) error {
	log := logger.FromContext(ctx).WithPrefix("sequencer")

	if s.state != StateRunning {
		return fmt.Errorf("advance: sequencer is %s", s.state)
	}

	switch r := result.(type) {
	case Completed:
		s.totalQuestions += r.QuestionsAsked
		s.totalCorrect += r.QuestionsCorrect
		if r.AvgTime != nil {
			s.avgTimes = append(s.avgTimes, *r.AvgTime)
		}
		log.Debug("lesson %q completed: asked=%d, correct=%d", s.lessons[s.idx], r.QuestionsAsked, r.QuestionsCorrect)
	case Skipped:
		log.Debug("lesson %q skipped, tally unchanged", s.lessons[s.idx])
	default:
		return fmt.Errorf("advance: unknown module result %T", result)
	}

	s.idx++
	if s.idx >= len(s.lessons) {
		return s.finish(ctx)
	}
	return nil
}

// Totals returns the running tally.
func (s *Sequencer) Totals() (totalQuestions, totalCorrect int, overallAvgTime float64) {
	return s.totalQuestions, s.totalCorrect, mean(s.avgTimes)
}

func (s *Sequencer) finish(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("sequencer")

	s.state = StateFinished
	overallAvg := mean(s.avgTimes)
	log.Info("sequence finished: session_id=%d, questions=%d, correct=%d, avg_time=%.2f",
		s.sessionID, s.totalQuestions, s.totalCorrect, overallAvg)

	return s.sessions.EndSession(ctx, s.sessionID, s.totalQuestions, s.totalCorrect, overallAvg)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
