package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/8bitgaijin/Learniverse-sub000/internal/clock"
	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/services"
)

// Engine ties the session lifecycle, skip evaluator, progress tracker and
// sequencer together around a module registry. One Engine serves one student
// at a time; all store access is synchronous.
type Engine struct {
	registry *Registry
	students services.StudentService
	sessions services.SessionService
	progress services.ProgressService
	skips    services.SkipService
	now      func() time.Time
}

// New creates an Engine over the given services and module registry.
func New(
	registry *Registry,
	students services.StudentService,
	sessions services.SessionService,
	progress services.ProgressService,
	skips services.SkipService,
) *Engine {
	return &Engine{
		registry: registry,
		students: students,
		sessions: sessions,
		progress: progress,
		skips:    skips,
		now:      time.Now,
	}
}

// SessionSummary is what a full sequence run leaves behind.
type SessionSummary struct {
	SessionID      int64
	TotalQuestions int
	TotalCorrect   int
	OverallAvgTime float64
	LessonsRun     int
	LessonsSkipped int
}

// RunSession opens a session for the student and drives every lesson in
// sequence to completion: evaluate skip eligibility, dispatch to the
// registered module, persist the outcome row, apply the level-up rule, feed
// the sequencer. The session is closed by the sequencer's terminal advance.
func (e *Engine) RunSession(ctx context.Context, studentName string, sequence []string) (*SessionSummary, error) {
	log := logger.FromContext(ctx).WithPrefix("engine")

	// Resolve every module up front so a wiring gap fails before any rows
	// are written.
	for _, title := range sequence {
		if _, err := e.registry.Resolve(title); err != nil {
			return nil, err
		}
	}

	if e.sessions.WasLastSessionIncompleteToday(ctx, studentName) {
		// Detection only: no repair or resume path. The presentation layer
		// owns warning the operator.
		log.Warn("student %q has an incomplete session from earlier today", studentName)
	}

	student, err := e.students.GetByName(ctx, studentName)
	if err != nil {
		return nil, err
	}

	sessionID, err := e.sessions.StartSession(ctx, studentName)
	if err != nil {
		return nil, err
	}

	sc := SessionContext{
		SessionID:   sessionID,
		StudentID:   student.ID,
		StudentName: studentName,
		Now:         e.now,
	}

	seq := NewSequencer(e.sessions, sessionID, sequence)
	if err := seq.Start(ctx); err != nil {
		return nil, err
	}

	summary := &SessionSummary{SessionID: sessionID}

	for {
		title, ok := seq.Current()
		if !ok {
			break
		}

		if e.skips.PerfectScoreYesterday(ctx, studentName, title) {
			if err := e.skips.RecordSkipByTitle(ctx, sessionID, title); err != nil {
				return nil, err
			}
			if err := seq.Advance(ctx, Skipped{}); err != nil {
				return nil, err
			}
			summary.LessonsSkipped++
			continue
		}

		skipped, err := e.runLesson(ctx, sc, seq, title)
		if err != nil {
			return nil, err
		}
		if skipped {
			summary.LessonsSkipped++
		} else {
			summary.LessonsRun++
		}
	}

	summary.TotalQuestions, summary.TotalCorrect, summary.OverallAvgTime = seq.Totals()
	log.Info("session run complete: session_id=%d, run=%d, skipped=%d",
		sessionID, summary.LessonsRun, summary.LessonsSkipped)
	return summary, nil
}

// runLesson dispatches one module and persists whatever it produced. Either
// branch leaves exactly one SessionLesson row behind.
func (e *Engine) runLesson(ctx context.Context, sc SessionContext, seq *Sequencer, title string) (skipped bool, err error) {
	module, err := e.registry.Resolve(title)
	if err != nil {
		return false, err
	}

	startedAt := e.now()
	result, err := module.Run(ctx, sc)
	if err != nil {
		return false, fmt.Errorf("lesson module %q: %w", title, err)
	}

	switch r := result.(type) {
	case Completed:
		endedAt := e.now()
		attempt := models.LessonAttempt{
			QuestionsAsked:     r.QuestionsAsked,
			QuestionsCorrect:   r.QuestionsCorrect,
			AvgTimePerQuestion: r.AvgTime,
			StartTime:          clock.Format(startedAt),
			EndTime:            clock.Format(endedAt),
			TotalTime:          math.Round(endedAt.Sub(startedAt).Seconds()*10) / 10,
		}
		if err := e.progress.RecordAttempt(ctx, sc.SessionID, title, attempt); err != nil {
			return false, err
		}
		if err := e.progress.RecordOutcome(ctx, sc.SessionID, title); err != nil {
			return false, err
		}
	case Skipped:
		// A module may decline to run (e.g. the student backed out); the
		// tombstone still has to exist.
		skipped = true
		if err := e.skips.RecordSkipByTitle(ctx, sc.SessionID, title); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("lesson module %q returned unknown result %T", title, result)
	}

	return skipped, seq.Advance(ctx, result)
}
