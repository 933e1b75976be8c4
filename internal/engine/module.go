// Package engine drives an ordered list of lesson modules through one
// learning session, dispatching to each module, collecting its result or a
// skip, and folding the results into session totals.
package engine

import (
	"context"
	"time"
)

// SessionContext carries the per-session state threaded through every engine
// call, replacing any notion of a globally selected student.
type SessionContext struct {
	SessionID   int64
	StudentID   int64
	StudentName string
	Now         func() time.Time
}

// ModuleResult is what a lesson module produces for one run: either a
// Completed score or a Skipped marker.
type ModuleResult interface {
	isModuleResult()
}

// Completed reports a finished lesson run. AvgTime is nil when the module
// asked zero questions.
type Completed struct {
	QuestionsAsked   int
	QuestionsCorrect int
	AvgTime          *float64
}

func (Completed) isModuleResult() {}

// Skipped marks a lesson the student bypassed.
type Skipped struct{}

func (Skipped) isModuleResult() {}

// LessonModule is the engine-to-presentation contract: an opaque unit that,
// given the session context, runs itself and returns exactly one result. How
// the module renders is irrelevant here.
type LessonModule interface {
	Run(ctx context.Context, sc SessionContext) (ModuleResult, error)
}

// LessonModuleFunc adapts a function to the LessonModule interface.
type LessonModuleFunc func(ctx context.Context, sc SessionContext) (ModuleResult, error)

func (f LessonModuleFunc) Run(ctx context.Context, sc SessionContext) (ModuleResult, error) {
	return f(ctx, sc)
}
