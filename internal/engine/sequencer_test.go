package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/8bitgaijin/Learniverse-sub000/internal/engine"
)

// fakeSessionService captures the terminal EndSession call so sequencer tests
// do not need a store.
type fakeSessionService struct {
	ended          bool
	endedSessionID int64
	totalQuestions int
	totalCorrect   int
	avgTime        float64
}

func (f *fakeSessionService) StartSession(ctx context.Context, studentName string) (int64, error) {
	return 1, nil
}

func (f *fakeSessionService) WasLastSessionIncompleteToday(ctx context.Context, studentName string) bool {
	return false
}

func (f *fakeSessionService) EndSession(ctx context.Context, sessionID int64, totalQuestions, totalCorrect int, avgTime float64) error {
	f.ended = true
	f.endedSessionID = sessionID
	f.totalQuestions = totalQuestions
	f.totalCorrect = totalCorrect
	f.avgTime = avgTime
	return nil
}

func floatPtr(v float64) *float64 { return &v }

func TestSequencerWalksLessonsInOrder(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessionService{}
	seq := engine.NewSequencer(sessions, 42, []string{"Rainbow Numbers", "Skip Counting"})

	assert.Equal(t, engine.StateNotStarted, seq.State())
	require.NoError(t, seq.Start(ctx))
	assert.Equal(t, engine.StateRunning, seq.State())

	title, ok := seq.Current()
	require.True(t, ok)
	assert.Equal(t, "Rainbow Numbers", title)

	require.NoError(t, seq.Advance(ctx, engine.Completed{QuestionsAsked: 5, QuestionsCorrect: 4, AvgTime: floatPtr(3.0)}))
	title, ok = seq.Current()
	require.True(t, ok)
	assert.Equal(t, "Skip Counting", title)

	require.NoError(t, seq.Advance(ctx, engine.Completed{QuestionsAsked: 5, QuestionsCorrect: 5, AvgTime: floatPtr(5.0)}))
	assert.Equal(t, engine.StateFinished, seq.State())
	_, ok = seq.Current()
	assert.False(t, ok)
}

func TestSequencerTerminalAdvanceClosesSession(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessionService{}
	seq := engine.NewSequencer(sessions, 42, []string{"Rainbow Numbers", "Skip Counting"})

	require.NoError(t, seq.Start(ctx))
	require.NoError(t, seq.Advance(ctx, engine.Completed{QuestionsAsked: 5, QuestionsCorrect: 4, AvgTime: floatPtr(3.0)}))
	require.NoError(t, seq.Advance(ctx, engine.Completed{QuestionsAsked: 5, QuestionsCorrect: 5, AvgTime: floatPtr(5.0)}))

	require.True(t, sessions.ended)
	assert.Equal(t, int64(42), sessions.endedSessionID)
	assert.Equal(t, 10, sessions.totalQuestions)
	assert.Equal(t, 9, sessions.totalCorrect)
	assert.InDelta(t, 4.0, sessions.avgTime, 0.0001)
}

func TestSequencerSkipContributesNothing(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessionService{}
	seq := engine.NewSequencer(sessions, 42, []string{"Rainbow Numbers", "Skip Counting"})

	require.NoError(t, seq.Start(ctx))
	require.NoError(t, seq.Advance(ctx, engine.Skipped{}))
	require.NoError(t, seq.Advance(ctx, engine.Completed{QuestionsAsked: 5, QuestionsCorrect: 5, AvgTime: floatPtr(2.0)}))

	// The skip is excluded from the average, not averaged in as zero.
	require.True(t, sessions.ended)
	assert.Equal(t, 5, sessions.totalQuestions)
	assert.Equal(t, 5, sessions.totalCorrect)
	assert.InDelta(t, 2.0, sessions.avgTime, 0.0001)
}

func TestSequencerAllSkippedEndsWithZeroAverage(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessionService{}
	seq := engine.NewSequencer(sessions, 42, []string{"Rainbow Numbers"})

	require.NoError(t, seq.Start(ctx))
	require.NoError(t, seq.Advance(ctx, engine.Skipped{}))

	require.True(t, sessions.ended)
	assert.Equal(t, 0, sessions.totalQuestions)
	assert.InDelta(t, 0.0, sessions.avgTime, 0.0001)
}

func TestSequencerEmptyListFinishesImmediately(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessionService{}
	seq := engine.NewSequencer(sessions, 42, nil)

	require.NoError(t, seq.Start(ctx))
	assert.Equal(t, engine.StateFinished, seq.State())
	assert.True(t, sessions.ended)
}

func TestSequencerRejectsOutOfPhaseCalls(t *testing.T) {
	ctx := context.Background()
	sessions := &fakeSessionService{}
	seq := engine.NewSequencer(sessions, 42, []string{"Rainbow Numbers"})

	// Advance before Start.
	assert.Error(t, seq.Advance(ctx, engine.Skipped{}))

	require.NoError(t, seq.Start(ctx))
	assert.Error(t, seq.Start(ctx))

	require.NoError(t, seq.Advance(ctx, engine.Skipped{}))
	assert.Error(t, seq.Advance(ctx, engine.Skipped{}))
}
