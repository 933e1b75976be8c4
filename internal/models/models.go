package models

// Student is a learner. Created on first use, never deleted by the engine.
type Student struct {
	ID    int64
	Name  string
	Age   *int
	Email *string
}

// Lesson is a catalog entry representing a teachable unit with its own
// content ladder. The catalog is seeded once at startup and immutable during
// normal operation.
type Lesson struct {
	ID          int64
	Title       string
	Description string
}

// Session is one continuous sitting of a student running through a sequence
// of lesson modules. EndTime is nil until the session is explicitly closed;
// a nil EndTime from a previous calendar day means the session was abandoned.
type Session struct {
	ID                 int64
	StudentID          int64
	StartTime          string
	EndTime            *string
	TotalTime          *float64
	TotalQuestions     *int
	TotalCorrect       *int
	AvgTimePerQuestion *float64
}

// SessionLesson records one lesson's outcome within one session. A skipped
// lesson is stored as a tombstone with all performance fields nil.
type SessionLesson struct {
	ID                 int64
	SessionID          int64
	LessonID           int64
	StartTime          *string
	EndTime            *string
	TotalTime          *float64
	QuestionsAsked     *int
	QuestionsCorrect   *int
	AvgTimePerQuestion *float64
	PercentCorrect     *float64
}

// Skipped reports whether the row is a skip tombstone.
func (sl SessionLesson) Skipped() bool {
	return sl.QuestionsAsked == nil
}

// StudentLessonProgress is the durable per-student per-lesson mastery record.
// LastPerfectSessionID guards the level-up rule against double application
// within the same session.
type StudentLessonProgress struct {
	ID                   int64
	StudentID            int64
	LessonID             int64
	StudentLevel         int
	LastPerfectSessionID *int64
}
