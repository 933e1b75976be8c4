package models

// LessonAttempt carries the outcome a lesson module produced for one run.
// AvgTime is nil when the module asked zero questions.
type LessonAttempt struct {
	QuestionsAsked     int
	QuestionsCorrect   int
	AvgTimePerQuestion *float64
	StartTime          string
	EndTime            string
	TotalTime          float64
}

// PercentCorrect derives the score percentage, or nil when no questions were
// asked.
func (a LessonAttempt) PercentCorrect() *float64 {
	if a.QuestionsAsked == 0 {
		return nil
	}
	p := float64(a.QuestionsCorrect) / float64(a.QuestionsAsked) * 100
	return &p
}

// ReportFilter narrows the per-lesson rows returned for a session report.
// StartedAfter and StartedBefore are stored-format timestamps, inclusive.
type ReportFilter struct {
	LessonTitle   string
	SkippedOnly   bool
	StartedAfter  string
	StartedBefore string
}

// ReportRow is one lesson's line in a session report.
type ReportRow struct {
	LessonTitle        string
	Skipped            bool
	QuestionsAsked     *int
	QuestionsCorrect   *int
	PercentCorrect     *float64
	TotalTime          *float64
	AvgTimePerQuestion *float64
}

// SessionReport aggregates a session's lesson rows with its header.
type SessionReport struct {
	Session     Session
	StudentName string
	Rows        []ReportRow
}
