// Package catalog holds the fixed lesson catalog. The catalog is seeded once
// at startup and treated as immutable afterwards; lesson modules are authored
// against these titles.
package catalog

import (
	"context"

	"github.com/8bitgaijin/Learniverse-sub000/internal/logger"
	"github.com/8bitgaijin/Learniverse-sub000/internal/models"
	"github.com/8bitgaijin/Learniverse-sub000/internal/repository"
)

// Entry describes one catalog lesson. TierCount is the number of authored
// content tiers; it caps how far the mastery level can usefully advance.
type Entry struct {
	Title       string
	Description string
	TierCount   int
}

// Entries is the fixed catalog in sequence order.
var Entries = []Entry{
	{Title: "Rainbow Numbers", Description: "Pairs of numbers that sum to ten", TierCount: 4},
	{Title: "Hundreds Chart", Description: "Locating numbers on the hundreds chart", TierCount: 3},
	{Title: "Single Digit Addition", Description: "Addition facts with addends 0-9", TierCount: 6},
	{Title: "Single Digit Subtraction", Description: "Subtraction facts within 0-9", TierCount: 6},
	{Title: "Single Digit Multiplication", Description: "Multiplication facts with factors 0-9", TierCount: 6},
	{Title: "Single Digit Division", Description: "Division facts with divisors 1-9", TierCount: 6},
	{Title: "Double Digit Addition", Description: "Two-digit addition with regrouping", TierCount: 5},
	{Title: "Skip Counting", Description: "Counting by twos, fives and tens", TierCount: 3},
	{Title: "Lowercase Letters", Description: "Recognizing lowercase letters", TierCount: 2},
	{Title: "Vocabulary Destroyer", Description: "Sight word and vocabulary drills", TierCount: 8},
}

// TierCount returns the ceiling for a lesson's content ladder, or 0 when the
// title is not in the catalog. Content-ladder capping is the caller's
// responsibility; the progress tracker itself enforces no upper bound.
func TierCount(title string) int {
	for _, e := range Entries {
		if e.Title == title {
			return e.TierCount
		}
	}
	return 0
}

// Seed upserts the catalog into the store. Safe to call on every startup.
func Seed(ctx context.Context, lessons repository.LessonRepository) error {
	log := logger.FromContext(ctx).WithPrefix("catalog")

	rows := make([]models.Lesson, 0, len(Entries))
	for _, e := range Entries {
		rows = append(rows, models.Lesson{Title: e.Title, Description: e.Description})
	}
	if err := lessons.Seed(ctx, rows); err != nil {
		log.Error("failed to seed catalog: %v", err)
		return err
	}
	log.Info("lesson catalog seeded: %d lessons", len(rows))
	return nil
}
