package services

import (
	"context"

	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/utils"
)

type Streak struct {
	Current int `json:"current_streak"`
	Longest int `json:"longest_streak"`
}

// CurrentStreak counts consecutive days ending today. days must be sorted
// newest first; the i-th entry has to be today minus i days. A habit not yet
// done today has a streak of 0 even if yesterday was done.
func CurrentStreak(days []utils.Day, today utils.Day) int {
	streak := 0
	for i, d := range days {
		if d != today.AddDays(-i) {
			break
		}
		streak++
	}
	return streak
}

// StreakCalculator derives streak values from a habit's logs. It never
// writes; callers persist the result.
type StreakCalculator struct {
	clock Clock
}

func NewStreakCalculator(clock Clock) *StreakCalculator {
	return &StreakCalculator{clock: clock}
}

func (c *StreakCalculator) Recompute(ctx context.Context, scope *db.OwnerScope, habitID string) (Streak, error) {
	return c.recomputeFor(ctx, scope, habitID, c.clock.Today())
}

// recomputeFor keeps the longest streak as a high-water mark over the stored
// value rather than rescanning history.
func (c *StreakCalculator) recomputeFor(ctx context.Context, scope *db.OwnerScope, habitID string, today utils.Day) (Streak, error) {
	habit, err := scope.FindHabit(ctx, habitID)
	if err != nil {
		return Streak{}, fromStore(err)
	}

	logs, err := scope.ListCompletedLogs(ctx, habitID)
	if err != nil {
		return Streak{}, err
	}

	days := make([]utils.Day, 0, len(logs))
	for _, l := range logs {
		d, err := utils.ParseDay(l.Date)
		if err != nil {
			return Streak{}, err
		}
		days = append(days, d)
	}

	current := CurrentStreak(days, today)
	return Streak{
		Current: current,
		Longest: max(habit.LongestStreak, current),
	}, nil
}
