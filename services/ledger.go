package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
	"github.com/JBE10/lifeops/utils"
)

type ToggleResult struct {
	CompletedNow bool `json:"completed_now"`
	Streak
}

// HabitLedger owns the per-day completion logs of habits. ToggleToday is the
// only operation that mutates them.
type HabitLedger struct {
	store   *db.Store
	streaks *StreakCalculator
	cache   cache.Cache
	metrics *utils.Metrics
	logger  *zap.Logger
	clock   Clock
}

func NewHabitLedger(store *db.Store, streaks *StreakCalculator, c cache.Cache, metrics *utils.Metrics, logger *zap.Logger, clock Clock) *HabitLedger {
	return &HabitLedger{
		store:   store,
		streaks: streaks,
		cache:   c,
		metrics: metrics,
		logger:  logger,
		clock:   clock,
	}
}

// ToggleToday marks the habit done for today, or un-marks it if it already
// was, then recomputes and stores the habit's streaks. The log change and the
// streak update commit together.
func (l *HabitLedger) ToggleToday(ctx context.Context, habitID, ownerID string) (ToggleResult, error) {
	today := l.clock.Today()
	scope := l.store.ForOwner(ownerID)

	var result ToggleResult
	err := scope.Transaction(ctx, func(tx *db.OwnerScope) error {
		if _, err := tx.FindHabit(ctx, habitID); err != nil {
			return err
		}

		existing, err := tx.FindLog(ctx, habitID, today)
		switch {
		case err == nil:
			if err := tx.DeleteLog(ctx, existing.ID); err != nil {
				return err
			}
			result.CompletedNow = false
		case errors.Is(err, db.ErrNotFound):
			log := &models.HabitLog{
				HabitID:   habitID,
				Date:      today.String(),
				Completed: true,
			}
			if err := tx.CreateLog(ctx, log); err != nil {
				return err
			}
			result.CompletedNow = true
		default:
			return err
		}

		streak, err := l.streaks.recomputeFor(ctx, tx, habitID, today)
		if err != nil {
			return err
		}
		if err := tx.SaveStreak(ctx, habitID, streak.Current, streak.Longest); err != nil {
			return err
		}
		result.Streak = streak
		return nil
	})
	if err != nil {
		return ToggleResult{}, fromStore(err)
	}

	state := "uncompleted"
	if result.CompletedNow {
		state = "completed"
	}
	l.metrics.HabitToggles.WithLabelValues(state).Inc()
	invalidateHabitCache(ctx, l.cache, l.logger, ownerID)

	l.logger.Info("habit_toggled",
		zap.String("habit_id", habitID),
		zap.String("owner_id", ownerID),
		zap.String("day", today.String()),
		zap.Bool("completed", result.CompletedNow),
		zap.Int("current_streak", result.Current),
		zap.Int("longest_streak", result.Longest),
	)

	return result, nil
}

// ListRecent returns the habit's logs from the last windowDays days,
// today included, newest first.
func (l *HabitLedger) ListRecent(ctx context.Context, habitID, ownerID string, windowDays int) ([]models.HabitLog, error) {
	if windowDays <= 0 {
		return nil, invalid("window must be at least one day, got %d", windowDays)
	}

	scope := l.store.ForOwner(ownerID)
	if _, err := scope.FindHabit(ctx, habitID); err != nil {
		return nil, fromStore(err)
	}

	since := l.clock.Today().AddDays(-(windowDays - 1))
	logs, err := scope.ListLogsSince(ctx, habitID, since)
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// ListTodayStatusForOwner reports, for each active habit, whether it has a
// log for today.
func (l *HabitLedger) ListTodayStatusForOwner(ctx context.Context, ownerID string) (map[string]bool, error) {
	scope := l.store.ForOwner(ownerID)
	habits, err := scope.ListHabits(ctx, true)
	if err != nil {
		return nil, err
	}
	return l.todayStatus(ctx, scope, habits)
}

// todayStatus fetches today's logs in one query instead of one per habit.
func (l *HabitLedger) todayStatus(ctx context.Context, scope *db.OwnerScope, habits []models.Habit) (map[string]bool, error) {
	logs, err := scope.ListLogsForDay(ctx, l.clock.Today())
	if err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(logs))
	for _, log := range logs {
		done[log.HabitID] = true
	}

	status := make(map[string]bool, len(habits))
	for _, h := range habits {
		status[h.ID] = done[h.ID]
	}
	return status, nil
}

// invalidateHabitCache drops cached stats and habit responses for the owner.
// Failures are logged; stale entries expire on their own.
func invalidateHabitCache(ctx context.Context, c cache.Cache, logger *zap.Logger, ownerID string) {
	if err := c.Delete(ctx, cache.StatsKey(ownerID)); err != nil {
		logger.Warn("cache_delete_failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
	if err := c.DeletePattern(ctx, cache.ResponsePattern(ownerID, "/api/habits")); err != nil {
		logger.Warn("cache_delete_failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}
