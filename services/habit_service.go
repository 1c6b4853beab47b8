package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
	"github.com/JBE10/lifeops/utils"
)

const (
	statsWindowDays = 30
	statsCacheTTL   = 5 * time.Minute
)

type HabitStats struct {
	HabitID        string  `json:"habit_id"`
	Name           string  `json:"name"`
	WindowDays     int     `json:"window_days"`
	CompletedDays  int     `json:"completed_days"`
	CompletionRate float64 `json:"completion_rate"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	Error          error   `json:"-"`
}

type OwnerHabitStats struct {
	OwnerID      string       `json:"owner_id"`
	TotalHabits  int          `json:"total_habits"`
	ActiveHabits int          `json:"active_habits"`
	OverallRate  float64      `json:"overall_completion_rate"`
	HabitStats   []HabitStats `json:"habit_stats"`
	ProcessingMS int64        `json:"processing_time_ms"`
}

type StatsService struct {
	store  *db.Store
	cache  cache.Cache
	logger *zap.Logger
	clock  Clock
}

func NewStatsService(store *db.Store, c cache.Cache, logger *zap.Logger, clock Clock) *StatsService {
	return &StatsService{store: store, cache: c, logger: logger, clock: clock}
}

// OwnerStats computes completion statistics for every habit of the owner,
// one goroutine per habit. Results are cached until the next mutation or
// statsCacheTTL.
func (s *StatsService) OwnerStats(ctx context.Context, ownerID string) (*OwnerHabitStats, error) {
	startTime := time.Now()

	cacheKey := cache.StatsKey(ownerID)
	var cached OwnerHabitStats
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		s.logger.Debug("cache_hit", zap.String("key", cacheKey))
		return &cached, nil
	}

	scope := s.store.ForOwner(ownerID)
	habits, err := scope.ListHabits(ctx, false)
	if err != nil {
		return nil, err
	}

	if len(habits) == 0 {
		return &OwnerHabitStats{OwnerID: ownerID, HabitStats: []HabitStats{}}, nil
	}

	today := s.clock.Today()
	statsChan := make(chan HabitStats, len(habits))
	var wg sync.WaitGroup

	for _, habit := range habits {
		wg.Add(1)
		go func(h models.Habit) {
			defer wg.Done()
			statsChan <- s.singleHabitStats(ctx, scope, h, today)
		}(habit)
	}

	go func() {
		wg.Wait()
		close(statsChan)
	}()

	habitStats := make([]HabitStats, 0, len(habits))
	var totalRate float64

	for stat := range statsChan {
		if stat.Error != nil {
			s.logger.Warn("habit_stats_error",
				zap.String("habit_id", stat.HabitID),
				zap.Error(stat.Error),
			)
			continue
		}
		habitStats = append(habitStats, stat)
		totalRate += stat.CompletionRate
	}

	activeCount := 0
	for _, h := range habits {
		if h.IsActive {
			activeCount++
		}
	}

	overallRate := 0.0
	if len(habitStats) > 0 {
		overallRate = totalRate / float64(len(habitStats))
	}

	elapsed := time.Since(startTime)
	result := &OwnerHabitStats{
		OwnerID:      ownerID,
		TotalHabits:  len(habits),
		ActiveHabits: activeCount,
		OverallRate:  overallRate,
		HabitStats:   habitStats,
		ProcessingMS: elapsed.Milliseconds(),
	}

	if err := s.cache.Set(ctx, cacheKey, result, statsCacheTTL); err != nil {
		s.logger.Warn("cache_set_failed", zap.String("key", cacheKey), zap.Error(err))
	}

	s.logger.Info("stats_calculated",
		zap.String("owner_id", ownerID),
		zap.Int("habits_count", len(habits)),
		zap.Duration("duration", elapsed),
	)

	return result, nil
}

// singleHabitStats rates the habit over the last statsWindowDays days, or
// since its creation if that is more recent.
func (s *StatsService) singleHabitStats(ctx context.Context, scope *db.OwnerScope, h models.Habit, today utils.Day) HabitStats {
	stats := HabitStats{
		HabitID:       h.ID,
		Name:          h.Name,
		CurrentStreak: h.CurrentStreak,
		LongestStreak: h.LongestStreak,
	}

	window := statsWindowDays
	created := utils.DayKey(h.CreatedAt, s.clock.Location)
	for d := 1; d < window; d++ {
		if created == today.AddDays(-(d - 1)) {
			window = d
			break
		}
	}
	stats.WindowDays = window

	n, err := scope.CountLogsSince(ctx, h.ID, today.AddDays(-(window - 1)))
	if err != nil {
		stats.Error = err
		return stats
	}
	stats.CompletedDays = int(n)
	stats.CompletionRate = float64(n) / float64(window) * 100

	return stats
}

// SetActive flips is_active on several habits at once, one goroutine per
// habit. The first failure is returned.
func (s *StatsService) SetActive(ctx context.Context, ownerID string, habitIDs []string, active bool) error {
	if len(habitIDs) == 0 {
		return invalid("no habit ids given")
	}

	scope := s.store.ForOwner(ownerID)
	errChan := make(chan error, len(habitIDs))
	var wg sync.WaitGroup

	for _, id := range habitIDs {
		wg.Add(1)
		go func(habitID string) {
			defer wg.Done()

			if err := scope.SetHabitActive(ctx, habitID, active); err != nil {
				errChan <- fmt.Errorf("update habit %s: %w", habitID, fromStore(err))
				return
			}
			errChan <- nil
		}(id)
	}

	go func() {
		wg.Wait()
		close(errChan)
	}()

	var firstErr error
	for err := range errChan {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	invalidateHabitCache(ctx, s.cache, s.logger, ownerID)

	if firstErr != nil {
		s.logger.Error("bulk_update_error", zap.Error(firstErr))
		return firstErr
	}

	s.logger.Info("bulk_update_completed",
		zap.String("owner_id", ownerID),
		zap.Int("count", len(habitIDs)),
		zap.Bool("is_active", active),
	)
	return nil
}
