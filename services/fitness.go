package services

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
)

const (
	defaultWorkoutLimit = 20
	maxWorkoutLimit     = 100
	defaultStatsDays    = 30
	maxStatsDays        = 366
)

type ExerciseInput struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Sets     int     `json:"sets" validate:"gte=0"`
	Reps     int     `json:"reps" validate:"gte=0"`
	Weight   float64 `json:"weight" validate:"gte=0"`
	Duration int     `json:"duration" validate:"gte=0"`
	Distance float64 `json:"distance" validate:"gte=0"`
	Notes    string  `json:"notes" validate:"max=500"`
}

type WorkoutInput struct {
	Type      string          `json:"type" validate:"omitempty,oneof=strength cardio flexibility sports other"`
	Name      string          `json:"name" validate:"required,max=100"`
	Date      *time.Time      `json:"date"`
	Duration  int             `json:"duration" validate:"gt=0,max=1440"`
	Calories  int             `json:"calories" validate:"gte=0"`
	Exercises []ExerciseInput `json:"exercises" validate:"max=50,dive"`
	Notes     string          `json:"notes" validate:"max=1000"`
	Feeling   string          `json:"feeling" validate:"omitempty,oneof=great good okay tired bad"`
}

type WorkoutPatch struct {
	Type      *string          `json:"type"`
	Name      *string          `json:"name"`
	Date      *time.Time       `json:"date"`
	Duration  *int             `json:"duration"`
	Calories  *int             `json:"calories"`
	Exercises *[]ExerciseInput `json:"exercises"`
	Notes     *string          `json:"notes"`
	Feeling   *string          `json:"feeling"`
}

type WorkoutQuery struct {
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
	Type  string `form:"type"`
}

type WorkoutPage struct {
	Workouts   []models.Workout `json:"workouts"`
	Pagination Pagination       `json:"pagination"`
}

type WorkoutTypeStat struct {
	Type          string `json:"type"`
	Count         int    `json:"count"`
	TotalDuration int    `json:"total_duration"`
}

// WeekdayStat counts workouts on one weekday; Day 0 is Sunday.
type WeekdayStat struct {
	Day   int    `json:"day"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type StatsPeriod struct {
	Days  int       `json:"days"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type WorkoutStats struct {
	TotalWorkouts int               `json:"total_workouts"`
	TotalDuration int               `json:"total_duration"`
	TotalCalories int               `json:"total_calories"`
	AvgDuration   int               `json:"avg_duration"`
	ByType        []WorkoutTypeStat `json:"by_type"`
	ByDayOfWeek   []WeekdayStat     `json:"by_day_of_week"`
	Period        StatsPeriod       `json:"period"`
}

type FitnessService struct {
	store  *db.Store
	cache  cache.Cache
	logger *zap.Logger
	clock  Clock
}

func NewFitnessService(store *db.Store, c cache.Cache, logger *zap.Logger, clock Clock) *FitnessService {
	return &FitnessService{store: store, cache: c, logger: logger, clock: clock}
}

func (s *FitnessService) Create(ctx context.Context, ownerID string, in WorkoutInput) (*models.Workout, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Type == "" {
		in.Type = models.WorkoutStrength
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	date := s.clock.Now()
	if in.Date != nil {
		date = *in.Date
	}

	workout := &models.Workout{
		Type:      in.Type,
		Name:      in.Name,
		Date:      date.UTC(),
		Duration:  in.Duration,
		Calories:  in.Calories,
		Exercises: exercisesFrom(in.Exercises),
		Notes:     in.Notes,
		Feeling:   in.Feeling,
	}
	if err := s.store.ForOwner(ownerID).CreateWorkout(ctx, workout); err != nil {
		return nil, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	return workout, nil
}

func (s *FitnessService) Get(ctx context.Context, ownerID, id string) (*models.Workout, error) {
	workout, err := s.store.ForOwner(ownerID).FindWorkout(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return workout, nil
}

// List pages through workouts newest first.
func (s *FitnessService) List(ctx context.Context, ownerID string, q WorkoutQuery) (*WorkoutPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = defaultWorkoutLimit
	}
	if q.Page < 1 {
		return nil, invalid("page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > maxWorkoutLimit {
		return nil, invalid("limit must be between 1 and %d", maxWorkoutLimit)
	}

	workouts, total, err := s.store.ForOwner(ownerID).ListWorkouts(ctx, db.WorkoutFilter{
		Type:   q.Type,
		Offset: (q.Page - 1) * q.Limit,
		Limit:  q.Limit,
	})
	if err != nil {
		return nil, err
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}

	return &WorkoutPage{
		Workouts: workouts,
		Pagination: Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: pageCount(total, q.Limit),
		},
	}, nil
}

func (s *FitnessService) Update(ctx context.Context, ownerID, id string, patch WorkoutPatch) (*models.Workout, error) {
	scope := s.store.ForOwner(ownerID)
	workout, err := scope.FindWorkout(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	in := WorkoutInput{
		Type:     workout.Type,
		Name:     workout.Name,
		Duration: workout.Duration,
		Calories: workout.Calories,
		Notes:    workout.Notes,
		Feeling:  workout.Feeling,
	}
	if patch.Type != nil {
		in.Type = *patch.Type
	}
	if patch.Name != nil {
		in.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Duration != nil {
		in.Duration = *patch.Duration
	}
	if patch.Calories != nil {
		in.Calories = *patch.Calories
	}
	if patch.Exercises != nil {
		in.Exercises = *patch.Exercises
	}
	if patch.Notes != nil {
		in.Notes = strings.TrimSpace(*patch.Notes)
	}
	if patch.Feeling != nil {
		in.Feeling = *patch.Feeling
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Type == "" {
		return nil, invalid("type is required")
	}

	workout.Type = in.Type
	workout.Name = in.Name
	workout.Duration = in.Duration
	workout.Calories = in.Calories
	workout.Notes = in.Notes
	workout.Feeling = in.Feeling
	if patch.Exercises != nil {
		workout.Exercises = exercisesFrom(in.Exercises)
	}
	if patch.Date != nil {
		workout.Date = patch.Date.UTC()
	}

	if err := scope.UpdateWorkout(ctx, workout); err != nil {
		return nil, fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return workout, nil
}

func (s *FitnessService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteWorkout(ctx, id); err != nil {
		return fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// Stats summarises the workouts of the last days days, counted back from
// the start of today. Zero days means the default window.
func (s *FitnessService) Stats(ctx context.Context, ownerID string, days int) (*WorkoutStats, error) {
	if days == 0 {
		days = defaultStatsDays
	}
	if days < 1 || days > maxStatsDays {
		return nil, invalid("days must be between 1 and %d", maxStatsDays)
	}

	now := s.clock.Now().In(s.clock.Location)
	y, m, d := now.Date()
	start := time.Date(y, m, d-days, 0, 0, 0, 0, s.clock.Location)

	workouts, err := s.store.ForOwner(ownerID).ListWorkoutsSince(ctx, start)
	if err != nil {
		return nil, err
	}

	stats := SummarizeWorkouts(workouts, s.clock.Location)
	stats.Period = StatsPeriod{Days: days, Start: start, End: now}
	return &stats, nil
}

// SummarizeWorkouts totals workouts by type and by weekday in loc. Types
// are ordered by count descending, weekdays Sunday first, and only
// weekdays with workouts are listed.
func SummarizeWorkouts(workouts []models.Workout, loc *time.Location) WorkoutStats {
	stats := WorkoutStats{ByType: []WorkoutTypeStat{}, ByDayOfWeek: []WeekdayStat{}}

	byType := make(map[string]*WorkoutTypeStat)
	var byDay [7]int
	for _, w := range workouts {
		stats.TotalWorkouts++
		stats.TotalDuration += w.Duration
		stats.TotalCalories += w.Calories

		ts, ok := byType[w.Type]
		if !ok {
			ts = &WorkoutTypeStat{Type: w.Type}
			byType[w.Type] = ts
		}
		ts.Count++
		ts.TotalDuration += w.Duration

		byDay[w.Date.In(loc).Weekday()]++
	}
	if stats.TotalWorkouts > 0 {
		stats.AvgDuration = int(math.Round(float64(stats.TotalDuration) / float64(stats.TotalWorkouts)))
	}

	for _, ts := range byType {
		stats.ByType = append(stats.ByType, *ts)
	}
	sort.Slice(stats.ByType, func(i, j int) bool {
		if stats.ByType[i].Count != stats.ByType[j].Count {
			return stats.ByType[i].Count > stats.ByType[j].Count
		}
		return stats.ByType[i].Type < stats.ByType[j].Type
	})

	for day, n := range byDay {
		if n > 0 {
			stats.ByDayOfWeek = append(stats.ByDayOfWeek, WeekdayStat{
				Day:   day,
				Name:  time.Weekday(day).String(),
				Count: n,
			})
		}
	}
	return stats
}

func exercisesFrom(in []ExerciseInput) []models.Exercise {
	out := make([]models.Exercise, 0, len(in))
	for _, e := range in {
		out = append(out, models.Exercise{
			Name:     strings.TrimSpace(e.Name),
			Sets:     e.Sets,
			Reps:     e.Reps,
			Weight:   e.Weight,
			Duration: e.Duration,
			Distance: e.Distance,
			Notes:    e.Notes,
		})
	}
	return out
}

func (s *FitnessService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.DeletePattern(ctx, cache.ResponsePattern(ownerID, "/api/fitness")); err != nil {
		s.logger.Warn("cache_delete_failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}
