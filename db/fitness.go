package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JBE10/lifeops/models"
)

type WorkoutFilter struct {
	Type   string
	Offset int
	Limit  int
}

func (o *OwnerScope) CreateWorkout(ctx context.Context, workout *models.Workout) error {
	workout.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(workout).Error)
}

func (o *OwnerScope) FindWorkout(ctx context.Context, id string) (*models.Workout, error) {
	return findOwned[models.Workout](ctx, o, id)
}

// ListWorkouts returns one page, newest first, and the match count.
func (o *OwnerScope) ListWorkouts(ctx context.Context, f WorkoutFilter) ([]models.Workout, int64, error) {
	q := o.query(ctx).Model(&models.Workout{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workouts []models.Workout
	err := q.Order("date DESC").Offset(f.Offset).Limit(f.Limit).Find(&workouts).Error
	if err != nil {
		return nil, 0, err
	}
	return workouts, total, nil
}

// ListWorkoutsSince returns every workout dated at or after since.
func (o *OwnerScope) ListWorkoutsSince(ctx context.Context, since time.Time) ([]models.Workout, error) {
	var workouts []models.Workout
	err := o.query(ctx).Where("date >= ?", since.UTC()).Order("date ASC").Find(&workouts).Error
	return workouts, err
}

func (o *OwnerScope) UpdateWorkout(ctx context.Context, workout *models.Workout) error {
	return updateOwned(ctx, o, workout.ID, workout,
		"type", "name", "date", "duration", "calories", "exercises", "notes", "feeling")
}

func (o *OwnerScope) DeleteWorkout(ctx context.Context, id string) error {
	return deleteOwned[models.Workout](ctx, o, id)
}
