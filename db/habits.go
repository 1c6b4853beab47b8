package db

import (
	"context"

	"github.com/JBE10/lifeops/models"
	"github.com/JBE10/lifeops/utils"
)

func (o *OwnerScope) CreateHabit(ctx context.Context, habit *models.Habit) error {
	habit.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(habit).Error)
}

func (o *OwnerScope) FindHabit(ctx context.Context, id string) (*models.Habit, error) {
	var habit models.Habit
	if err := o.query(ctx).Where("id = ?", id).First(&habit).Error; err != nil {
		return nil, translate(err)
	}
	return &habit, nil
}

// ListHabits returns habits oldest first.
func (o *OwnerScope) ListHabits(ctx context.Context, activeOnly bool) ([]models.Habit, error) {
	q := o.query(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var habits []models.Habit
	if err := q.Order("created_at ASC").Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// UpdateHabit writes the user-editable fields of habit. Streak fields are
// only written by SaveStreak.
func (o *OwnerScope) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	res := o.db.WithContext(ctx).
		Model(&models.Habit{}).
		Where("id = ? AND owner_id = ?", habit.ID, o.ownerID).
		Select("name", "description", "icon", "color", "frequency", "target_days", "is_active").
		Updates(habit)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (o *OwnerScope) SetHabitActive(ctx context.Context, id string, active bool) error {
	res := o.db.WithContext(ctx).
		Model(&models.Habit{}).
		Where("id = ? AND owner_id = ?", id, o.ownerID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (o *OwnerScope) SaveStreak(ctx context.Context, habitID string, current, longest int) error {
	res := o.db.WithContext(ctx).
		Model(&models.Habit{}).
		Where("id = ? AND owner_id = ?", habitID, o.ownerID).
		Updates(map[string]interface{}{
			"current_streak": current,
			"longest_streak": longest,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteHabit removes the habit and all of its logs.
func (o *OwnerScope) DeleteHabit(ctx context.Context, id string) error {
	return o.Transaction(ctx, func(tx *OwnerScope) error {
		if err := tx.query(ctx).Where("habit_id = ?", id).Delete(&models.HabitLog{}).Error; err != nil {
			return err
		}
		res := tx.query(ctx).Where("id = ?", id).Delete(&models.Habit{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (o *OwnerScope) FindLog(ctx context.Context, habitID string, day utils.Day) (*models.HabitLog, error) {
	var log models.HabitLog
	err := o.query(ctx).
		Where("habit_id = ? AND date = ?", habitID, day.String()).
		First(&log).Error
	if err != nil {
		return nil, translate(err)
	}
	return &log, nil
}

// CreateLog returns ErrDuplicate when the habit already has a log that day.
func (o *OwnerScope) CreateLog(ctx context.Context, log *models.HabitLog) error {
	log.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(log).Error)
}

func (o *OwnerScope) DeleteLog(ctx context.Context, id string) error {
	res := o.query(ctx).Where("id = ?", id).Delete(&models.HabitLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLogsSince returns logs dated on or after since, newest first.
func (o *OwnerScope) ListLogsSince(ctx context.Context, habitID string, since utils.Day) ([]models.HabitLog, error) {
	var logs []models.HabitLog
	err := o.query(ctx).
		Where("habit_id = ? AND date >= ?", habitID, since.String()).
		Order("date DESC").
		Find(&logs).Error
	return logs, err
}

// ListCompletedLogs returns every completed log of the habit, newest first.
func (o *OwnerScope) ListCompletedLogs(ctx context.Context, habitID string) ([]models.HabitLog, error) {
	var logs []models.HabitLog
	err := o.query(ctx).
		Where("habit_id = ? AND completed = ?", habitID, true).
		Order("date DESC").
		Find(&logs).Error
	return logs, err
}

func (o *OwnerScope) ListLogsForDay(ctx context.Context, day utils.Day) ([]models.HabitLog, error) {
	var logs []models.HabitLog
	err := o.query(ctx).Where("date = ?", day.String()).Find(&logs).Error
	return logs, err
}

func (o *OwnerScope) CountLogsSince(ctx context.Context, habitID string, since utils.Day) (int64, error) {
	var n int64
	err := o.query(ctx).
		Model(&models.HabitLog{}).
		Where("habit_id = ? AND date >= ?", habitID, since.String()).
		Count(&n).Error
	return n, err
}
