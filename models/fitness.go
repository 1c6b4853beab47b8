package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	WorkoutStrength    = "strength"
	WorkoutCardio      = "cardio"
	WorkoutFlexibility = "flexibility"
	WorkoutSports      = "sports"
	WorkoutOther       = "other"
)

var WorkoutFeelings = []string{"great", "good", "okay", "tired", "bad"}

type Exercise struct {
	Name     string  `json:"name"`
	Sets     int     `json:"sets,omitempty"`
	Reps     int     `json:"reps,omitempty"`
	Weight   float64 `json:"weight,omitempty"`
	Duration int     `json:"duration,omitempty"`
	Distance float64 `json:"distance,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// Workout durations are in minutes.
type Workout struct {
	ID        string                        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID   string                        `gorm:"type:varchar(36);not null;index:idx_workout_owner_date,priority:1" json:"owner_id"`
	Type      string                        `gorm:"type:varchar(16);not null" json:"type"`
	Name      string                        `gorm:"not null" json:"name"`
	Date      time.Time                     `gorm:"not null;index:idx_workout_owner_date,priority:2" json:"date"`
	Duration  int                           `gorm:"not null" json:"duration"`
	Calories  int                           `json:"calories"`
	Exercises datatypes.JSONSlice[Exercise] `json:"exercises"`
	Notes     string                        `json:"notes,omitempty"`
	Feeling   string                        `gorm:"type:varchar(16)" json:"feeling,omitempty"`
	CreatedAt time.Time                     `json:"created_at"`
	UpdatedAt time.Time                     `json:"updated_at"`
}

func (w *Workout) BeforeCreate(*gorm.DB) error {
	w.ID = ensureID(w.ID)
	return nil
}
