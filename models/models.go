package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyCustom = "custom"

	DefaultHabitIcon  = "✅"
	DefaultHabitColor = "#3B82F6"
)

var Moods = []string{"great", "good", "okay", "bad", "terrible"}

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Habit struct {
	ID            string                   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID       string                   `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Name          string                   `gorm:"not null" json:"name"`
	Description   string                   `json:"description,omitempty"`
	Icon          string                   `json:"icon"`
	Color         string                   `json:"color"`
	Frequency     string                   `gorm:"type:varchar(16);not null" json:"frequency"`
	TargetDays    datatypes.JSONSlice[int] `json:"target_days"`
	CurrentStreak int                      `gorm:"not null" json:"current_streak"`
	LongestStreak int                      `gorm:"not null" json:"longest_streak"`
	IsActive      bool                     `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// HabitLog marks a habit as done on Date (YYYY-MM-DD). A missing row means
// not done; at most one row exists per habit and day.
type HabitLog struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	HabitID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_habit_log_day,priority:1" json:"habit_id"`
	OwnerID   string    `gorm:"type:varchar(36);not null;index:idx_habit_log_owner_day,priority:1" json:"owner_id"`
	Date      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_habit_log_day,priority:2;index:idx_habit_log_owner_day,priority:2" json:"date"`
	Completed bool      `gorm:"not null" json:"completed"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type JournalEntry struct {
	ID        string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID   string                      `gorm:"type:varchar(36);not null;index:idx_journal_owner_date,priority:1" json:"owner_id"`
	Date      time.Time                   `gorm:"not null;index:idx_journal_owner_date,priority:2" json:"date"`
	Title     string                      `json:"title,omitempty"`
	Content   string                      `gorm:"not null" json:"content"`
	Mood      string                      `gorm:"type:varchar(16)" json:"mood,omitempty"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	IsPrivate bool                        `gorm:"not null" json:"is_private"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	u.ID = ensureID(u.ID)
	return nil
}

func (h *Habit) BeforeCreate(*gorm.DB) error {
	h.ID = ensureID(h.ID)
	return nil
}

func (l *HabitLog) BeforeCreate(*gorm.DB) error {
	l.ID = ensureID(l.ID)
	return nil
}

func (e *JournalEntry) BeforeCreate(*gorm.DB) error {
	e.ID = ensureID(e.ID)
	return nil
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// All lists every model for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Habit{},
		&HabitLog{},
		&JournalEntry{},
		&Project{},
		&Sprint{},
		&Task{},
		&OKR{},
		&Transaction{},
		&Budget{},
		&Asset{},
		&Workout{},
	}
}
