package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProjectActive   = "active"
	ProjectArchived = "archived"

	TaskBacklog    = "backlog"
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskDone       = "done"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	SprintPlanning  = "planning"
	SprintActive    = "active"
	SprintCompleted = "completed"

	OKRDraft     = "draft"
	OKRActive    = "active"
	OKRCompleted = "completed"
	OKRCancelled = "cancelled"

	DefaultKeyResultUnit = "%"
)

type Project struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID     string    `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `gorm:"type:varchar(16);not null" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sprint dates are calendar days (YYYY-MM-DD), both inclusive.
type Sprint struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID   string    `gorm:"type:varchar(36);not null;index:idx_sprint_owner_status,priority:1" json:"owner_id"`
	Name      string    `gorm:"not null" json:"name"`
	Goal      string    `json:"goal,omitempty"`
	ProjectID *string   `gorm:"type:varchar(36)" json:"project_id"`
	StartDate string    `gorm:"type:varchar(10);not null" json:"start_date"`
	EndDate   string    `gorm:"type:varchar(10);not null" json:"end_date"`
	Status    string    `gorm:"type:varchar(16);not null;index:idx_sprint_owner_status,priority:2" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Task struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID     string    `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	ProjectID   *string   `gorm:"type:varchar(36);index" json:"project_id"`
	SprintID    *string   `gorm:"type:varchar(36);index" json:"sprint_id"`
	Status      string    `gorm:"type:varchar(16);not null" json:"status"`
	Priority    string    `gorm:"type:varchar(16);not null" json:"priority"`
	DueDate     *string   `gorm:"type:varchar(10)" json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// KeyResult is stored inline on its OKR.
type KeyResult struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	TargetValue  float64 `json:"target_value"`
	CurrentValue float64 `json:"current_value"`
	StartValue   float64 `json:"start_value"`
	Unit         string  `json:"unit"`
}

type OKR struct {
	ID          string                         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID     string                         `gorm:"type:varchar(36);not null;index:idx_okr_owner_period,priority:1" json:"owner_id"`
	Objective   string                         `gorm:"not null" json:"objective"`
	Description string                         `json:"description,omitempty"`
	Quarter     string                         `gorm:"type:varchar(2);not null;index:idx_okr_owner_period,priority:3" json:"quarter"`
	Year        int                            `gorm:"not null;index:idx_okr_owner_period,priority:2" json:"year"`
	Status      string                         `gorm:"type:varchar(16);not null" json:"status"`
	KeyResults  datatypes.JSONSlice[KeyResult] `json:"key_results"`
	Progress    int                            `gorm:"-" json:"progress"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
}

// AssignKeyResultIDs gives every key result without an id a fresh one.
func (o *OKR) AssignKeyResultIDs() {
	for i := range o.KeyResults {
		o.KeyResults[i].ID = ensureID(o.KeyResults[i].ID)
	}
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	p.ID = ensureID(p.ID)
	return nil
}

func (s *Sprint) BeforeCreate(*gorm.DB) error {
	s.ID = ensureID(s.ID)
	return nil
}

func (t *Task) BeforeCreate(*gorm.DB) error {
	t.ID = ensureID(t.ID)
	return nil
}

func (o *OKR) BeforeCreate(*gorm.DB) error {
	o.ID = ensureID(o.ID)
	o.AssignKeyResultIDs()
	return nil
}
