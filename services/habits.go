package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
)

// RecentWindowDays is how much history GET /habits/:id returns.
const RecentWindowDays = 30

type HabitInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Icon        string `json:"icon" validate:"max=16"`
	Color       string `json:"color" validate:"omitempty,hexcolor"`
	Frequency   string `json:"frequency" validate:"omitempty,oneof=daily weekly custom"`
	TargetDays  []int  `json:"target_days" validate:"max=7,dive,min=0,max=6"`
}

// habitRecord is the shape a stored habit must keep after a patch. Unlike
// HabitInput nothing here is defaulted, so clearing a field is rejected.
type habitRecord struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	Icon        string `validate:"required,max=16"`
	Color       string `validate:"required,hexcolor"`
	Frequency   string `validate:"required,oneof=daily weekly custom"`
	TargetDays  []int  `validate:"max=7,dive,min=0,max=6"`
}

// HabitPatch carries a partial update; nil fields are left unchanged.
type HabitPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Frequency   *string `json:"frequency"`
	TargetDays  *[]int  `json:"target_days"`
	IsActive    *bool   `json:"is_active"`
}

type HabitWithStatus struct {
	models.Habit
	CompletedToday bool `json:"completed_today"`
}

type HabitDetail struct {
	Habit models.Habit      `json:"habit"`
	Logs  []models.HabitLog `json:"logs"`
}

type HabitService struct {
	store  *db.Store
	ledger *HabitLedger
	cache  cache.Cache
	logger *zap.Logger
}

func NewHabitService(store *db.Store, ledger *HabitLedger, c cache.Cache, logger *zap.Logger) *HabitService {
	return &HabitService{store: store, ledger: ledger, cache: c, logger: logger}
}

func (s *HabitService) Create(ctx context.Context, ownerID string, in HabitInput) (*models.Habit, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Icon == "" {
		in.Icon = models.DefaultHabitIcon
	}
	if in.Color == "" {
		in.Color = models.DefaultHabitColor
	}
	if in.Frequency == "" {
		in.Frequency = models.FrequencyDaily
	}
	if in.TargetDays == nil {
		in.TargetDays = []int{}
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	habit := &models.Habit{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
		Frequency:   in.Frequency,
		TargetDays:  in.TargetDays,
		IsActive:    true,
	}
	if err := s.store.ForOwner(ownerID).CreateHabit(ctx, habit); err != nil {
		return nil, fromStore(err)
	}

	invalidateHabitCache(ctx, s.cache, s.logger, ownerID)
	s.logger.Info("habit_created", zap.String("habit_id", habit.ID), zap.String("owner_id", ownerID))
	return habit, nil
}

// Get returns the habit with its last RecentWindowDays days of logs.
func (s *HabitService) Get(ctx context.Context, ownerID, id string) (*HabitDetail, error) {
	habit, err := s.store.ForOwner(ownerID).FindHabit(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	logs, err := s.ledger.ListRecent(ctx, id, ownerID, RecentWindowDays)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.HabitLog{}
	}
	return &HabitDetail{Habit: *habit, Logs: logs}, nil
}

// List returns the owner's active habits, oldest first, flagged with
// whether each was completed today.
func (s *HabitService) List(ctx context.Context, ownerID string) ([]HabitWithStatus, error) {
	scope := s.store.ForOwner(ownerID)
	habits, err := scope.ListHabits(ctx, true)
	if err != nil {
		return nil, err
	}

	status, err := s.ledger.todayStatus(ctx, scope, habits)
	if err != nil {
		return nil, err
	}

	out := make([]HabitWithStatus, 0, len(habits))
	for _, h := range habits {
		out = append(out, HabitWithStatus{Habit: h, CompletedToday: status[h.ID]})
	}
	return out, nil
}

func (s *HabitService) Update(ctx context.Context, ownerID, id string, patch HabitPatch) (*models.Habit, error) {
	scope := s.store.ForOwner(ownerID)
	habit, err := scope.FindHabit(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	patch.apply(habit)
	if err := validateStruct(habitRecord{
		Name:        habit.Name,
		Description: habit.Description,
		Icon:        habit.Icon,
		Color:       habit.Color,
		Frequency:   habit.Frequency,
		TargetDays:  habit.TargetDays,
	}); err != nil {
		return nil, err
	}

	if err := scope.UpdateHabit(ctx, habit); err != nil {
		return nil, fromStore(err)
	}

	invalidateHabitCache(ctx, s.cache, s.logger, ownerID)
	return scope.FindHabit(ctx, id)
}

func (p HabitPatch) apply(h *models.Habit) {
	if p.Name != nil {
		h.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		h.Description = strings.TrimSpace(*p.Description)
	}
	if p.Icon != nil {
		h.Icon = *p.Icon
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.TargetDays != nil {
		h.TargetDays = *p.TargetDays
	}
	if p.IsActive != nil {
		h.IsActive = *p.IsActive
	}
}

// Delete removes the habit together with all of its logs.
func (s *HabitService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteHabit(ctx, id); err != nil {
		return fromStore(err)
	}

	invalidateHabitCache(ctx, s.cache, s.logger, ownerID)
	s.logger.Info("habit_deleted", zap.String("habit_id", id), zap.String("owner_id", ownerID))
	return nil
}
