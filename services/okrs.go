package services

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/JBE10/lifeops/cache"
	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
)

type KeyResultInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	TargetValue  *float64 `json:"target_value" validate:"required"`
	CurrentValue float64  `json:"current_value"`
	StartValue   float64  `json:"start_value"`
	Unit         string   `json:"unit" validate:"max=16"`
}

type OKRInput struct {
	Objective   string           `json:"objective" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=1000"`
	Quarter     string           `json:"quarter" validate:"required,oneof=Q1 Q2 Q3 Q4"`
	Year        int              `json:"year" validate:"required,min=2000,max=2100"`
	Status      string           `json:"status" validate:"omitempty,oneof=draft active completed cancelled"`
	KeyResults  []KeyResultInput `json:"key_results" validate:"max=10,dive"`
}

// OKRPatch replaces the whole key result list when KeyResults is set.
// Key results keep their id, and so their progress history, when the
// patch repeats it.
type OKRPatch struct {
	Objective   *string           `json:"objective"`
	Description *string           `json:"description"`
	Quarter     *string           `json:"quarter"`
	Year        *int              `json:"year"`
	Status      *string           `json:"status"`
	KeyResults  *[]KeyResultPatch `json:"key_results"`
}

type KeyResultPatch struct {
	ID string `json:"id"`
	KeyResultInput
}

type OKRQuery struct {
	Quarter string `form:"quarter" validate:"omitempty,oneof=Q1 Q2 Q3 Q4"`
	Year    int    `form:"year" validate:"omitempty,min=2000,max=2100"`
	Status  string `form:"status" validate:"omitempty,oneof=draft active completed cancelled"`
}

type okrRecord struct {
	Objective   string `validate:"required,max=200"`
	Description string `validate:"max=1000"`
	Quarter     string `validate:"required,oneof=Q1 Q2 Q3 Q4"`
	Year        int    `validate:"required,min=2000,max=2100"`
	Status      string `validate:"required,oneof=draft active completed cancelled"`
}

// KeyResultProgress is how far current has moved from start towards
// target, as a percentage clamped to [0, 100]. A key result whose target
// equals its start counts as done.
func KeyResultProgress(kr models.KeyResult) float64 {
	span := kr.TargetValue - kr.StartValue
	if span == 0 {
		return 100
	}
	p := (kr.CurrentValue - kr.StartValue) / span * 100
	return math.Max(0, math.Min(100, p))
}

// OKRProgress averages key result progress and rounds to a whole percent.
// An OKR without key results has made no progress.
func OKRProgress(krs []models.KeyResult) int {
	if len(krs) == 0 {
		return 0
	}
	var sum float64
	for _, kr := range krs {
		sum += KeyResultProgress(kr)
	}
	return int(math.Round(sum / float64(len(krs))))
}

type OKRService struct {
	store  *db.Store
	cache  cache.Cache
	logger *zap.Logger
}

func NewOKRService(store *db.Store, c cache.Cache, logger *zap.Logger) *OKRService {
	return &OKRService{store: store, cache: c, logger: logger}
}

func (s *OKRService) Create(ctx context.Context, ownerID string, in OKRInput) (*models.OKR, error) {
	in.Objective = strings.TrimSpace(in.Objective)
	in.Description = strings.TrimSpace(in.Description)
	in.Quarter = strings.ToUpper(strings.TrimSpace(in.Quarter))
	if in.Status == "" {
		in.Status = models.OKRDraft
	}
	for i := range in.KeyResults {
		in.KeyResults[i].Title = strings.TrimSpace(in.KeyResults[i].Title)
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	krs := make([]models.KeyResult, 0, len(in.KeyResults))
	for _, kr := range in.KeyResults {
		krs = append(krs, keyResultFrom("", kr))
	}

	okr := &models.OKR{
		Objective:   in.Objective,
		Description: in.Description,
		Quarter:     in.Quarter,
		Year:        in.Year,
		Status:      in.Status,
		KeyResults:  krs,
	}
	if err := s.store.ForOwner(ownerID).CreateOKR(ctx, okr); err != nil {
		return nil, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	return withProgress(okr), nil
}

func (s *OKRService) Get(ctx context.Context, ownerID, id string) (*models.OKR, error) {
	okr, err := s.store.ForOwner(ownerID).FindOKR(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return withProgress(okr), nil
}

// List returns OKRs latest period first, each with its progress.
func (s *OKRService) List(ctx context.Context, ownerID string, q OKRQuery) ([]models.OKR, error) {
	q.Quarter = strings.ToUpper(q.Quarter)
	if err := validateStruct(q); err != nil {
		return nil, err
	}

	okrs, err := s.store.ForOwner(ownerID).ListOKRs(ctx, db.OKRFilter{
		Quarter: q.Quarter,
		Year:    q.Year,
		Status:  q.Status,
	})
	if err != nil {
		return nil, err
	}
	if okrs == nil {
		okrs = []models.OKR{}
	}
	for i := range okrs {
		withProgress(&okrs[i])
	}
	return okrs, nil
}

func (s *OKRService) Update(ctx context.Context, ownerID, id string, patch OKRPatch) (*models.OKR, error) {
	scope := s.store.ForOwner(ownerID)
	okr, err := scope.FindOKR(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	if patch.Objective != nil {
		okr.Objective = strings.TrimSpace(*patch.Objective)
	}
	if patch.Description != nil {
		okr.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Quarter != nil {
		okr.Quarter = strings.ToUpper(strings.TrimSpace(*patch.Quarter))
	}
	if patch.Year != nil {
		okr.Year = *patch.Year
	}
	if patch.Status != nil {
		okr.Status = *patch.Status
	}
	if patch.KeyResults != nil {
		krs := make([]models.KeyResult, 0, len(*patch.KeyResults))
		for _, kr := range *patch.KeyResults {
			kr.Title = strings.TrimSpace(kr.Title)
			if err := validateStruct(kr.KeyResultInput); err != nil {
				return nil, err
			}
			krs = append(krs, keyResultFrom(kr.ID, kr.KeyResultInput))
		}
		okr.KeyResults = krs
		okr.AssignKeyResultIDs()
	}

	if err := validateStruct(okrRecord{
		Objective:   okr.Objective,
		Description: okr.Description,
		Quarter:     okr.Quarter,
		Year:        okr.Year,
		Status:      okr.Status,
	}); err != nil {
		return nil, err
	}

	if err := scope.UpdateOKR(ctx, okr); err != nil {
		return nil, fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return withProgress(okr), nil
}

// UpdateKeyResult records a new current value for one key result.
func (s *OKRService) UpdateKeyResult(ctx context.Context, ownerID, okrID, krID string, current float64) (*models.OKR, error) {
	scope := s.store.ForOwner(ownerID)
	okr, err := scope.FindOKR(ctx, okrID)
	if err != nil {
		return nil, fromStore(err)
	}

	found := false
	for i := range okr.KeyResults {
		if okr.KeyResults[i].ID == krID {
			okr.KeyResults[i].CurrentValue = current
			found = true
			break
		}
	}
	if !found {
		return nil, notFound("key result")
	}

	if err := scope.UpdateOKR(ctx, okr); err != nil {
		return nil, fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return withProgress(okr), nil
}

func (s *OKRService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteOKR(ctx, id); err != nil {
		return fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

func (s *OKRService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.DeletePattern(ctx, cache.ResponsePattern(ownerID, "/api/okrs")); err != nil {
		s.logger.Warn("cache_delete_failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

func keyResultFrom(id string, in KeyResultInput) models.KeyResult {
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = models.DefaultKeyResultUnit
	}
	return models.KeyResult{
		ID:           id,
		Title:        strings.TrimSpace(in.Title),
		TargetValue:  *in.TargetValue,
		CurrentValue: in.CurrentValue,
		StartValue:   in.StartValue,
		Unit:         unit,
	}
}

func withProgress(okr *models.OKR) *models.OKR {
	if okr.KeyResults == nil {
		okr.KeyResults = []models.KeyResult{}
	}
	okr.Progress = OKRProgress(okr.KeyResults)
	return okr
}
