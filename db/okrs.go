package db

import (
	"context"

	"github.com/JBE10/lifeops/models"
)

type OKRFilter struct {
	Quarter string
	Year    int
	Status  string
}

func (o *OwnerScope) CreateOKR(ctx context.Context, okr *models.OKR) error {
	okr.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(okr).Error)
}

func (o *OwnerScope) FindOKR(ctx context.Context, id string) (*models.OKR, error) {
	return findOwned[models.OKR](ctx, o, id)
}

// ListOKRs returns the latest periods first.
func (o *OwnerScope) ListOKRs(ctx context.Context, f OKRFilter) ([]models.OKR, error) {
	q := o.query(ctx)
	if f.Quarter != "" {
		q = q.Where("quarter = ?", f.Quarter)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var okrs []models.OKR
	err := q.Order("year DESC").Order("quarter DESC").Order("created_at DESC").Find(&okrs).Error
	return okrs, err
}

func (o *OwnerScope) UpdateOKR(ctx context.Context, okr *models.OKR) error {
	return updateOwned(ctx, o, okr.ID, okr,
		"objective", "description", "quarter", "year", "status", "key_results")
}

func (o *OwnerScope) DeleteOKR(ctx context.Context, id string) error {
	return deleteOwned[models.OKR](ctx, o, id)
}
