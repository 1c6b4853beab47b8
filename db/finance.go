package db

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/JBE10/lifeops/models"
)

// TransactionFilter bounds dates as [From, To); zero times are open ends.
type TransactionFilter struct {
	Type     string
	Category string
	From     time.Time
	To       time.Time
	Offset   int
	Limit    int
}

// CategoryTotal is the sum of one type and category of transactions.
type CategoryTotal struct {
	Type     string
	Category string
	Total    float64
	Count    int64
}

func (o *OwnerScope) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	t.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(t).Error)
}

func (o *OwnerScope) FindTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	return findOwned[models.Transaction](ctx, o, id)
}

// ListTransactions returns one page, newest first, and the match count.
func (o *OwnerScope) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, int64, error) {
	q := o.transactionsBetween(ctx, f.From, f.To)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txs []models.Transaction
	err := q.Order("date DESC").Offset(f.Offset).Limit(f.Limit).Find(&txs).Error
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// SumTransactions groups the transactions dated in [from, to) by type and
// category.
func (o *OwnerScope) SumTransactions(ctx context.Context, from, to time.Time) ([]CategoryTotal, error) {
	var totals []CategoryTotal
	err := o.transactionsBetween(ctx, from, to).
		Select("type, category, SUM(amount) AS total, COUNT(*) AS count").
		Group("type, category").
		Scan(&totals).Error
	return totals, err
}

func (o *OwnerScope) transactionsBetween(ctx context.Context, from, to time.Time) *gorm.DB {
	q := o.query(ctx).Model(&models.Transaction{})
	if !from.IsZero() {
		q = q.Where("date >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("date < ?", to.UTC())
	}
	return q
}

func (o *OwnerScope) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return updateOwned(ctx, o, t.ID, t,
		"type", "amount", "currency", "category", "description", "date", "payment_method", "tags", "is_recurring")
}

func (o *OwnerScope) DeleteTransaction(ctx context.Context, id string) error {
	return deleteOwned[models.Transaction](ctx, o, id)
}

// FindBudget looks a budget up by its natural key. A nil month matches the
// yearly budget.
func (o *OwnerScope) FindBudget(ctx context.Context, category string, month *int, year int) (*models.Budget, error) {
	q := o.query(ctx).Where("category = ? AND year = ?", category, year)
	if month == nil {
		q = q.Where("month IS NULL")
	} else {
		q = q.Where("month = ?", *month)
	}

	var budget models.Budget
	if err := q.First(&budget).Error; err != nil {
		return nil, translate(err)
	}
	return &budget, nil
}

func (o *OwnerScope) CreateBudget(ctx context.Context, budget *models.Budget) error {
	budget.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(budget).Error)
}

func (o *OwnerScope) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	return updateOwned(ctx, o, budget.ID, budget, "amount", "currency", "period")
}

// ListBudgets returns the year's budgets by category. With a month, only
// that month's budgets and the yearly ones are returned.
func (o *OwnerScope) ListBudgets(ctx context.Context, year int, month *int) ([]models.Budget, error) {
	q := o.query(ctx).Where("year = ?", year)
	if month != nil {
		q = q.Where("(month = ? OR month IS NULL)", *month)
	}

	var budgets []models.Budget
	err := q.Order("category ASC").Find(&budgets).Error
	return budgets, err
}

func (o *OwnerScope) DeleteBudget(ctx context.Context, id string) error {
	return deleteOwned[models.Budget](ctx, o, id)
}

func (o *OwnerScope) FindAssetBySymbol(ctx context.Context, assetType, symbol string) (*models.Asset, error) {
	var asset models.Asset
	err := o.query(ctx).Where("type = ? AND symbol = ?", assetType, symbol).First(&asset).Error
	if err != nil {
		return nil, translate(err)
	}
	return &asset, nil
}

func (o *OwnerScope) FindAsset(ctx context.Context, id string) (*models.Asset, error) {
	return findOwned[models.Asset](ctx, o, id)
}

// CreateAsset returns ErrDuplicate when the owner already holds the symbol.
func (o *OwnerScope) CreateAsset(ctx context.Context, asset *models.Asset) error {
	asset.OwnerID = o.ownerID
	return translate(o.db.WithContext(ctx).Create(asset).Error)
}

func (o *OwnerScope) ListAssets(ctx context.Context) ([]models.Asset, error) {
	var assets []models.Asset
	err := o.query(ctx).Order("type ASC").Order("symbol ASC").Find(&assets).Error
	return assets, err
}

func (o *OwnerScope) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	return updateOwned(ctx, o, asset.ID, asset, "name", "quantity", "avg_buy_price", "exchange", "notes")
}

func (o *OwnerScope) DeleteAsset(ctx context.Context, id string) error {
	return deleteOwned[models.Asset](ctx, o, id)
}
