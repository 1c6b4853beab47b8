package services

import (
	"context"
	"errors"
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
	defaultTransactionLimit = 50
	maxTransactionLimit     = 200
	monthLayout             = "2006-01"
)

type TransactionInput struct {
	Type          string     `json:"type" validate:"required,oneof=income expense"`
	Amount        float64    `json:"amount" validate:"required"`
	Currency      string     `json:"currency" validate:"omitempty,len=3,alpha"`
	Category      string     `json:"category" validate:"required,max=50"`
	Description   string     `json:"description" validate:"max=500"`
	Date          *time.Time `json:"date"`
	PaymentMethod string     `json:"payment_method" validate:"max=50"`
	Tags          []string   `json:"tags" validate:"max=20,dive,required,max=32"`
	IsRecurring   bool       `json:"is_recurring"`
}

type TransactionPatch struct {
	Type          *string    `json:"type"`
	Amount        *float64   `json:"amount"`
	Currency      *string    `json:"currency"`
	Category      *string    `json:"category"`
	Description   *string    `json:"description"`
	Date          *time.Time `json:"date"`
	PaymentMethod *string    `json:"payment_method"`
	Tags          *[]string  `json:"tags"`
	IsRecurring   *bool      `json:"is_recurring"`
}

type TransactionQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Type     string `form:"type"`
	Category string `form:"category"`
	Month    string `form:"month"`
}

type TransactionPage struct {
	Transactions []models.Transaction `json:"transactions"`
	Pagination   Pagination           `json:"pagination"`
}

// BudgetInput upserts the budget for Category in Month of Year. Without a
// month, and always for yearly budgets, it covers the whole year.
type BudgetInput struct {
	Category string  `json:"category" validate:"required,max=50"`
	Amount   float64 `json:"amount" validate:"required"`
	Currency string  `json:"currency" validate:"omitempty,len=3,alpha"`
	Period   string  `json:"period" validate:"omitempty,oneof=monthly weekly yearly"`
	Month    *int    `json:"month" validate:"omitempty,min=1,max=12"`
	Year     int     `json:"year" validate:"omitempty,min=2000,max=2100"`
}

type BudgetQuery struct {
	Year  int `form:"year"`
	Month int `form:"month"`
}

type CategoryStat struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}

type CategoryBreakdown struct {
	Income   []CategoryStat `json:"income"`
	Expenses []CategoryStat `json:"expenses"`
}

type BudgetProgress struct {
	models.Budget
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage int     `json:"percentage"`
}

type FinanceStats struct {
	Month            string            `json:"month"`
	Income           float64           `json:"income"`
	Expenses         float64           `json:"expenses"`
	Balance          float64           `json:"balance"`
	TransactionCount int64             `json:"transaction_count"`
	ByCategory       CategoryBreakdown `json:"by_category"`
	Budgets          []BudgetProgress  `json:"budgets"`
}

type FinanceService struct {
	store  *db.Store
	cache  cache.Cache
	logger *zap.Logger
	clock  Clock
}

func NewFinanceService(store *db.Store, c cache.Cache, logger *zap.Logger, clock Clock) *FinanceService {
	return &FinanceService{store: store, cache: c, logger: logger, clock: clock}
}

func (s *FinanceService) CreateTransaction(ctx context.Context, ownerID string, in TransactionInput) (*models.Transaction, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	date := s.clock.Now()
	if in.Date != nil {
		date = *in.Date
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	t := &models.Transaction{
		Type:          in.Type,
		Amount:        math.Abs(in.Amount),
		Currency:      currencyOr(in.Currency, models.DefaultCurrency),
		Category:      in.Category,
		Description:   in.Description,
		Date:          date.UTC(),
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Tags:          tags,
		IsRecurring:   in.IsRecurring,
	}
	if err := s.store.ForOwner(ownerID).CreateTransaction(ctx, t); err != nil {
		return nil, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	return t, nil
}

func (s *FinanceService) GetTransaction(ctx context.Context, ownerID, id string) (*models.Transaction, error) {
	t, err := s.store.ForOwner(ownerID).FindTransaction(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return t, nil
}

// ListTransactions pages through transactions newest first. Month, when
// set, is YYYY-MM in the server's zone.
func (s *FinanceService) ListTransactions(ctx context.Context, ownerID string, q TransactionQuery) (*TransactionPage, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = defaultTransactionLimit
	}
	if q.Page < 1 {
		return nil, invalid("page must be at least 1")
	}
	if q.Limit < 1 || q.Limit > maxTransactionLimit {
		return nil, invalid("limit must be between 1 and %d", maxTransactionLimit)
	}
	if err := validate.Var(q.Type, "omitempty,oneof=income expense"); err != nil {
		return nil, invalid("type must be income or expense")
	}

	filter := db.TransactionFilter{
		Type:     q.Type,
		Category: q.Category,
		Offset:   (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	}
	if q.Month != "" {
		start, err := s.parseMonth(q.Month)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = start, start.AddDate(0, 1, 0)
	}

	txs, total, err := s.store.ForOwner(ownerID).ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	return &TransactionPage{
		Transactions: txs,
		Pagination: Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: pageCount(total, q.Limit),
		},
	}, nil
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, ownerID, id string, patch TransactionPatch) (*models.Transaction, error) {
	scope := s.store.ForOwner(ownerID)
	t, err := scope.FindTransaction(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}

	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Amount != nil {
		t.Amount = math.Abs(*patch.Amount)
	}
	if patch.Currency != nil {
		t.Currency = *patch.Currency
	}
	if patch.Category != nil {
		t.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Date != nil {
		t.Date = patch.Date.UTC()
	}
	if patch.PaymentMethod != nil {
		t.PaymentMethod = strings.TrimSpace(*patch.PaymentMethod)
	}
	if patch.Tags != nil {
		t.Tags = *patch.Tags
	}
	if patch.IsRecurring != nil {
		t.IsRecurring = *patch.IsRecurring
	}

	if err := validateStruct(transactionRecord{
		Type:          t.Type,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Category:      t.Category,
		Description:   t.Description,
		PaymentMethod: t.PaymentMethod,
		Tags:          t.Tags,
	}); err != nil {
		return nil, err
	}

	if err := scope.UpdateTransaction(ctx, t); err != nil {
		return nil, fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return t, nil
}

type transactionRecord struct {
	Type          string   `validate:"required,oneof=income expense"`
	Amount        float64  `validate:"required"`
	Currency      string   `validate:"required,len=3,alpha"`
	Category      string   `validate:"required,max=50"`
	Description   string   `validate:"max=500"`
	PaymentMethod string   `validate:"max=50"`
	Tags          []string `validate:"max=20,dive,required,max=32"`
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteTransaction(ctx, id); err != nil {
		return fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// UpsertBudget creates the budget or replaces the amount of the existing
// one for the same category and period.
func (s *FinanceService) UpsertBudget(ctx context.Context, ownerID string, in BudgetInput) (*models.Budget, error) {
	in.Category = strings.TrimSpace(in.Category)
	if in.Period == "" {
		in.Period = models.BudgetMonthly
	}
	if in.Period == models.BudgetYearly {
		in.Month = nil
	}
	if in.Year == 0 {
		in.Year = s.clock.Now().In(s.clock.Location).Year()
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var budget *models.Budget
	err := s.store.ForOwner(ownerID).Transaction(ctx, func(tx *db.OwnerScope) error {
		existing, err := tx.FindBudget(ctx, in.Category, in.Month, in.Year)
		switch {
		case err == nil:
			existing.Amount = math.Abs(in.Amount)
			existing.Currency = currencyOr(in.Currency, existing.Currency)
			existing.Period = in.Period
			budget = existing
			return tx.UpdateBudget(ctx, existing)
		case errors.Is(err, db.ErrNotFound):
			budget = &models.Budget{
				Category: in.Category,
				Month:    in.Month,
				Year:     in.Year,
				Amount:   math.Abs(in.Amount),
				Currency: currencyOr(in.Currency, models.DefaultCurrency),
				Period:   in.Period,
			}
			return tx.CreateBudget(ctx, budget)
		default:
			return err
		}
	})
	if err != nil {
		return nil, fromStore(err)
	}

	s.invalidate(ctx, ownerID)
	return budget, nil
}

// ListBudgets defaults to the current year. A month narrows the list to
// that month's budgets and the yearly ones.
func (s *FinanceService) ListBudgets(ctx context.Context, ownerID string, q BudgetQuery) ([]models.Budget, error) {
	if q.Year == 0 {
		q.Year = s.clock.Now().In(s.clock.Location).Year()
	}
	var month *int
	if q.Month != 0 {
		if q.Month < 1 || q.Month > 12 {
			return nil, invalid("month must be between 1 and 12")
		}
		month = &q.Month
	}

	budgets, err := s.store.ForOwner(ownerID).ListBudgets(ctx, q.Year, month)
	if err != nil {
		return nil, err
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, ownerID, id string) error {
	if err := s.store.ForOwner(ownerID).DeleteBudget(ctx, id); err != nil {
		return fromStore(err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// MonthlyStats totals the month's transactions and measures each budget
// that applies to the month against its category's expenses. An empty
// month means the current one.
func (s *FinanceService) MonthlyStats(ctx context.Context, ownerID, month string) (*FinanceStats, error) {
	var start time.Time
	if month == "" {
		now := s.clock.Now().In(s.clock.Location)
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.clock.Location)
	} else {
		var err error
		if start, err = s.parseMonth(month); err != nil {
			return nil, err
		}
	}

	scope := s.store.ForOwner(ownerID)
	totals, err := scope.SumTransactions(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	m := int(start.Month())
	budgets, err := scope.ListBudgets(ctx, start.Year(), &m)
	if err != nil {
		return nil, err
	}

	stats := SummarizeMonth(totals, budgets)
	stats.Month = start.Format(monthLayout)
	return &stats, nil
}

// SummarizeMonth turns per-category sums into month totals, categories
// ordered by total descending, and budget progress.
func SummarizeMonth(totals []db.CategoryTotal, budgets []models.Budget) FinanceStats {
	stats := FinanceStats{
		ByCategory: CategoryBreakdown{Income: []CategoryStat{}, Expenses: []CategoryStat{}},
		Budgets:    make([]BudgetProgress, 0, len(budgets)),
	}

	spent := make(map[string]float64)
	for _, t := range totals {
		cs := CategoryStat{Category: t.Category, Total: t.Total, Count: t.Count}
		stats.TransactionCount += t.Count
		switch t.Type {
		case models.TransactionIncome:
			stats.Income += t.Total
			stats.ByCategory.Income = append(stats.ByCategory.Income, cs)
		case models.TransactionExpense:
			stats.Expenses += t.Total
			stats.ByCategory.Expenses = append(stats.ByCategory.Expenses, cs)
			spent[t.Category] += t.Total
		}
	}
	stats.Balance = stats.Income - stats.Expenses
	sortByTotal(stats.ByCategory.Income)
	sortByTotal(stats.ByCategory.Expenses)

	for _, b := range budgets {
		used := spent[b.Category]
		p := BudgetProgress{Budget: b, Spent: used, Remaining: b.Amount - used}
		if b.Amount > 0 {
			p.Percentage = int(math.Round(used / b.Amount * 100))
		}
		stats.Budgets = append(stats.Budgets, p)
	}
	return stats
}

func sortByTotal(stats []CategoryStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].Category < stats[j].Category
	})
}

// parseMonth returns the first instant of a YYYY-MM month in the clock's zone.
func (s *FinanceService) parseMonth(month string) (time.Time, error) {
	t, err := time.ParseInLocation(monthLayout, month, s.clock.Location)
	if err != nil {
		return time.Time{}, invalid("month must be YYYY-MM")
	}
	return t, nil
}

func (s *FinanceService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.DeletePattern(ctx, cache.ResponsePattern(ownerID, "/api/finance")); err != nil {
		s.logger.Warn("cache_delete_failed", zap.String("owner_id", ownerID), zap.Error(err))
	}
}

func currencyOr(currency, fallback string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return fallback
	}
	return currency
}
