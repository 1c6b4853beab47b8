package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JBE10/lifeops/db"
	"github.com/JBE10/lifeops/models"
)

func TestSummarizeMonth(t *testing.T) {
	march := 3
	totals := []db.CategoryTotal{
		{Type: models.TransactionIncome, Category: "salary", Total: 2000, Count: 1},
		{Type: models.TransactionIncome, Category: "freelance", Total: 500, Count: 2},
		{Type: models.TransactionExpense, Category: "food", Total: 150, Count: 6},
		{Type: models.TransactionExpense, Category: "rent", Total: 900, Count: 1},
	}
	budgets := []models.Budget{
		{Category: "food", Month: &march, Year: 2026, Amount: 200},
		{Category: "rent", Year: 2026, Amount: 800},
		{Category: "travel", Month: &march, Year: 2026, Amount: 300},
	}

	stats := SummarizeMonth(totals, budgets)
	if stats.Income != 2500 || stats.Expenses != 1050 || stats.Balance != 1450 || stats.TransactionCount != 10 {
		t.Errorf("totals = %+v", stats)
	}
	if got := stats.ByCategory.Expenses; len(got) != 2 || got[0].Category != "rent" || got[1].Category != "food" {
		t.Errorf("expenses not ordered by total: %+v", got)
	}
	if got := stats.ByCategory.Income; len(got) != 2 || got[0].Category != "salary" {
		t.Errorf("income = %+v", got)
	}

	want := map[string]struct {
		spent, remaining float64
		pct              int
	}{
		"food":   {150, 50, 75},
		"rent":   {900, -100, 113},
		"travel": {0, 300, 0},
	}
	if len(stats.Budgets) != len(want) {
		t.Fatalf("budgets = %+v", stats.Budgets)
	}
	for _, b := range stats.Budgets {
		w := want[b.Category]
		if b.Spent != w.spent || b.Remaining != w.remaining || b.Percentage != w.pct {
			t.Errorf("%s: spent=%v remaining=%v pct=%d, want %+v", b.Category, b.Spent, b.Remaining, b.Percentage, w)
		}
	}
}

func TestSummarizeMonthEmpty(t *testing.T) {
	stats := SummarizeMonth(nil, nil)
	if stats.ByCategory.Income == nil || stats.ByCategory.Expenses == nil || stats.Budgets == nil {
		t.Errorf("empty stats should carry empty lists: %+v", stats)
	}
	if stats.Balance != 0 || stats.TransactionCount != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}

func TestMonthlyStatsScopesToMonth(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	at := func(s string) *time.Time {
		d, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatal(err)
		}
		return &d
	}
	inputs := []TransactionInput{
		{Type: models.TransactionIncome, Amount: 1000, Category: "salary", Date: at("2026-03-01T09:00:00Z")},
		{Type: models.TransactionExpense, Amount: -40, Category: "food", Date: at("2026-03-31T23:59:00Z")},
		{Type: models.TransactionExpense, Amount: 60, Category: "food"},
		{Type: models.TransactionExpense, Amount: 500, Category: "food", Date: at("2026-02-28T10:00:00Z")},
	}
	for _, in := range inputs {
		if _, err := env.finance.CreateTransaction(ctx, "owner-1", in); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}
	if _, err := env.finance.CreateTransaction(ctx, "owner-2", TransactionInput{Type: models.TransactionExpense, Amount: 999, Category: "food"}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	march := 3
	if _, err := env.finance.UpsertBudget(ctx, "owner-1", BudgetInput{Category: "food", Amount: 50, Month: &march}); err != nil {
		t.Fatalf("UpsertBudget: %v", err)
	}
	budget, err := env.finance.UpsertBudget(ctx, "owner-1", BudgetInput{Category: "food", Amount: 200, Month: &march})
	if err != nil {
		t.Fatalf("UpsertBudget: %v", err)
	}
	if budget.Amount != 200 || budget.Year != 2026 || budget.Currency != models.DefaultCurrency {
		t.Errorf("budget = %+v", budget)
	}

	stats, err := env.finance.MonthlyStats(ctx, "owner-1", "")
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if stats.Month != "2026-03" || stats.Income != 1000 || stats.Expenses != 100 || stats.TransactionCount != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.Budgets) != 1 || stats.Budgets[0].Spent != 100 || stats.Budgets[0].Percentage != 50 {
		t.Errorf("budgets = %+v", stats.Budgets)
	}

	feb, err := env.finance.MonthlyStats(ctx, "owner-1", "2026-02")
	if err != nil {
		t.Fatalf("MonthlyStats: %v", err)
	}
	if feb.Expenses != 500 || len(feb.Budgets) != 0 {
		t.Errorf("february = %+v", feb)
	}

	if _, err := env.finance.MonthlyStats(ctx, "owner-1", "March"); !errors.Is(err, ErrValidation) {
		t.Errorf("bad month err = %v, want ErrValidation", err)
	}
}

func TestListTransactionsPagesAndFilters(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		env.now = env.now.Add(time.Hour)
		typ := models.TransactionExpense
		if i == 0 {
			typ = models.TransactionIncome
		}
		if _, err := env.finance.CreateTransaction(ctx, "owner-1", TransactionInput{Type: typ, Amount: float64(i + 1), Category: "misc"}); err != nil {
			t.Fatalf("CreateTransaction: %v", err)
		}
	}

	page, err := env.finance.ListTransactions(ctx, "owner-1", TransactionQuery{Page: 2, Limit: 2, Type: models.TransactionExpense})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if page.Pagination.Total != 4 || page.Pagination.Pages != 2 || len(page.Transactions) != 2 {
		t.Fatalf("page = %+v", page)
	}
	if page.Transactions[0].Amount != 3 || page.Transactions[1].Amount != 2 {
		t.Errorf("second page = %v, %v", page.Transactions[0].Amount, page.Transactions[1].Amount)
	}

	other, err := env.finance.ListTransactions(ctx, "owner-1", TransactionQuery{Month: "2026-04"})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if other.Pagination.Total != 0 || other.Transactions == nil {
		t.Errorf("april = %+v", other)
	}

	for _, q := range []TransactionQuery{{Limit: 500}, {Type: "transfer"}, {Month: "2026-13"}} {
		if _, err := env.finance.ListTransactions(ctx, "owner-1", q); !errors.Is(err, ErrValidation) {
			t.Errorf("ListTransactions(%+v) err = %v, want ErrValidation", q, err)
		}
	}
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	env := setupEnv(t, time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC))

	tx, err := env.finance.CreateTransaction(ctx, "owner-1", TransactionInput{Type: models.TransactionExpense, Amount: 10, Category: "food", Currency: "usd"})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.Currency != "USD" {
		t.Errorf("Currency = %s, want USD", tx.Currency)
	}

	amount := -25.0
	updated, err := env.finance.UpdateTransaction(ctx, "owner-1", tx.ID, TransactionPatch{Amount: &amount})
	if err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if updated.Amount != 25 || updated.Category != "food" {
		t.Errorf("updated = %+v", updated)
	}

	bad := "transfer"
	if _, err := env.finance.UpdateTransaction(ctx, "owner-1", tx.ID, TransactionPatch{Type: &bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("bad type err = %v", err)
	}
	if err := env.finance.DeleteTransaction(ctx, "owner-2", tx.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign delete err = %v", err)
	}
}
