package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"

	BudgetMonthly = "monthly"
	BudgetWeekly  = "weekly"
	BudgetYearly  = "yearly"

	AssetCrypto = "crypto"
	AssetStock  = "stock"

	DefaultCurrency      = "ARS"
	DefaultAssetCurrency = "USD"
)

type Transaction struct {
	ID            string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID       string                      `gorm:"type:varchar(36);not null;index:idx_transaction_owner_date,priority:1" json:"owner_id"`
	Type          string                      `gorm:"type:varchar(16);not null" json:"type"`
	Amount        float64                     `gorm:"not null" json:"amount"`
	Currency      string                      `gorm:"type:varchar(8);not null" json:"currency"`
	Category      string                      `gorm:"not null" json:"category"`
	Description   string                      `json:"description,omitempty"`
	Date          time.Time                   `gorm:"not null;index:idx_transaction_owner_date,priority:2" json:"date"`
	PaymentMethod string                      `json:"payment_method,omitempty"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	IsRecurring   bool                        `gorm:"not null" json:"is_recurring"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// Budget caps spending in a category. A nil Month makes it apply to every
// month of Year.
type Budget struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_budget_scope,priority:1" json:"owner_id"`
	Category  string    `gorm:"not null;uniqueIndex:idx_budget_scope,priority:2" json:"category"`
	Month     *int      `gorm:"uniqueIndex:idx_budget_scope,priority:3" json:"month"`
	Year      int       `gorm:"not null;uniqueIndex:idx_budget_scope,priority:4" json:"year"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"type:varchar(8);not null" json:"currency"`
	Period    string    `gorm:"type:varchar(16);not null" json:"period"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Asset is one holding. Symbol is stored upper-case and is unique per owner
// and asset type.
type Asset struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OwnerID     string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_asset_symbol,priority:1" json:"owner_id"`
	Type        string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_asset_symbol,priority:2" json:"type"`
	Symbol      string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_asset_symbol,priority:3" json:"symbol"`
	Name        string    `json:"name"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	AvgBuyPrice float64   `gorm:"not null" json:"avg_buy_price"`
	Currency    string    `gorm:"type:varchar(8);not null" json:"currency"`
	Exchange    string    `json:"exchange,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	t.ID = ensureID(t.ID)
	return nil
}

func (b *Budget) BeforeCreate(*gorm.DB) error {
	b.ID = ensureID(b.ID)
	return nil
}

func (a *Asset) BeforeCreate(*gorm.DB) error {
	a.ID = ensureID(a.ID)
	return nil
}
