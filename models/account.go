package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Program is the top level of the budget hierarchy. Natural key: code.
type Program struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Code      string    `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Activity belongs to a program. Natural key: code.
type Activity struct {
	ID        int       `gorm:"primary_key" json:"id"`
	ProgramId int       `gorm:"index;not null" json:"program_id"`
	Code      string    `gorm:"size:50;not null;uniqueIndex" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Account is a budget line (kode rekening) under an activity.
// The same account code appears under many activities, so the natural key is (activity_id, code).
type Account struct {
	ID         int       `gorm:"primary_key" json:"id"`
	ActivityId int       `gorm:"not null;uniqueIndex:uniq_account,priority:1" json:"activity_id"`
	Code       string    `gorm:"size:50;not null;uniqueIndex:uniq_account,priority:2" json:"code"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type AccountKey struct {
	ActivityId int
	Code       string
}

// AccountRef names an account by natural values only, as dependents in the legacy store do.
type AccountRef struct {
	ActivityCode string
	AccountCode  string
}

// Budget is the yearly ceiling of an account. Natural key: (account_id, fiscal_year).
type Budget struct {
	ID         int             `gorm:"primary_key" json:"id"`
	AccountId  int             `gorm:"not null;uniqueIndex:uniq_budget,priority:1" json:"account_id"`
	FiscalYear int             `gorm:"not null;uniqueIndex:uniq_budget,priority:2" json:"fiscal_year"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type BudgetKey struct {
	AccountId  int
	FiscalYear int
}

type BudgetRef struct {
	ActivityCode string
	AccountCode  string
	FiscalYear   int
}

// Realization is the amount spent against a budget in one month. Natural key: (budget_id, month).
type Realization struct {
	ID          int             `gorm:"primary_key" json:"id"`
	BudgetId    int             `gorm:"not null;uniqueIndex:uniq_realization,priority:1" json:"budget_id"`
	Month       int             `gorm:"not null;uniqueIndex:uniq_realization,priority:2" json:"month"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type RealizationKey struct {
	BudgetId int
	Month    int
}
