package models

import "time"

// Expense is a personal expense row, optionally tied to a monthly budget.
type Expense struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	PersonalBudgetID *uint     `json:"personal_budget_id,omitempty"`
	ExpenseType      string    `gorm:"size:50;not null" json:"expense_type"`
	ItemName         string    `gorm:"size:100;not null" json:"item_name"`
	ItemPrice        float64   `gorm:"not null" json:"item_price"`
	ExpenseDate      time.Time `gorm:"autoCreateTime" json:"expense_date"`
}

// ExpenseLearning is a denormalized (user, item name) → category record fed
// by expense edits and used for category suggestions. Updates to it are
// best-effort and must never fail the primary operation.
type ExpenseLearning struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_learning_user_item" json:"user_id"`
	ItemName         string    `gorm:"size:100;not null;uniqueIndex:idx_learning_user_item" json:"item_name"`
	ExpenseType      string    `gorm:"size:50;not null" json:"expense_type"`
	ItemPrice        *float64  `json:"item_price,omitempty"`
	PersonalBudgetID *uint     `json:"personal_budget_id,omitempty"`
	CorrectionCount  int       `gorm:"default:1" json:"correction_count"`
	LastUpdated      time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}
