package models

import "time"

// PersonalBudget is a per-user monthly budget. At most one row exists per
// (user, month), enforced both by an application check and a unique index.
type PersonalBudget struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_budget_user_month" json:"user_id"`
	MonthYear    string    `gorm:"size:7;not null;uniqueIndex:idx_budget_user_month" json:"month_year"`
	BudgetAmount float64   `gorm:"not null" json:"budget_amount"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
