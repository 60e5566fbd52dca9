package models

import "time"

// GroupExpense is an expense recorded by a member against a group.
type GroupExpense struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	ItemName    string    `gorm:"size:100;not null" json:"item_name"`
	ItemPrice   float64   `gorm:"not null" json:"item_price"`
	ExpenseType string    `gorm:"size:50;not null" json:"expense_type"`
	Note        string    `gorm:"size:255" json:"note"`
	ExpenseDate time.Time `gorm:"autoCreateTime" json:"expense_date"`

	// Populated on list queries that join users. Readable by Scan, never a
	// column.
	Username string `gorm:"->;-:migration" json:"username,omitempty"`
}

// GroupBudget is the single named budget of a group.
type GroupBudget struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	GroupID      uint      `gorm:"not null;uniqueIndex" json:"group_id"`
	UserID       uint      `gorm:"not null" json:"user_id"`
	BudgetName   string    `gorm:"size:100;not null" json:"budget_name"`
	BudgetAmount float64   `gorm:"not null" json:"budget_amount"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
