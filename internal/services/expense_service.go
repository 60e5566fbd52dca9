package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/logger"
	"moneylog/internal/models"
	"moneylog/internal/monthrange"
)

// expenseService handles personal expenses and the per-user correction
// history that feeds category suggestions.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// AddExpense records an expense, optionally attached to one of the user's
// budgets. A budget id belonging to someone else is rejected the same way
// as one that does not exist.
func (s *expenseService) AddExpense(userID uint, budgetID *uint, expenseType, itemName string, price float64) (*models.Expense, error) {
	if budgetID != nil {
		var count int64
		if err := s.db.Model(&models.PersonalBudget{}).Where("id = ? AND user_id = ?", *budgetID, userID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrInvalidBudget
		}
	}

	expense := &models.Expense{
		UserID:           userID,
		PersonalBudgetID: budgetID,
		ExpenseType:      expenseType,
		ItemName:         itemName,
		ItemPrice:        price,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// EditExpense updates an expense the user owns and records the correction
// in the learning table. The learning write is best effort: its failure is
// logged and never surfaced.
func (s *expenseService) EditExpense(userID, expenseID uint, expenseType, itemName string, price float64) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"expense_type": expenseType,
		"item_name":    itemName,
		"item_price":   price,
	}
	if err := s.db.Model(&expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.recordCorrection(userID, itemName, expenseType, price, expense.PersonalBudgetID)

	return &expense, nil
}

// DeleteExpense removes an expense. An expense owned by another user is
// indistinguishable from one that does not exist.
func (s *expenseService) DeleteExpense(userID, expenseID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// GetUserExpenses lists the user's expenses, newest first, optionally
// restricted to one month.
func (s *expenseService) GetUserExpenses(userID uint, monthYear string) ([]models.Expense, error) {
	q := s.db.Where("user_id = ?", userID)
	if monthYear != "" {
		r, err := monthrange.Parse(monthYear)
		if err != nil {
			return nil, apperrors.ErrInvalidMonthYear
		}
		q = q.Scopes(monthrange.Scope("expense_date", r))
	}

	var expenses []models.Expense
	if err := q.Order("expense_date DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetUserPatterns returns the user's learned item-to-category map, keyed
// by item name.
func (s *expenseService) GetUserPatterns(userID uint) (map[string]string, error) {
	var rows []models.ExpenseLearning
	if err := s.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	patterns := make(map[string]string, len(rows))
	for _, row := range rows {
		patterns[row.ItemName] = row.ExpenseType
	}
	return patterns, nil
}

func (s *expenseService) recordCorrection(userID uint, itemName, expenseType string, price float64, budgetID *uint) {
	row := models.ExpenseLearning{
		UserID:           userID,
		ItemName:         itemName,
		ExpenseType:      expenseType,
		ItemPrice:        &price,
		PersonalBudgetID: budgetID,
		CorrectionCount:  1,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "item_name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"expense_type":       expenseType,
			"item_price":         price,
			"personal_budget_id": budgetID,
			"correction_count":   gorm.Expr("correction_count + 1"),
		}),
	}).Create(&row).Error
	if err != nil {
		logger.Get().Warnw("expense learning update failed",
			"user_id", userID,
			"item", itemName,
			"error", err,
		)
	}
}
