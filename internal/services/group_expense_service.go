package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/models"
	"moneylog/internal/monthrange"
)

// groupExpenseService handles expenses recorded against a group. Edits and
// deletes are restricted to the expense's author.
type groupExpenseService struct {
	db *gorm.DB
}

// NewGroupExpenseService creates a new GroupExpenseServicer.
func NewGroupExpenseService(db *gorm.DB) GroupExpenseServicer {
	return &groupExpenseService{db: db}
}

// AddExpense records a group expense and returns it with the author's
// username attached.
func (s *groupExpenseService) AddExpense(groupID, userID uint, itemName string, price float64, expenseType, note string) (*models.GroupExpense, error) {
	expense := &models.GroupExpense{
		GroupID:     groupID,
		UserID:      userID,
		ItemName:    itemName,
		ItemPrice:   price,
		ExpenseType: expenseType,
		Note:        note,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.attachUsername(expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// EditExpense updates an expense authored by the caller. An expense in
// another group or by another author looks the same as a missing one.
func (s *groupExpenseService) EditExpense(groupID, userID, expenseID uint, itemName string, price float64, expenseType, note string) (*models.GroupExpense, error) {
	var expense models.GroupExpense
	if err := s.db.Where("id = ? AND group_id = ? AND user_id = ?", expenseID, groupID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"item_name":    itemName,
		"item_price":   price,
		"expense_type": expenseType,
		"note":         note,
	}
	if err := s.db.Model(&expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.attachUsername(&expense); err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpense removes an expense authored by the caller.
func (s *groupExpenseService) DeleteExpense(groupID, userID, expenseID uint) error {
	res := s.db.Where("id = ? AND group_id = ? AND user_id = ?", expenseID, groupID, userID).Delete(&models.GroupExpense{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}
	return nil
}

// GetGroupExpenses lists a group's expenses for a month, newest first, with
// author usernames.
func (s *groupExpenseService) GetGroupExpenses(groupID uint, monthYear string) ([]models.GroupExpense, error) {
	q := s.db.Model(&models.GroupExpense{}).
		Select("group_expenses.*, users.username").
		Joins("JOIN users ON users.id = group_expenses.user_id").
		Where("group_expenses.group_id = ?", groupID)
	if monthYear != "" {
		r, err := monthrange.Parse(monthYear)
		if err != nil {
			return nil, apperrors.ErrInvalidMonthYear
		}
		q = q.Scopes(monthrange.Scope("group_expenses.expense_date", r))
	}

	var expenses []models.GroupExpense
	if err := q.Order("group_expenses.expense_date DESC").Scan(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// GetExpensesByMember lists one member's expenses within the group, newest
// first.
func (s *groupExpenseService) GetExpensesByMember(groupID, memberID uint) ([]models.GroupExpense, error) {
	var expenses []models.GroupExpense
	err := s.db.Model(&models.GroupExpense{}).
		Select("group_expenses.*, users.username").
		Joins("JOIN users ON users.id = group_expenses.user_id").
		Where("group_expenses.group_id = ? AND group_expenses.user_id = ?", groupID, memberID).
		Order("group_expenses.expense_date DESC").
		Scan(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

func (s *groupExpenseService) attachUsername(expense *models.GroupExpense) error {
	var username string
	if err := s.db.Model(&models.User{}).Where("id = ?", expense.UserID).Pluck("username", &username).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	expense.Username = username
	return nil
}
