package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/models"
	"moneylog/internal/monthrange"
)

// budgetService handles personal monthly budgets.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget inserts the budget for a month, refusing a second budget
// for the same (user, month).
func (s *budgetService) CreateBudget(userID uint, monthYear string, amount float64) (*models.PersonalBudget, error) {
	if !monthrange.Valid(monthYear) {
		return nil, apperrors.ErrInvalidMonthYear
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget amount must be positive")
	}

	exists, err := s.budgetExists(userID, monthYear)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrBudgetMonthExists
	}

	budget := &models.PersonalBudget{
		UserID:       userID,
		MonthYear:    monthYear,
		BudgetAmount: amount,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// UpdateBudget changes a budget's month and amount. Moving it onto a month
// that already has a budget is a conflict.
func (s *budgetService) UpdateBudget(userID, budgetID uint, monthYear string, amount float64) (*models.PersonalBudget, error) {
	if !monthrange.Valid(monthYear) {
		return nil, apperrors.ErrInvalidMonthYear
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget amount must be positive")
	}

	var budget models.PersonalBudget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if monthYear != budget.MonthYear {
		exists, err := s.budgetExists(userID, monthYear)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.WithMessage(apperrors.ErrBudgetMonthExists, "The selected month already has a budget")
		}
	}

	updates := map[string]interface{}{
		"month_year":    monthYear,
		"budget_amount": amount,
	}
	if err := s.db.Model(&budget).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetUserBudgets lists the user's budgets newest month first, optionally
// restricted to one year ("YYYY").
func (s *budgetService) GetUserBudgets(userID uint, year string) ([]models.PersonalBudget, error) {
	q := s.db.Where("user_id = ?", userID)
	if year != "" {
		q = q.Where("month_year LIKE ?", year+"-%")
	}

	var budgets []models.PersonalBudget
	if err := q.Order("month_year DESC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByMonth returns the budget for a month, or nil when none is set.
func (s *budgetService) GetBudgetByMonth(userID uint, monthYear string) (*models.PersonalBudget, error) {
	if !monthrange.Valid(monthYear) {
		return nil, apperrors.ErrInvalidMonthYear
	}

	var budget models.PersonalBudget
	err := s.db.Where("user_id = ? AND month_year = ?", userID, monthYear).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

func (s *budgetService) budgetExists(userID uint, monthYear string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.PersonalBudget{}).Where("user_id = ? AND month_year = ?", userID, monthYear).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}
