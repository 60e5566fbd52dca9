package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/models"
)

const defaultGroupBudgetName = "Group Budget"

// groupBudgetService handles the single budget a group may carry.
type groupBudgetService struct {
	db *gorm.DB
}

// NewGroupBudgetService creates a new GroupBudgetServicer.
func NewGroupBudgetService(db *gorm.DB) GroupBudgetServicer {
	return &groupBudgetService{db: db}
}

// AddBudget sets the group's budget. A group holds at most one; use
// UpdateBudget afterwards.
func (s *groupBudgetService) AddBudget(groupID, userID uint, name string, amount float64) (*models.GroupBudget, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget amount must be positive")
	}
	if strings.TrimSpace(name) == "" {
		name = defaultGroupBudgetName
	}

	var count int64
	if err := s.db.Model(&models.GroupBudget{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrGroupBudgetExists
	}

	budget := &models.GroupBudget{
		GroupID:      groupID,
		UserID:       userID,
		BudgetName:   name,
		BudgetAmount: amount,
	}
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// UpdateBudget replaces the group's budget name and amount.
func (s *groupBudgetService) UpdateBudget(groupID uint, name string, amount float64) (*models.GroupBudget, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Budget amount must be positive")
	}
	if strings.TrimSpace(name) == "" {
		name = defaultGroupBudgetName
	}

	var budget models.GroupBudget
	if err := s.db.Where("group_id = ?", groupID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{
		"budget_name":   name,
		"budget_amount": amount,
	}
	if err := s.db.Model(&budget).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// GetBudget returns the group's budget, or nil when none is set.
func (s *groupBudgetService) GetBudget(groupID uint) (*models.GroupBudget, error) {
	var budget models.GroupBudget
	err := s.db.Where("group_id = ?", groupID).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}
