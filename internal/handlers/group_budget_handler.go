package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/services"
)

// GroupBudgetHandler handles the single budget a group may carry.
type GroupBudgetHandler struct {
	budgetService services.GroupBudgetServicer
}

// NewGroupBudgetHandler creates a new GroupBudgetHandler.
func NewGroupBudgetHandler(budgetService services.GroupBudgetServicer) *GroupBudgetHandler {
	return &GroupBudgetHandler{budgetService: budgetService}
}

// GroupBudgetRequest represents the request payload for setting or updating
// the group budget.
type GroupBudgetRequest struct {
	BudgetName   string  `json:"budget_name" binding:"max=100"`
	BudgetAmount float64 `json:"budget_amount" binding:"required,gt=0"`
}

// AddBudget sets the group's budget.
// @Summary     Set the group budget
// @Tags        group-budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       request body GroupBudgetRequest true "Budget details"
// @Success     201 {object} SuccessResponse
// @Failure     409 {object} ErrorResponse "Group already has a budget"
// @Router      /groups/{groupId}/budget [post]
func (h *GroupBudgetHandler) AddBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GroupBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.AddBudget(groupID, userID, req.BudgetName, req.BudgetAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Budget added successfully", budget)
}

// UpdateBudget replaces the group's budget name and amount.
// @Summary     Update the group budget
// @Tags        group-budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       request body GroupBudgetRequest true "Budget details"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "No budget to update"
// @Router      /groups/{groupId}/budget [put]
func (h *GroupBudgetHandler) UpdateBudget(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GroupBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(groupID, req.BudgetName, req.BudgetAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Budget updated successfully", budget)
}

// GetBudget returns the group's budget. A group without one is a success
// with null data.
// @Summary     Get the group budget
// @Tags        group-budgets
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Success     200 {object} SuccessResponse
// @Router      /groups/{groupId}/budget [get]
func (h *GroupBudgetHandler) GetBudget(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if budget == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": 1,
			"data":    nil,
			"message": "No budget found for this group",
		})
		return
	}
	respondOK(c, "", budget)
}
