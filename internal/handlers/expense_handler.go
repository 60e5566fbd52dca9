package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/services"
)

// ExpenseHandler handles personal expense requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// AddExpenseRequest represents the request payload for recording an expense.
type AddExpenseRequest struct {
	ItemName         string  `json:"item_name" binding:"required,max=100"`
	ItemPrice        float64 `json:"item_price" binding:"required,gt=0"`
	ExpenseType      string  `json:"expense_type" binding:"required,max=50"`
	PersonalBudgetID *uint   `json:"personal_budget_id"`
}

// EditExpenseRequest represents the request payload for updating an expense.
type EditExpenseRequest struct {
	ItemName    string  `json:"item_name" binding:"required,max=100"`
	ItemPrice   float64 `json:"item_price" binding:"required,gt=0"`
	ExpenseType string  `json:"expense_type" binding:"required,max=50"`
}

// AddExpense records an expense, optionally against one of the caller's
// budgets.
// @Summary     Add an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddExpenseRequest true "Expense details"
// @Success     201 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid input or budget"
// @Router      /expenses [post]
func (h *ExpenseHandler) AddExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.AddExpense(userID, req.PersonalBudgetID, req.ExpenseType, req.ItemName, req.ItemPrice)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Expense added successfully", expense)
}

// EditExpense updates an expense the caller owns.
// @Summary     Edit an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Param       request body EditExpenseRequest true "Expense details"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "Expense not found or unauthorized"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) EditExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req EditExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.EditExpense(userID, id, req.ExpenseType, req.ItemName, req.ItemPrice)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Expense updated successfully", expense)
}

// DeleteExpense removes an expense the caller owns.
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "Expense not found or unauthorized"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, id); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Expense deleted successfully", nil)
}

// GetExpenses lists the caller's expenses, optionally for one month.
// @Summary     List expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       monthYear query string false "Restrict to a month (YYYY-MM)"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid month format"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.GetUserExpenses(userID, c.Query("monthYear"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", expenses)
}

// GetPatterns returns the caller's learned item-to-category suggestions.
// @Summary     Get expense category suggestions
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SuccessResponse
// @Router      /expenses/patterns [get]
func (h *ExpenseHandler) GetPatterns(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	patterns, err := h.expenseService.GetUserPatterns(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", patterns)
}
