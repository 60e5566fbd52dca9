package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/services"
)

// BudgetHandler handles personal monthly budget requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// BudgetRequest represents the request payload for creating or updating a
// monthly budget.
type BudgetRequest struct {
	MonthYear    string  `json:"month_year" binding:"required,month_year"`
	BudgetAmount float64 `json:"budget_amount" binding:"required,gt=0"`
}

// AddBudget creates the budget for a month. One budget per month.
// @Summary     Add a monthly budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetRequest true "Budget details"
// @Success     201 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Budget already exists for the month"
// @Router      /budgets [post]
func (h *BudgetHandler) AddBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(userID, req.MonthYear, req.BudgetAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Budget added successfully", budget)
}

// UpdateBudget changes a budget's month and amount.
// @Summary     Update a monthly budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Param       request body BudgetRequest true "Budget details"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     409 {object} ErrorResponse "Target month already has a budget"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
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

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, id, req.MonthYear, req.BudgetAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Budget updated successfully", budget)
}

// GetBudgets lists the caller's budgets, optionally for one year.
// @Summary     List monthly budgets
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       year query string false "Restrict to a year (YYYY)"
// @Success     200 {object} SuccessResponse
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.GetUserBudgets(userID, c.Query("year"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", budgets)
}

// GetBudgetByMonth returns the budget for one month. A month without a
// budget is a success with null data.
// @Summary     Get the budget for a month
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       month_year path string true "Month (YYYY-MM)"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid month format"
// @Router      /budgets/month/{month_year} [get]
func (h *BudgetHandler) GetBudgetByMonth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudgetByMonth(userID, c.Param("month_year"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	if budget == nil {
		c.JSON(http.StatusOK, gin.H{
			"success": 1,
			"data":    nil,
			"message": "No budget found for this month",
		})
		return
	}
	respondOK(c, "", budget)
}
