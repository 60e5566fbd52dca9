package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/services"
)

// GroupExpenseHandler handles expenses recorded against a group.
type GroupExpenseHandler struct {
	expenseService services.GroupExpenseServicer
}

// NewGroupExpenseHandler creates a new GroupExpenseHandler.
func NewGroupExpenseHandler(expenseService services.GroupExpenseServicer) *GroupExpenseHandler {
	return &GroupExpenseHandler{expenseService: expenseService}
}

// GroupExpenseRequest represents the request payload for adding or editing
// a group expense.
type GroupExpenseRequest struct {
	ItemName    string  `json:"item_name" binding:"required,max=100"`
	ItemPrice   float64 `json:"item_price" binding:"required,gt=0"`
	ExpenseType string  `json:"expense_type" binding:"required,max=50"`
	Note        string  `json:"note" binding:"max=500"`
}

// AddExpense records an expense in the group.
// @Summary     Add a group expense
// @Tags        group-expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       request body GroupExpenseRequest true "Expense details"
// @Success     201 {object} SuccessResponse
// @Failure     403 {object} ErrorResponse "Not an active group member"
// @Router      /groups/{groupId}/expenses [post]
func (h *GroupExpenseHandler) AddExpense(c *gin.Context) {
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

	var req GroupExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.AddExpense(groupID, userID, req.ItemName, req.ItemPrice, req.ExpenseType, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Expense added successfully", expense)
}

// EditExpense updates an expense the caller authored.
// @Summary     Edit a group expense
// @Tags        group-expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       expenseId path int true "Expense ID"
// @Param       request body GroupExpenseRequest true "Expense details"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "Expense not found or unauthorized"
// @Router      /groups/{groupId}/expenses/{expenseId} [put]
func (h *GroupExpenseHandler) EditExpense(c *gin.Context) {
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
	expenseID, err := parsePathID(c, "expenseId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req GroupExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.EditExpense(groupID, userID, expenseID, req.ItemName, req.ItemPrice, req.ExpenseType, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Expense updated successfully", expense)
}

// DeleteExpense removes an expense the caller authored.
// @Summary     Delete a group expense
// @Tags        group-expenses
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       expenseId path int true "Expense ID"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "Expense not found or unauthorized"
// @Router      /groups/{groupId}/expenses/{expenseId} [delete]
func (h *GroupExpenseHandler) DeleteExpense(c *gin.Context) {
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
	expenseID, err := parsePathID(c, "expenseId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(groupID, userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Expense deleted successfully", nil)
}

// GetExpenses lists the group's expenses, optionally for one month.
// @Summary     List group expenses
// @Tags        group-expenses
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       monthYear query string false "Restrict to a month (YYYY-MM)"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid month format"
// @Router      /groups/{groupId}/expenses [get]
func (h *GroupExpenseHandler) GetExpenses(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.GetGroupExpenses(groupID, c.Query("monthYear"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", expenses)
}

// GetExpensesByMember lists one member's expenses within the group.
// @Summary     List a member's group expenses
// @Tags        group-expenses
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       memberId path int true "Member user ID"
// @Success     200 {object} SuccessResponse
// @Router      /groups/{groupId}/expenses/member/{memberId} [get]
func (h *GroupExpenseHandler) GetExpensesByMember(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	memberID, err := parsePathID(c, "memberId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.GetExpensesByMember(groupID, memberID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", expenses)
}
