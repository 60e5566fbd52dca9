// Package errors provides the application error taxonomy. Service-layer
// errors use AppError so that handlers can produce consistent responses
// without leaking internal details to clients.
package errors

import "net/http"

// AppError is a structured application error carrying a machine-readable
// code, a user-facing message, an HTTP status, and an optional wrapped
// internal error that is logged but never returned to the client.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap returns a copy of sentinel carrying internal as the wrapped cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage returns a copy of sentinel with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrNoToken            = &AppError{Code: "NO_TOKEN", Message: "Access denied! No token provided", StatusCode: http.StatusUnauthorized}
	ErrTokenFormat        = &AppError{Code: "TOKEN_FORMAT", Message: "Invalid token format", StatusCode: http.StatusUnauthorized}
	ErrTokenExpired       = &AppError{Code: "TOKEN_EXPIRED", Message: "Token expired. Please login again.", StatusCode: http.StatusUnauthorized}
	ErrTokenMalformed     = &AppError{Code: "TOKEN_MALFORMED", Message: "Malformed token", StatusCode: http.StatusUnauthorized}
	ErrSessionRevoked     = &AppError{Code: "SESSION_REVOKED", Message: "Session expired. Please login again.", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrNotVerified        = &AppError{Code: "NOT_VERIFIED", Message: "Please verify your email first. Check your inbox for the verification link.", StatusCode: http.StatusUnauthorized}
)

// Authorization errors.
var (
	ErrNotAMember    = &AppError{Code: "NOT_A_MEMBER", Message: "Not an active group member", StatusCode: http.StatusForbidden}
	ErrAdminRequired = &AppError{Code: "ADMIN_REQUIRED", Message: "Admin access required", StatusCode: http.StatusForbidden}
	ErrBlocked       = &AppError{Code: "BLOCKED", Message: "You have been blocked from this group", StatusCode: http.StatusForbidden}
	ErrEmailMismatch = &AppError{Code: "EMAIL_MISMATCH", Message: "Invitation was sent to a different email", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrEmailDelivery  = &AppError{Code: "EMAIL_DELIVERY", Message: "Failed to send email. Please try again later.", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound  = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrUsernameTaken = &AppError{Code: "USERNAME_TAKEN", Message: "Username already exists", StatusCode: http.StatusBadRequest}
	ErrEmailTaken    = &AppError{Code: "EMAIL_TAKEN", Message: "Email already exists", StatusCode: http.StatusBadRequest}
	ErrInvalidOTP    = &AppError{Code: "INVALID_OTP", Message: "Invalid or expired OTP", StatusCode: http.StatusBadRequest}
)

// Budget and expense errors.
var (
	ErrBudgetMonthExists = &AppError{Code: "BUDGET_MONTH_EXISTS", Message: "You can only add one budget per month. Try updating it instead.", StatusCode: http.StatusConflict}
	ErrBudgetNotFound    = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrInvalidBudget     = &AppError{Code: "INVALID_BUDGET", Message: "Invalid budget specified", StatusCode: http.StatusBadRequest}
	ErrInvalidMonthYear  = &AppError{Code: "INVALID_MONTH_YEAR", Message: "Invalid monthYear format. Use YYYY-MM", StatusCode: http.StatusBadRequest}
	ErrExpenseNotFound   = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found or unauthorized", StatusCode: http.StatusNotFound}
)

// Group errors.
var (
	ErrGroupNotFound     = &AppError{Code: "GROUP_NOT_FOUND", Message: "Group not found", StatusCode: http.StatusNotFound}
	ErrGroupCodeNotFound = &AppError{Code: "GROUP_CODE_NOT_FOUND", Message: "Group not found with this code", StatusCode: http.StatusNotFound}
	ErrAlreadyMember     = &AppError{Code: "ALREADY_MEMBER", Message: "User is already a member of this group", StatusCode: http.StatusBadRequest}
	ErrRequestNotFound   = &AppError{Code: "REQUEST_NOT_FOUND", Message: "Request not found", StatusCode: http.StatusNotFound}
	ErrInviteInvalid     = &AppError{Code: "INVITE_INVALID", Message: "Invalid or expired invitation", StatusCode: http.StatusBadRequest}
	ErrLastAdmin         = &AppError{Code: "LAST_ADMIN", Message: "Cannot remove the only admin of the group", StatusCode: http.StatusConflict}
	ErrMemberNotFound    = &AppError{Code: "MEMBER_NOT_FOUND", Message: "Member not found in this group", StatusCode: http.StatusNotFound}
	ErrGroupBudgetExists = &AppError{Code: "GROUP_BUDGET_EXISTS", Message: "This group already has a budget. Try updating it instead.", StatusCode: http.StatusConflict}
)

// Photo errors.
var (
	ErrPhotoNotFound   = &AppError{Code: "PHOTO_NOT_FOUND", Message: "Photo not found", StatusCode: http.StatusNotFound}
	ErrPhotoForbidden  = &AppError{Code: "PHOTO_FORBIDDEN", Message: "Not authorized to modify this photo", StatusCode: http.StatusForbidden}
	ErrPhotoType       = &AppError{Code: "PHOTO_TYPE", Message: "Only JPEG, PNG, and GIF images are allowed", StatusCode: http.StatusBadRequest}
	ErrPhotoTooLarge   = &AppError{Code: "PHOTO_TOO_LARGE", Message: "Photo exceeds the 5MB size limit", StatusCode: http.StatusBadRequest}
	ErrPhotoMissing    = &AppError{Code: "PHOTO_MISSING", Message: "No file uploaded or file type not allowed", StatusCode: http.StatusBadRequest}
)
