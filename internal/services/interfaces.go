package services

import (
	"mime/multipart"
	"time"

	"moneylog/internal/models"
)

// UserServicer defines the contract for account lifecycle logic.
type UserServicer interface {
	CreateUser(firstName, lastName, username, email, password string, verified bool) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers() ([]models.User, error)
	UpdateUser(id uint, username, email, password string) error
	CheckUsernameExists(username string) (bool, error)
	CheckEmailExists(email string) (bool, error)
	Login(email, password string) (*models.User, bool, error)
	Logout(userID uint) error
	IsSessionValid(userID uint) (bool, error)
	UpdatePassword(email, newPassword string) error
	DeleteAccount(userID uint) error
}

// OTPServicer defines the contract for one-time-password flows. Issuing
// stores the code and emails it; verification consumes registration codes
// but leaves reset codes for the final reset step to clear.
type OTPServicer interface {
	IssueRegistrationOTP(email, firstName string) error
	VerifyRegistrationOTP(email, otp string) error
	ClearRegistrationOTPs(email string) error
	IssuePasswordResetOTP(email string) error
	VerifyPasswordResetOTP(email, otp string) error
	ClearPasswordResetOTPs(email string) error
}

// BudgetServicer defines the contract for personal monthly budgets.
type BudgetServicer interface {
	CreateBudget(userID uint, monthYear string, amount float64) (*models.PersonalBudget, error)
	UpdateBudget(userID, budgetID uint, monthYear string, amount float64) (*models.PersonalBudget, error)
	GetUserBudgets(userID uint, year string) ([]models.PersonalBudget, error)
	GetBudgetByMonth(userID uint, monthYear string) (*models.PersonalBudget, error)
}

// ExpenseServicer defines the contract for personal expenses.
type ExpenseServicer interface {
	AddExpense(userID uint, budgetID *uint, expenseType, itemName string, price float64) (*models.Expense, error)
	EditExpense(userID, expenseID uint, expenseType, itemName string, price float64) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) error
	GetUserExpenses(userID uint, monthYear string) ([]models.Expense, error)
	GetUserPatterns(userID uint) (map[string]string, error)
}

// PendingRequest is a join request joined with the requesting user.
type PendingRequest struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}

// MemberInfo is a membership row joined with the member's identity.
type MemberInfo struct {
	ID       uint             `json:"id"`
	Username string           `json:"username"`
	Email    string           `json:"email"`
	Role     models.GroupRole `json:"role"`
}

// GroupSummary is a group joined with its member count, for listings.
type GroupSummary struct {
	ID          uint      `json:"id"`
	GroupName   string    `json:"group_name"`
	GroupCode   string    `json:"group_code"`
	CreatedBy   uint      `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int64     `json:"member_count"`
}

// InviteInfo is a pending invite joined with group and inviter identity.
type InviteInfo struct {
	ID          uint      `json:"id"`
	GroupID     uint      `json:"group_id"`
	GroupName   string    `json:"group_name"`
	InviterName string    `json:"inviter_name"`
	Email       string    `json:"email"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// JoinResult reports the outcome of a join-by-code attempt. The same call
// is a no-op success for the creator and an idempotent success when a
// pending request already exists.
type JoinResult struct {
	GroupID uint   `json:"groupId"`
	Message string `json:"-"`
}

// InviteResult reports whether the invited email already has an account.
type InviteResult struct {
	GroupID    uint   `json:"groupId"`
	GroupCode  string `json:"groupCode"`
	UserExists bool   `json:"userExists"`
	UserID     *uint  `json:"userId"`
}

// AcceptResult is the outcome of presenting an invite token. RequiresAuth
// is set for anonymous callers; the token is not consumed in that case.
type AcceptResult struct {
	RequiresAuth bool   `json:"requiresAuth,omitempty"`
	InviteToken  string `json:"inviteToken,omitempty"`
	GroupID      uint   `json:"groupId"`
	GroupName    string `json:"groupName"`
	RedirectURL  string `json:"redirectUrl,omitempty"`
}

// GroupServicer defines the contract for group lifecycle and membership.
type GroupServicer interface {
	CreateGroup(ownerID uint, name string) (*models.Group, error)
	JoinByCode(userID uint, code string) (*JoinResult, error)
	GetPendingRequests(groupID uint) ([]PendingRequest, error)
	ApproveRequest(groupID, requestID uint) ([]PendingRequest, error)
	RejectRequest(groupID, requestID uint) ([]PendingRequest, error)
	Invite(groupID, inviterID uint, email string) (*InviteResult, error)
	AcceptInvite(token string, userID *uint) (*AcceptResult, error)
	GetPendingInvitesByEmail(email string) ([]InviteInfo, error)
	GetGroupInfo(groupID uint) (*models.Group, error)
	GetMembers(groupID uint) ([]MemberInfo, error)
	GetUserGroups(userID uint) ([]GroupSummary, error)
	UpdateGroupName(groupID uint, name string) error
	RemoveMember(groupID, memberID uint) error
	DeleteGroup(groupID uint) error
}

// GroupExpenseServicer defines the contract for group expenses.
type GroupExpenseServicer interface {
	AddExpense(groupID, userID uint, itemName string, price float64, expenseType, note string) (*models.GroupExpense, error)
	EditExpense(groupID, userID, expenseID uint, itemName string, price float64, expenseType, note string) (*models.GroupExpense, error)
	DeleteExpense(groupID, userID, expenseID uint) error
	GetGroupExpenses(groupID uint, monthYear string) ([]models.GroupExpense, error)
	GetExpensesByMember(groupID, memberID uint) ([]models.GroupExpense, error)
}

// GroupBudgetServicer defines the contract for the per-group budget.
type GroupBudgetServicer interface {
	AddBudget(groupID, userID uint, name string, amount float64) (*models.GroupBudget, error)
	UpdateBudget(groupID uint, name string, amount float64) (*models.GroupBudget, error)
	GetBudget(groupID uint) (*models.GroupBudget, error)
}

// PhotoServicer defines the contract for photo attachments. File and row
// changes are lifecycle-paired: a failure on either side cleans up the other.
type PhotoServicer interface {
	UploadPhoto(userID uint, file *multipart.FileHeader, description string) (*models.Photo, error)
	ListPhotos() ([]models.Photo, error)
	UpdatePhoto(userID, photoID uint, file *multipart.FileHeader, description string) (*models.Photo, error)
	DeletePhoto(userID, photoID uint) error
}
