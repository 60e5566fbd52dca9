package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"moneylog/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a verified user with a hashed password and unique
// username and email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a verified user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		FirstName:  "Test",
		LastName:   "User",
		Username:   fmt.Sprintf("testuser%d", nextID()),
		Email:      email,
		Password:   string(hash),
		IsVerified: true,
		TokenValid: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a monthly budget for the user.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, monthYear string) *models.PersonalBudget {
	t.Helper()

	budget := &models.PersonalBudget{
		UserID:       userID,
		MonthYear:    monthYear,
		BudgetAmount: 500,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates an expense for the user, unattached to a budget.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		ExpenseType: "Food",
		ItemName:    fmt.Sprintf("Item %d", nextID()),
		ItemPrice:   12.5,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestGroup creates a group owned by the user, with an active admin
// membership for them.
func CreateTestGroup(t *testing.T, db *gorm.DB, ownerID uint) *models.Group {
	t.Helper()

	group := &models.Group{
		GroupName: fmt.Sprintf("Test Group %d", nextID()),
		GroupCode: fmt.Sprintf("TG%04d", nextID()),
		CreatedBy: ownerID,
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test group: %v", err)
	}

	member := &models.GroupMember{
		GroupID: group.ID,
		UserID:  ownerID,
		Role:    models.RoleAdmin,
		Status:  models.StatusActive,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create admin membership: %v", err)
	}
	return group
}

// CreateTestMembership adds an active membership with the given role.
func CreateTestMembership(t *testing.T, db *gorm.DB, groupID, userID uint, role models.GroupRole) *models.GroupMember {
	t.Helper()

	member := &models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    role,
		Status:  models.StatusActive,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test membership: %v", err)
	}
	return member
}

// CreateTestInvite creates an unexpired pending invite for an email.
func CreateTestInvite(t *testing.T, db *gorm.DB, groupID uint, email string) *models.PendingInvite {
	t.Helper()

	invite := &models.PendingInvite{
		GroupID:   groupID,
		Email:     email,
		Token:     fmt.Sprintf("testtoken%032d", nextID()),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(invite).Error; err != nil {
		t.Fatalf("failed to create test invite: %v", err)
	}
	return invite
}

// CreateTestGroupExpense creates a group expense authored by the user.
func CreateTestGroupExpense(t *testing.T, db *gorm.DB, groupID, userID uint) *models.GroupExpense {
	t.Helper()

	expense := &models.GroupExpense{
		GroupID:     groupID,
		UserID:      userID,
		ItemName:    fmt.Sprintf("Group Item %d", nextID()),
		ItemPrice:   20,
		ExpenseType: "Food",
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test group expense: %v", err)
	}
	return expense
}

// CreateTestPhoto creates a photo row for the user.
func CreateTestPhoto(t *testing.T, db *gorm.DB, userID uint) *models.Photo {
	t.Helper()

	photo := &models.Photo{
		UserID:      userID,
		ImageURL:    fmt.Sprintf("/uploads/personal-photos/photo-%d.jpg", nextID()),
		Description: "test photo",
	}
	if err := db.Create(photo).Error; err != nil {
		t.Fatalf("failed to create test photo: %v", err)
	}
	return photo
}
