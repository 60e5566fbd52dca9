package services

import (
	"testing"
	"time"

	"moneylog/internal/models"
	"moneylog/internal/testutil"
)

func TestAddGroupExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		expense, err := svc.AddExpense(group.ID, owner.ID, "Pizza", 32, "Food", "team dinner")
		testutil.AssertNoError(t, err)

		if expense.ID == 0 {
			t.Fatal("expected non-zero expense ID")
		}
		if expense.Username != owner.Username {
			t.Errorf("expected username %s, got %s", owner.Username, expense.Username)
		}
		if expense.Note != "team dinner" {
			t.Errorf("expected note preserved, got %s", expense.Note)
		}
	})
}

func TestEditGroupExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		expense := testutil.CreateTestGroupExpense(t, db, group.ID, owner.ID)

		updated, err := svc.EditExpense(group.ID, owner.ID, expense.ID, "Sushi", 45, "Food", "")
		testutil.AssertNoError(t, err)

		if updated.ItemName != "Sushi" {
			t.Errorf("expected item Sushi, got %s", updated.ItemName)
		}
	})

	t.Run("another_members_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)
		expense := testutil.CreateTestGroupExpense(t, db, group.ID, owner.ID)

		_, err := svc.EditExpense(group.ID, member.ID, expense.ID, "Sushi", 45, "Food", "")
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		_, err := svc.EditExpense(group.ID, owner.ID, 9999, "Sushi", 45, "Food", "")
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestDeleteGroupExpense(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		expense := testutil.CreateTestGroupExpense(t, db, group.ID, owner.ID)

		err := svc.DeleteExpense(group.ID, owner.ID, expense.ID)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.GroupExpense{}).Where("id = ?", expense.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected expense gone, got %d", count)
		}
	})

	t.Run("another_members_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)
		expense := testutil.CreateTestGroupExpense(t, db, group.ID, owner.ID)

		err := svc.DeleteExpense(group.ID, member.ID, expense.ID)
		testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
	})
}

func TestGetGroupExpenses(t *testing.T) {
	t.Run("includes_usernames", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)
		testutil.CreateTestGroupExpense(t, db, group.ID, owner.ID)
		testutil.CreateTestGroupExpense(t, db, group.ID, member.ID)

		expenses, err := svc.GetGroupExpenses(group.ID, "")
		testutil.AssertNoError(t, err)

		if len(expenses) != 2 {
			t.Fatalf("expected 2 expenses, got %d", len(expenses))
		}
		for _, e := range expenses {
			if e.Username == "" {
				t.Error("expected username populated on listing")
			}
		}
	})

	t.Run("filter_by_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		inMonth := testutil.CreateTestGroupExpense(t, db, group.ID, owner.ID)
		outOfMonth := testutil.CreateTestGroupExpense(t, db, group.ID, owner.ID)

		march := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
		may := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		if err := db.Model(inMonth).Update("expense_date", march).Error; err != nil {
			t.Fatalf("failed to set expense date: %v", err)
		}
		if err := db.Model(outOfMonth).Update("expense_date", may).Error; err != nil {
			t.Fatalf("failed to set expense date: %v", err)
		}

		expenses, err := svc.GetGroupExpenses(group.ID, "2024-03")
		testutil.AssertNoError(t, err)

		if len(expenses) != 1 {
			t.Fatalf("expected 1 expense, got %d", len(expenses))
		}
		if expenses[0].ID != inMonth.ID {
			t.Errorf("expected expense %d, got %d", inMonth.ID, expenses[0].ID)
		}
	})

	t.Run("invalid_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		_, err := svc.GetGroupExpenses(group.ID, "2024-13")
		testutil.AssertAppError(t, err, "INVALID_MONTH_YEAR")
	})
}

func TestGetExpensesByMember(t *testing.T) {
	t.Run("only_that_members_rows", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupExpenseService(db)
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)
		testutil.CreateTestGroupExpense(t, db, group.ID, owner.ID)
		target := testutil.CreateTestGroupExpense(t, db, group.ID, member.ID)

		expenses, err := svc.GetExpensesByMember(group.ID, member.ID)
		testutil.AssertNoError(t, err)

		if len(expenses) != 1 {
			t.Fatalf("expected 1 expense, got %d", len(expenses))
		}
		if expenses[0].ID != target.ID {
			t.Errorf("expected expense %d, got %d", target.ID, expenses[0].ID)
		}
	})
}
