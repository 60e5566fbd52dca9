package services

import (
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"moneylog/internal/models"
	"moneylog/internal/testutil"
)

// fakeSender records outbound mail; Send fails when failWith is set.
type fakeSender struct {
	sent     []sentMail
	failWith error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeSender) Send(to, subject, text string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: text})
	return nil
}

func TestCreateGroup(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)

		group, err := svc.CreateGroup(owner.ID, "Trip to Osaka")
		testutil.AssertNoError(t, err)

		if group.ID == 0 {
			t.Fatal("expected non-zero group ID")
		}
		if len(group.GroupCode) != 6 {
			t.Errorf("expected 6-character join code, got %q", group.GroupCode)
		}

		var member models.GroupMember
		if err := db.Where("group_id = ? AND user_id = ?", group.ID, owner.ID).First(&member).Error; err != nil {
			t.Fatalf("expected owner membership: %v", err)
		}
		if member.Role != models.RoleAdmin {
			t.Errorf("expected admin role, got %s", member.Role)
		}
		if member.Status != models.StatusActive {
			t.Errorf("expected active status, got %s", member.Status)
		}
	})

	t.Run("duplicate_code_is_translated", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		owner := testutil.CreateTestUser(t, db)

		// The collision retry keys off gorm.ErrDuplicatedKey, so the
		// connection must translate unique violations.
		first := models.Group{GroupName: "First", GroupCode: "SAME01", CreatedBy: owner.ID}
		if err := db.Create(&first).Error; err != nil {
			t.Fatalf("failed to create group: %v", err)
		}
		second := models.Group{GroupName: "Second", GroupCode: "SAME01", CreatedBy: owner.ID}
		err := db.Create(&second).Error
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			t.Errorf("expected gorm.ErrDuplicatedKey, got %v", err)
		}
	})

	t.Run("name_too_short", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)

		_, err := svc.CreateGroup(owner.ID, "  ab ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestJoinByCode(t *testing.T) {
	t.Run("unknown_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		user := testutil.CreateTestUser(t, db)

		_, err := svc.JoinByCode(user.ID, "NOPE99")
		testutil.AssertAppError(t, err, "GROUP_CODE_NOT_FOUND")
	})

	t.Run("creator_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		result, err := svc.JoinByCode(owner.ID, group.GroupCode)
		testutil.AssertNoError(t, err)

		if result.Message != "You're already the admin of this group" {
			t.Errorf("unexpected message: %s", result.Message)
		}

		var requests int64
		db.Model(&models.JoinRequest{}).Where("group_id = ?", group.ID).Count(&requests)
		if requests != 0 {
			t.Errorf("expected no join request, got %d", requests)
		}
	})

	t.Run("blocked_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		if err := db.Create(&models.BlockedMember{GroupID: group.ID, UserID: user.ID}).Error; err != nil {
			t.Fatalf("failed to block user: %v", err)
		}

		_, err := svc.JoinByCode(user.ID, group.GroupCode)
		testutil.AssertAppError(t, err, "BLOCKED")
	})

	t.Run("creates_pending_request", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		result, err := svc.JoinByCode(user.ID, group.GroupCode)
		testutil.AssertNoError(t, err)

		if result.Message != "Join request submitted. Waiting for admin approval." {
			t.Errorf("unexpected message: %s", result.Message)
		}

		var request models.JoinRequest
		if err := db.Where("group_id = ? AND user_id = ?", group.ID, user.ID).First(&request).Error; err != nil {
			t.Fatalf("expected a join request: %v", err)
		}
		if request.Status != "pending" {
			t.Errorf("expected pending status, got %s", request.Status)
		}
	})

	t.Run("repeat_while_pending_is_idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		_, err := svc.JoinByCode(user.ID, group.GroupCode)
		testutil.AssertNoError(t, err)

		result, err := svc.JoinByCode(user.ID, group.GroupCode)
		testutil.AssertNoError(t, err)

		if result.Message != "Your join request is pending admin approval" {
			t.Errorf("unexpected message: %s", result.Message)
		}

		var requests int64
		db.Model(&models.JoinRequest{}).Where("group_id = ? AND user_id = ?", group.ID, user.ID).Count(&requests)
		if requests != 1 {
			t.Errorf("expected exactly 1 request, got %d", requests)
		}
	})
}

func TestApproveRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		_, err := svc.JoinByCode(user.ID, group.GroupCode)
		testutil.AssertNoError(t, err)

		var request models.JoinRequest
		if err := db.Where("group_id = ? AND user_id = ?", group.ID, user.ID).First(&request).Error; err != nil {
			t.Fatalf("missing join request: %v", err)
		}

		remaining, err := svc.ApproveRequest(group.ID, request.ID)
		testutil.AssertNoError(t, err)

		if len(remaining) != 0 {
			t.Errorf("expected no pending requests left, got %d", len(remaining))
		}

		var member models.GroupMember
		if err := db.Where("group_id = ? AND user_id = ?", group.ID, user.ID).First(&member).Error; err != nil {
			t.Fatalf("expected membership after approval: %v", err)
		}
		if member.Role != models.RoleMember {
			t.Errorf("expected member role, got %s", member.Role)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		_, err := svc.ApproveRequest(group.ID, 9999)
		testutil.AssertAppError(t, err, "REQUEST_NOT_FOUND")
	})

	t.Run("wrong_group", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)
		group1 := testutil.CreateTestGroup(t, db, owner.ID)
		group2 := testutil.CreateTestGroup(t, db, owner.ID)

		_, err := svc.JoinByCode(user.ID, group1.GroupCode)
		testutil.AssertNoError(t, err)

		var request models.JoinRequest
		if err := db.Where("group_id = ?", group1.ID).First(&request).Error; err != nil {
			t.Fatalf("missing join request: %v", err)
		}

		_, err = svc.ApproveRequest(group2.ID, request.ID)
		testutil.AssertAppError(t, err, "REQUEST_NOT_FOUND")
	})
}

func TestRejectRequest(t *testing.T) {
	t.Run("removes_request_without_membership", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		user := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		_, err := svc.JoinByCode(user.ID, group.GroupCode)
		testutil.AssertNoError(t, err)

		var request models.JoinRequest
		if err := db.Where("group_id = ?", group.ID).First(&request).Error; err != nil {
			t.Fatalf("missing join request: %v", err)
		}

		remaining, err := svc.RejectRequest(group.ID, request.ID)
		testutil.AssertNoError(t, err)

		if len(remaining) != 0 {
			t.Errorf("expected no pending requests left, got %d", len(remaining))
		}

		var members int64
		db.Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", group.ID, user.ID).Count(&members)
		if members != 0 {
			t.Errorf("expected no membership after rejection, got %d", members)
		}
	})
}

func TestInvite(t *testing.T) {
	t.Run("sends_mail_and_stores_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		mailer := &fakeSender{}
		svc := NewGroupService(db, mailer, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		result, err := svc.Invite(group.ID, owner.ID, "friend@test.com")
		testutil.AssertNoError(t, err)

		if result.UserExists {
			t.Error("expected userExists false for unregistered email")
		}
		if result.GroupCode != group.GroupCode {
			t.Errorf("expected group code %s, got %s", group.GroupCode, result.GroupCode)
		}
		if len(mailer.sent) != 1 {
			t.Fatalf("expected 1 mail, got %d", len(mailer.sent))
		}
		if mailer.sent[0].to != "friend@test.com" {
			t.Errorf("mail sent to %s", mailer.sent[0].to)
		}

		var invite models.PendingInvite
		if err := db.Where("group_id = ? AND email = ?", group.ID, "friend@test.com").First(&invite).Error; err != nil {
			t.Fatalf("expected a pending invite: %v", err)
		}
		if len(invite.Token) != 64 {
			t.Errorf("expected 64-character hex token, got %d characters", len(invite.Token))
		}
		if !invite.ExpiresAt.After(time.Now().Add(6 * 24 * time.Hour)) {
			t.Error("expected roughly 7-day expiry")
		}
	})

	t.Run("existing_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		target := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		result, err := svc.Invite(group.ID, owner.ID, target.Email)
		testutil.AssertNoError(t, err)

		if !result.UserExists {
			t.Error("expected userExists true")
		}
		if result.UserID == nil || *result.UserID != target.ID {
			t.Error("expected target user ID in result")
		}
	})

	t.Run("already_member", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)

		_, err := svc.Invite(group.ID, owner.ID, member.Email)
		testutil.AssertAppError(t, err, "ALREADY_MEMBER")
	})

	t.Run("mail_failure_cleans_up_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		mailer := &fakeSender{failWith: errors.New("smtp down")}
		svc := NewGroupService(db, mailer, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		_, err := svc.Invite(group.ID, owner.ID, "friend@test.com")
		testutil.AssertAppError(t, err, "EMAIL_DELIVERY")

		var invites int64
		db.Model(&models.PendingInvite{}).Where("group_id = ?", group.ID).Count(&invites)
		if invites != 0 {
			t.Errorf("expected invite cleaned up, got %d", invites)
		}
	})

	t.Run("group_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)

		_, err := svc.Invite(9999, owner.ID, "friend@test.com")
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestAcceptInvite(t *testing.T) {
	t.Run("unknown_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")

		_, err := svc.AcceptInvite("nosuchtoken", nil)
		testutil.AssertAppError(t, err, "INVITE_INVALID")
	})

	t.Run("expired_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		invite := testutil.CreateTestInvite(t, db, group.ID, "friend@test.com")

		if err := db.Model(invite).Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
			t.Fatalf("failed to expire invite: %v", err)
		}

		_, err := svc.AcceptInvite(invite.Token, nil)
		testutil.AssertAppError(t, err, "INVITE_INVALID")
	})

	t.Run("anonymous_keeps_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		invite := testutil.CreateTestInvite(t, db, group.ID, "friend@test.com")

		result, err := svc.AcceptInvite(invite.Token, nil)
		testutil.AssertNoError(t, err)

		if !result.RequiresAuth {
			t.Error("expected requiresAuth for anonymous caller")
		}
		if result.InviteToken != invite.Token {
			t.Error("expected token echoed back for the login flow")
		}

		var count int64
		db.Model(&models.PendingInvite{}).Where("token = ?", invite.Token).Count(&count)
		if count != 1 {
			t.Error("expected token to survive an anonymous accept")
		}
	})

	t.Run("email_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		invite := testutil.CreateTestInvite(t, db, group.ID, "friend@test.com")

		_, err := svc.AcceptInvite(invite.Token, &other.ID)
		testutil.AssertAppError(t, err, "EMAIL_MISMATCH")
	})

	t.Run("email_match_is_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		invitee := testutil.CreateTestUserWithEmail(t, db, "friend@test.com")
		group := testutil.CreateTestGroup(t, db, owner.ID)
		invite := testutil.CreateTestInvite(t, db, group.ID, "Friend@Test.com")

		_, err := svc.AcceptInvite(invite.Token, &invitee.ID)
		testutil.AssertNoError(t, err)
	})

	t.Run("consumes_token_and_joins", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		invitee := testutil.CreateTestUserWithEmail(t, db, "friend@test.com")
		group := testutil.CreateTestGroup(t, db, owner.ID)
		invite := testutil.CreateTestInvite(t, db, group.ID, "friend@test.com")

		result, err := svc.AcceptInvite(invite.Token, &invitee.ID)
		testutil.AssertNoError(t, err)

		if result.GroupID != group.ID {
			t.Errorf("expected group %d, got %d", group.ID, result.GroupID)
		}

		var member models.GroupMember
		if err := db.Where("group_id = ? AND user_id = ?", group.ID, invitee.ID).First(&member).Error; err != nil {
			t.Fatalf("expected membership: %v", err)
		}

		// A second accept must fail: the token is single use.
		_, err = svc.AcceptInvite(invite.Token, &invitee.ID)
		testutil.AssertAppError(t, err, "INVITE_INVALID")
	})
}

func TestGetUserGroups(t *testing.T) {
	t.Run("includes_member_count", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)

		groups, err := svc.GetUserGroups(member.ID)
		testutil.AssertNoError(t, err)

		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}
		if groups[0].MemberCount != 2 {
			t.Errorf("expected 2 members, got %d", groups[0].MemberCount)
		}
	})

	t.Run("excludes_foreign_groups", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		testutil.CreateTestGroup(t, db, owner.ID)

		groups, err := svc.GetUserGroups(outsider.ID)
		testutil.AssertNoError(t, err)

		if len(groups) != 0 {
			t.Errorf("expected no groups, got %d", len(groups))
		}
	})
}

func TestUpdateGroupName(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		err := svc.UpdateGroupName(group.ID, "Renamed Crew")
		testutil.AssertNoError(t, err)

		var fetched models.Group
		if err := db.First(&fetched, group.ID).Error; err != nil {
			t.Fatalf("failed to fetch group: %v", err)
		}
		if fetched.GroupName != "Renamed Crew" {
			t.Errorf("expected renamed group, got %s", fetched.GroupName)
		}
	})

	t.Run("too_short", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		err := svc.UpdateGroupName(group.ID, "ab")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")

		err := svc.UpdateGroupName(9999, "Ghost Group")
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestRemoveMember(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)

		err := svc.RemoveMember(group.ID, member.ID)
		testutil.AssertNoError(t, err)

		var count int64
		db.Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", group.ID, member.ID).Count(&count)
		if count != 0 {
			t.Errorf("expected membership removed, got %d", count)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		err := svc.RemoveMember(group.ID, 9999)
		testutil.AssertAppError(t, err, "MEMBER_NOT_FOUND")
	})

	t.Run("last_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)

		err := svc.RemoveMember(group.ID, owner.ID)
		testutil.AssertAppError(t, err, "LAST_ADMIN")
	})

	t.Run("admin_with_another_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		coAdmin := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, coAdmin.ID, models.RoleAdmin)

		err := svc.RemoveMember(group.ID, owner.ID)
		testutil.AssertNoError(t, err)
	})
}

func TestDeleteGroup(t *testing.T) {
	t.Run("removes_group_and_dependents", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestGroupExpense(t, db, group.ID, owner.ID)
		testutil.CreateTestInvite(t, db, group.ID, "friend@test.com")

		err := svc.DeleteGroup(group.ID)
		testutil.AssertNoError(t, err)

		for name, model := range map[string]interface{}{
			"group":    &models.Group{},
			"members":  &models.GroupMember{},
			"expenses": &models.GroupExpense{},
			"invites":  &models.PendingInvite{},
		} {
			var count int64
			db.Model(model).Count(&count)
			if count != 0 {
				t.Errorf("expected %s wiped, got %d rows", name, count)
			}
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")

		err := svc.DeleteGroup(9999)
		testutil.AssertAppError(t, err, "GROUP_NOT_FOUND")
	})
}

func TestGetPendingInvitesByEmail(t *testing.T) {
	t.Run("lists_unexpired_invites", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewGroupService(db, &fakeSender{}, "http://localhost:3000")
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestInvite(t, db, group.ID, "friend@test.com")

		expired := testutil.CreateTestInvite(t, db, group.ID, "friend@test.com")
		if err := db.Model(expired).Update("expires_at", time.Now().Add(-time.Hour)).Error; err != nil {
			t.Fatalf("failed to expire invite: %v", err)
		}

		invites, err := svc.GetPendingInvitesByEmail("friend@test.com")
		testutil.AssertNoError(t, err)

		if len(invites) != 1 {
			t.Fatalf("expected 1 invite, got %d", len(invites))
		}
		if invites[0].GroupName != group.GroupName {
			t.Errorf("expected group name %s, got %s", group.GroupName, invites[0].GroupName)
		}
		if invites[0].InviterName != owner.Username {
			t.Errorf("expected inviter %s, got %s", owner.Username, invites[0].InviterName)
		}
	})
}
