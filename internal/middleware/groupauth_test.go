package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"moneylog/internal/models"
	"moneylog/internal/testutil"
)

func setupGroupRouter(db *gorm.DB, role models.GroupRole, userID uint) *gin.Engine {
	r := gin.New()
	r.GET("/groups/:groupId", func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}, RequireGroupRole(db, role), func(c *gin.Context) {
		groupID, _ := GroupID(c)
		c.JSON(http.StatusOK, gin.H{"group_id": groupID})
	})
	return r
}

func doGroupRequest(r *gin.Engine, groupID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/groups/"+groupID, http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRequireGroupRole(t *testing.T) {
	t.Run("active_member_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)

		r := setupGroupRouter(db, models.RoleMember, member.ID)
		rec := doGroupRequest(r, fmt.Sprintf("%d", group.ID))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		body := parseBody(t, rec)
		if id, _ := body["group_id"].(float64); uint(id) != group.ID {
			t.Errorf("expected group_id %d, got %v", group.ID, body["group_id"])
		}
	})

	t.Run("non_member_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		owner := testutil.CreateTestUser(t, db)
		outsider := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		r := setupGroupRouter(db, models.RoleMember, outsider.ID)
		rec := doGroupRequest(r, fmt.Sprintf("%d", group.ID))

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
		body := parseBody(t, rec)
		if code, _ := body["error"].(string); code != "NOT_A_MEMBER" {
			t.Errorf("error code = %q, want NOT_A_MEMBER", code)
		}
	})

	t.Run("pending_member_forbidden", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		owner := testutil.CreateTestUser(t, db)
		pending := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		membership := &models.GroupMember{
			GroupID: group.ID,
			UserID:  pending.ID,
			Role:    models.RoleMember,
			Status:  models.StatusPending,
		}
		if err := db.Create(membership).Error; err != nil {
			t.Fatalf("failed to create pending membership: %v", err)
		}

		r := setupGroupRouter(db, models.RoleMember, pending.ID)
		rec := doGroupRequest(r, fmt.Sprintf("%d", group.ID))

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("member_lacks_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		owner := testutil.CreateTestUser(t, db)
		member := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)
		testutil.CreateTestMembership(t, db, group.ID, member.ID, models.RoleMember)

		r := setupGroupRouter(db, models.RoleAdmin, member.ID)
		rec := doGroupRequest(r, fmt.Sprintf("%d", group.ID))

		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
		body := parseBody(t, rec)
		if code, _ := body["error"].(string); code != "ADMIN_REQUIRED" {
			t.Errorf("error code = %q, want ADMIN_REQUIRED", code)
		}
	})

	t.Run("admin_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		owner := testutil.CreateTestUser(t, db)
		group := testutil.CreateTestGroup(t, db, owner.ID)

		r := setupGroupRouter(db, models.RoleAdmin, owner.ID)
		rec := doGroupRequest(r, fmt.Sprintf("%d", group.ID))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("bad_group_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		r := setupGroupRouter(db, models.RoleMember, user.ID)
		rec := doGroupRequest(r, "abc")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
