package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/logger"
	"moneylog/internal/mail"
	"moneylog/internal/models"
	"moneylog/internal/randcode"
)

const (
	joinCodeLength     = 6
	joinCodeAttempts   = 5
	inviteTokenBytes   = 32
	inviteTokenExpiry  = 7 * 24 * time.Hour
	minGroupNameLength = 3
)

// groupService handles group lifecycle and the two membership entry paths
// (join requests via code, email invitations via token).
type groupService struct {
	db          *gorm.DB
	mailer      mail.Sender
	frontendURL string
}

// NewGroupService creates a new GroupServicer.
func NewGroupService(db *gorm.DB, mailer mail.Sender, frontendURL string) GroupServicer {
	return &groupService{db: db, mailer: mailer, frontendURL: frontendURL}
}

// CreateGroup creates a group with a fresh join code and an active admin
// membership for the owner, both in one transaction. Code generation
// retries on a collision with an existing group.
func (s *groupService) CreateGroup(ownerID uint, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if len(name) < minGroupNameLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Group name must be at least 3 characters")
	}

	var group *models.Group
	var lastErr error
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := randcode.JoinCode(joinCodeLength)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		candidate := &models.Group{
			GroupName: name,
			GroupCode: code,
			CreatedBy: ownerID,
		}
		lastErr = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(candidate).Error; err != nil {
				return err
			}
			member := &models.GroupMember{
				GroupID: candidate.ID,
				UserID:  ownerID,
				Role:    models.RoleAdmin,
				Status:  models.StatusActive,
			}
			return tx.Create(member).Error
		})
		if lastErr == nil {
			group = candidate
			break
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, lastErr)
		}
	}
	if group == nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, lastErr)
	}
	return group, nil
}

// JoinByCode handles a self-service join attempt. The creator gets a no-op
// success, blocked users are refused, and a repeat attempt while a request
// is still pending succeeds idempotently.
func (s *groupService) JoinByCode(userID uint, code string) (*JoinResult, error) {
	var group models.Group
	if err := s.db.Where("group_code = ?", code).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupCodeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if group.CreatedBy == userID {
		return &JoinResult{GroupID: group.ID, Message: "You're already the admin of this group"}, nil
	}

	var blocked int64
	if err := s.db.Model(&models.BlockedMember{}).Where("group_id = ? AND user_id = ?", group.ID, userID).Count(&blocked).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if blocked > 0 {
		return nil, apperrors.ErrBlocked
	}

	var pending int64
	if err := s.db.Model(&models.JoinRequest{}).Where("group_id = ? AND user_id = ? AND status = ?", group.ID, userID, "pending").Count(&pending).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if pending > 0 {
		return &JoinResult{GroupID: group.ID, Message: "Your join request is pending admin approval"}, nil
	}

	request := &models.JoinRequest{
		GroupID: group.ID,
		UserID:  userID,
		Status:  "pending",
	}
	if err := s.db.Create(request).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &JoinResult{GroupID: group.ID, Message: "Join request submitted. Waiting for admin approval."}, nil
}

// GetPendingRequests lists a group's unresolved join requests with the
// requesting users' identities, newest first.
func (s *groupService) GetPendingRequests(groupID uint) ([]PendingRequest, error) {
	return s.pendingRequests(s.db, groupID)
}

// ApproveRequest turns a join request into an active membership and removes
// the request row, atomically. Returns the refreshed pending list.
func (s *groupService) ApproveRequest(groupID, requestID uint) ([]PendingRequest, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var request models.JoinRequest
		if err := tx.Where("id = ? AND group_id = ?", requestID, groupID).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrRequestNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		member := &models.GroupMember{
			GroupID: groupID,
			UserID:  request.UserID,
			Role:    models.RoleMember,
			Status:  models.StatusActive,
		}
		if err := tx.Create(member).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.JoinRequest{}, request.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.pendingRequests(s.db, groupID)
}

// RejectRequest deletes the join request and returns the refreshed pending
// list. Rejecting an already resolved request is not an error.
func (s *groupService) RejectRequest(groupID, requestID uint) ([]PendingRequest, error) {
	if err := s.db.Where("id = ? AND group_id = ?", requestID, groupID).Delete(&models.JoinRequest{}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.pendingRequests(s.db, groupID)
}

// Invite stores a single-use token for the target email and sends the
// invitation mail with the group's join code.
func (s *groupService) Invite(groupID, inviterID uint, email string) (*InviteResult, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var target models.User
	userExists := true
	if err := s.db.Where("email = ?", email).First(&target).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		userExists = false
	}

	if userExists {
		var count int64
		if err := s.db.Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", groupID, target.ID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrAlreadyMember
		}
	}

	token, err := randcode.Token(inviteTokenBytes)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	invite := &models.PendingInvite{
		GroupID:   groupID,
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().Add(inviteTokenExpiry),
	}
	if err := s.db.Create(invite).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var inviter models.User
	if err := s.db.First(&inviter, inviterID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	subject := fmt.Sprintf("Join %s's group %q on Money Log", inviter.Username, group.GroupName)
	body := mail.InviteBody(inviter.Username, group.GroupName, group.GroupCode, s.frontendURL)
	if err := s.mailer.Send(email, subject, body); err != nil {
		if delErr := s.db.Delete(invite).Error; delErr != nil {
			logger.Get().Warnw("failed to clean up invite after mail error", "invite_id", invite.ID, "error", delErr)
		}
		return nil, apperrors.Wrap(apperrors.ErrEmailDelivery, err)
	}

	result := &InviteResult{
		GroupID:    groupID,
		GroupCode:  group.GroupCode,
		UserExists: userExists,
	}
	if userExists {
		result.UserID = &target.ID
	}
	return result, nil
}

// AcceptInvite resolves an unexpired token. Anonymous callers get a
// login-required payload and the token survives; authenticated callers must
// match the invited email, get a membership if they lack one, and consume
// the token.
func (s *groupService) AcceptInvite(token string, userID *uint) (*AcceptResult, error) {
	var invite models.PendingInvite
	err := s.db.Where("token = ? AND expires_at > ?", token, time.Now()).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInviteInvalid
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var group models.Group
	if err := s.db.First(&group, invite.GroupID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if userID == nil {
		return &AcceptResult{
			RequiresAuth: true,
			InviteToken:  token,
			GroupID:      group.ID,
			GroupName:    group.GroupName,
		}, nil
	}

	var user models.User
	if err := s.db.First(&user, *userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmailMismatch
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !strings.EqualFold(user.Email, invite.Email) {
		return nil, apperrors.ErrEmailMismatch
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.GroupMember{}).Where("group_id = ? AND user_id = ?", invite.GroupID, *userID).Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			member := &models.GroupMember{
				GroupID: invite.GroupID,
				UserID:  *userID,
				Role:    models.RoleMember,
				Status:  models.StatusActive,
			}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}
		return tx.Where("token = ?", token).Delete(&models.PendingInvite{}).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &AcceptResult{
		GroupID:     group.ID,
		GroupName:   group.GroupName,
		RedirectURL: fmt.Sprintf("/group/%d", group.ID),
	}, nil
}

// GetPendingInvitesByEmail lists unexpired invites addressed to an email,
// joined with group name and inviter identity.
func (s *groupService) GetPendingInvitesByEmail(email string) ([]InviteInfo, error) {
	var invites []InviteInfo
	err := s.db.Model(&models.PendingInvite{}).
		Select("pending_invites.id, pending_invites.group_id, groups.group_name, users.username AS inviter_name, pending_invites.email, pending_invites.expires_at").
		Joins("JOIN groups ON groups.id = pending_invites.group_id").
		Joins("JOIN users ON users.id = groups.created_by").
		Where("pending_invites.email = ? AND pending_invites.expires_at > ?", email, time.Now()).
		Scan(&invites).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invites, nil
}

// GetGroupInfo fetches one group by id.
func (s *groupService) GetGroupInfo(groupID uint) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &group, nil
}

// GetMembers lists a group's members with their identities and roles.
func (s *groupService) GetMembers(groupID uint) ([]MemberInfo, error) {
	var members []MemberInfo
	err := s.db.Model(&models.GroupMember{}).
		Select("users.id, users.username, users.email, group_members.role").
		Joins("JOIN users ON users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID).
		Scan(&members).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}

// GetUserGroups lists the groups the user belongs to, newest first, with
// member counts.
func (s *groupService) GetUserGroups(userID uint) ([]GroupSummary, error) {
	var groups []GroupSummary
	err := s.db.Model(&models.Group{}).
		Select("groups.id, groups.group_name, groups.group_code, groups.created_by, groups.created_at, (?) AS member_count",
			s.db.Model(&models.GroupMember{}).Select("COUNT(*)").Where("group_members.group_id = groups.id")).
		Joins("JOIN group_members gm ON gm.group_id = groups.id").
		Where("gm.user_id = ?", userID).
		Order("groups.created_at DESC").
		Scan(&groups).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return groups, nil
}

// UpdateGroupName renames a group.
func (s *groupService) UpdateGroupName(groupID uint, name string) error {
	name = strings.TrimSpace(name)
	if len(name) < minGroupNameLength {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Group name must be at least 3 characters")
	}

	res := s.db.Model(&models.Group{}).Where("id = ?", groupID).Update("group_name", name)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrGroupNotFound
	}
	return nil
}

// RemoveMember drops a membership. Removing the only remaining admin is
// refused so the group cannot become orphaned.
func (s *groupService) RemoveMember(groupID, memberID uint) error {
	var member models.GroupMember
	if err := s.db.Where("group_id = ? AND user_id = ?", groupID, memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if member.Role == models.RoleAdmin {
		var admins int64
		if err := s.db.Model(&models.GroupMember{}).Where("group_id = ? AND role = ?", groupID, models.RoleAdmin).Count(&admins).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if admins <= 1 {
			return apperrors.ErrLastAdmin
		}
	}

	if err := s.db.Delete(&member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteGroup removes the group and everything attached to it in one
// transaction.
func (s *groupService) DeleteGroup(groupID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.GroupExpense{},
			&models.GroupBudget{},
			&models.GroupMember{},
			&models.JoinRequest{},
			&models.PendingInvite{},
			&models.BlockedMember{},
		} {
			if err := tx.Where("group_id = ?", groupID).Delete(model).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		res := tx.Delete(&models.Group{}, groupID)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrGroupNotFound
		}
		return nil
	})
}

func (s *groupService) pendingRequests(db *gorm.DB, groupID uint) ([]PendingRequest, error) {
	var requests []PendingRequest
	err := db.Model(&models.JoinRequest{}).
		Select("join_requests.id, users.id AS user_id, users.username, users.email, join_requests.requested_at").
		Joins("JOIN users ON users.id = join_requests.user_id").
		Where("join_requests.group_id = ? AND join_requests.status = ?", groupID, "pending").
		Order("join_requests.requested_at DESC").
		Scan(&requests).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return requests, nil
}
