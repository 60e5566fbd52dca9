package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/middleware"
	"moneylog/internal/services"
)

// GroupHandler handles group lifecycle and membership requests.
type GroupHandler struct {
	groupService services.GroupServicer
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService services.GroupServicer) *GroupHandler {
	return &GroupHandler{groupService: groupService}
}

// CreateGroupRequest represents the request payload for creating a group.
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
}

// JoinGroupRequest represents the request payload for joining by code.
type JoinGroupRequest struct {
	GroupCode string `json:"groupCode" binding:"required"`
}

// InviteRequest represents the request payload for inviting by email.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdateGroupRequest represents the request payload for renaming a group.
type UpdateGroupRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
}

// CreateGroup creates a group with the caller as its admin.
// @Summary     Create a group
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGroupRequest true "Group name"
// @Success     201 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.CreateGroup(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Group created successfully", gin.H{
		"groupId":   group.ID,
		"groupCode": group.GroupCode,
	})
}

// JoinGroup submits a join request for the group behind a code.
// @Summary     Request to join a group by code
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body JoinGroupRequest true "Join code"
// @Success     200 {object} SuccessResponse
// @Failure     403 {object} ErrorResponse "Blocked from this group"
// @Failure     404 {object} ErrorResponse "No group with this code"
// @Router      /groups/join [post]
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.groupService.JoinByCode(userID, req.GroupCode)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, result.Message, gin.H{"groupId": result.GroupID})
}

// GetPendingRequests lists a group's unresolved join requests.
// @Summary     List pending join requests
// @Tags        groups
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Success     200 {object} SuccessResponse
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /groups/{groupId}/requests [get]
func (h *GroupHandler) GetPendingRequests(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	requests, err := h.groupService.GetPendingRequests(groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", requests)
}

// ApproveRequest turns a join request into a membership.
// @Summary     Approve a join request
// @Tags        groups
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       requestId path int true "Request ID"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "Request not found"
// @Router      /groups/{groupId}/requests/{requestId}/approve [post]
func (h *GroupHandler) ApproveRequest(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	requestID, err := parsePathID(c, "requestId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	remaining, err := h.groupService.ApproveRequest(groupID, requestID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Request approved successfully", remaining)
}

// RejectRequest drops a join request.
// @Summary     Reject a join request
// @Tags        groups
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       requestId path int true "Request ID"
// @Success     200 {object} SuccessResponse
// @Router      /groups/{groupId}/requests/{requestId}/reject [post]
func (h *GroupHandler) RejectRequest(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	requestID, err := parsePathID(c, "requestId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	remaining, err := h.groupService.RejectRequest(groupID, requestID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Request rejected successfully", remaining)
}

// InviteMember emails an invitation token for the group.
// @Summary     Invite a member by email
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       request body InviteRequest true "Target email"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Already a member"
// @Router      /groups/{groupId}/invite [post]
func (h *GroupHandler) InviteMember(c *gin.Context) {
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

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.groupService.Invite(groupID, userID, req.Email)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Invitation sent to email", result)
}

// AcceptInvite resolves an invite token. Anonymous callers get a
// login-required payload; authenticated callers join the group.
// @Summary     Accept an invitation token
// @Tags        groups
// @Produce     json
// @Param       token query string true "Invite token"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Invalid or expired invitation"
// @Failure     403 {object} ErrorResponse "Invitation sent to a different email"
// @Router      /groups/accept-invite [get]
func (h *GroupHandler) AcceptInvite(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Token is required"))
		return
	}

	var userID *uint
	if id, ok := middleware.UserID(c); ok {
		userID = &id
	}

	result, err := h.groupService.AcceptInvite(token, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if result.RequiresAuth {
		respondOK(c, "Please login to accept invitation", result)
		return
	}
	respondOK(c, "Joined "+result.GroupName+" successfully!", result)
}

// GetPendingInvites lists unexpired invitations for an email.
// @Summary     List pending invitations for an email
// @Tags        groups
// @Produce     json
// @Param       email query string true "Email address"
// @Success     200 {object} SuccessResponse
// @Failure     400 {object} ErrorResponse "Email missing"
// @Router      /groups/pending-invites [get]
func (h *GroupHandler) GetPendingInvites(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Email is required"))
		return
	}

	invites, err := h.groupService.GetPendingInvitesByEmail(email)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", invites)
}

// GetGroupInfo returns one group.
// @Summary     Get group details
// @Tags        groups
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "Group not found"
// @Router      /groups/{groupId} [get]
func (h *GroupHandler) GetGroupInfo(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	group, err := h.groupService.GetGroupInfo(groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", group)
}

// GetMembers lists a group's members.
// @Summary     List group members
// @Tags        groups
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Success     200 {object} SuccessResponse
// @Router      /groups/{groupId}/members [get]
func (h *GroupHandler) GetMembers(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	members, err := h.groupService.GetMembers(groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", members)
}

// GetUserGroups lists the caller's groups.
// @Summary     List the caller's groups
// @Tags        groups
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SuccessResponse
// @Router      /groups [get]
func (h *GroupHandler) GetUserGroups(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.groupService.GetUserGroups(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", groups)
}

// UpdateGroupName renames a group.
// @Summary     Rename a group
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       request body UpdateGroupRequest true "New name"
// @Success     200 {object} SuccessResponse
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /groups/{groupId} [put]
func (h *GroupHandler) UpdateGroupName(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.groupService.UpdateGroupName(groupID, req.Name); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Group updated successfully", nil)
}

// RemoveMember drops a member from the group.
// @Summary     Remove a group member
// @Tags        groups
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Param       memberId path int true "Member user ID"
// @Success     200 {object} SuccessResponse
// @Failure     404 {object} ErrorResponse "Member not found"
// @Failure     409 {object} ErrorResponse "Cannot remove the only admin"
// @Router      /groups/{groupId}/members/{memberId} [delete]
func (h *GroupHandler) RemoveMember(c *gin.Context) {
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

	if err := h.groupService.RemoveMember(groupID, memberID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Member removed successfully", nil)
}

// DeleteGroup removes the group and everything attached to it.
// @Summary     Delete a group
// @Tags        groups
// @Produce     json
// @Security    BearerAuth
// @Param       groupId path int true "Group ID"
// @Success     200 {object} SuccessResponse
// @Failure     403 {object} ErrorResponse "Admin access required"
// @Router      /groups/{groupId} [delete]
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	groupID, err := groupIDFromContext(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.groupService.DeleteGroup(groupID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Group deleted successfully", nil)
}

// groupIDFromContext prefers the ID resolved by the group guard and falls
// back to the path parameter.
func groupIDFromContext(c *gin.Context) (uint, error) {
	if id, ok := middleware.GroupID(c); ok {
		return id, nil
	}
	return parsePathID(c, "groupId")
}
