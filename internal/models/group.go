package models

import "time"

// GroupRole is a member's role within a group.
type GroupRole string

const (
	RoleAdmin  GroupRole = "admin"
	RoleMember GroupRole = "member"
)

// MemberStatus is the participation state of a membership row.
type MemberStatus string

const (
	StatusActive  MemberStatus = "active"
	StatusPending MemberStatus = "pending"
)

// Group is a shared expense group with a short public join code.
type Group struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupName string    `gorm:"size:100;not null" json:"group_name"`
	GroupCode string    `gorm:"size:10;uniqueIndex;not null" json:"group_code"`
	CreatedBy uint      `gorm:"not null;index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupMember ties a user to a group with a role and status. One row per
// (group, user).
type GroupMember struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	GroupID  uint         `gorm:"not null;uniqueIndex:idx_member_group_user" json:"group_id"`
	UserID   uint         `gorm:"not null;uniqueIndex:idx_member_group_user" json:"user_id"`
	Role     GroupRole    `gorm:"size:10;not null;default:'member'" json:"role"`
	Status   MemberStatus `gorm:"size:10;not null;default:'active'" json:"status"`
	JoinedAt time.Time    `gorm:"autoCreateTime" json:"joined_at"`
}

// JoinRequest is a self-service membership request awaiting admin review.
type JoinRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	UserID      uint      `gorm:"not null" json:"user_id"`
	Status      string    `gorm:"size:10;not null;default:'pending'" json:"status"`
	RequestedAt time.Time `gorm:"autoCreateTime" json:"requested_at"`
}

// PendingInvite is an email-targeted, single-use, time-limited invitation.
type PendingInvite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// BlockedMember bars a user from requesting to join a group.
type BlockedMember struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	GroupID uint `gorm:"not null;uniqueIndex:idx_blocked_group_user" json:"group_id"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_blocked_group_user" json:"user_id"`
}
