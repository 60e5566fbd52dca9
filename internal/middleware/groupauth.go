package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "moneylog/internal/errors"
	"moneylog/internal/logger"
	"moneylog/internal/models"
)

const groupIDKey = "groupID"

// RequireGroupRole guards group-scoped routes. It resolves the :groupId path
// parameter, requires the caller to hold an active membership, and — when
// role is RoleAdmin — an admin one. It must run after Auth.
func RequireGroupRole(db *gorm.DB, role models.GroupRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		groupID, err := strconv.ParseUint(c.Param("groupId"), 10, 32)
		if err != nil {
			abortWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid group ID"))
			return
		}

		var membership models.GroupMember
		if err := db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWithError(c, apperrors.ErrNotAMember)
				return
			}
			logger.Get().Errorw("group membership lookup failed", "error", err, "group_id", groupID, "user_id", userID)
			abortWithError(c, apperrors.ErrInternalServer)
			return
		}

		if membership.Status != models.StatusActive {
			abortWithError(c, apperrors.ErrNotAMember)
			return
		}
		if role == models.RoleAdmin && membership.Role != models.RoleAdmin {
			abortWithError(c, apperrors.ErrAdminRequired)
			return
		}

		c.Set(groupIDKey, uint(groupID))
		c.Next()
	}
}

// GroupID extracts the group ID resolved by RequireGroupRole.
func GroupID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(groupIDKey)
	if !exists {
		return 0, false
	}
	return v.(uint), true
}
