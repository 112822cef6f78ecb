package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pawsquare/pawsquare/internal/common"
	"github.com/pawsquare/pawsquare/internal/moderation"
)

// BanGuard blocks write access for users with an active ban row.
func BanGuard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := UserID(c)
		if !ok {
			c.Next()
			return
		}
		var cnt int64
		err := db.WithContext(c.Request.Context()).
			Model(&moderation.UserBan{}).
			Where("user_id = ? AND (expires_at IS NULL OR expires_at > ?)", uid, time.Now()).
			Count(&cnt).Error
		if err == nil && cnt > 0 {
			common.Fail(c, http.StatusForbidden, 40301, "account is suspended")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ModeratorRequired gates the moderation dashboard routes on a moderator or
// admin row in user_roles.
func ModeratorRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := UserID(c)
		if !ok {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}
		var cnt int64
		err := db.WithContext(c.Request.Context()).
			Model(&moderation.UserRole{}).
			Where("user_id = ? AND role IN ?", uid, []string{moderation.RoleModerator, moderation.RoleAdmin}).
			Count(&cnt).Error
		if err != nil || cnt == 0 {
			common.Fail(c, http.StatusForbidden, 40302, "moderator role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
