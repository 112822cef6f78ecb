package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pawsquare/pawsquare/internal/auth"
	"github.com/pawsquare/pawsquare/internal/common"
)

const UserIDKey = "user_id"

// AuthRequired rejects requests without a valid bearer token and stores the
// subject user ID in the gin context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		header := c.GetHeader("Authorization")
		switch {
		case strings.HasPrefix(header, "Bearer "):
			token = strings.TrimPrefix(header, "Bearer ")
		case c.Query("token") != "":
			// websocket handshakes from browsers cannot carry headers
			token = c.Query("token")
		default:
			common.Fail(c, http.StatusUnauthorized, 40101, "Authentication required. Please sign in.")
			c.Abort()
			return
		}
		uid, err := auth.ParseJWT(token, secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40102, "Invalid or expired token.")
			c.Abort()
			return
		}
		c.Set(UserIDKey, uid)
		c.Next()
	}
}

func UserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
