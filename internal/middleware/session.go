package middleware

import (
	"net/http"

	"quiz_backend/internal/config"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionMiddleware 为每个访客分配会话 Cookie，会话数据保存在 session.Store 中
func SessionMiddleware(cfg config.SessionConfig) gin.HandlerFunc {
	maxAge := int(cfg.TTL.Seconds())

	return func(c *gin.Context) {
		sid, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.New().String()
		}

		// 每次请求续期
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, sid, maxAge, "/", "", cfg.Secure, true)

		c.Set(util.SessionIDKey, sid)
		c.Next()
	}
}
