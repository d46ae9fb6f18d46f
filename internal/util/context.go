package util

import "github.com/gin-gonic/gin"

// GetSessionID 返回 SessionMiddleware 写入的会话 ID
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
