package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdminMiddleware 拦截非管理员账号。
// 后台管理接口要求“已认证且 is_admin 为真”，否则返回 403，由前端跳转登录页。
func RequireAdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, ok := c.Get("isAdmin")
		if !ok {
			abortUnauthorized(c)
			return
		}
		if isAdmin, ok := value.(bool); !ok || !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
