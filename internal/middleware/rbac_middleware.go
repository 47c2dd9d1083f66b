package middleware

import (
	"net/http"

	"cafedesk/internal/rbac"
	"cafedesk/internal/shared/response"

	"github.com/gin-gonic/gin"
)

func RBACAuthorize(svc rbac.Service, object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Role not found", nil)
			c.Abort()
			return
		}

		allowed, err := svc.Can(role, object, action)
		if err != nil || !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not have permission to perform this action", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
