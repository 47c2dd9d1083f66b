package discipline

import (
	"cafedesk/internal/middleware"
	"cafedesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	entries := r.Group("/discipline")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "discipline", "read"), handler.ListByMonth)
		entries.POST("", middleware.RBACAuthorize(rbacService, "discipline", "create"), handler.Create)
		entries.DELETE("/:id", middleware.RBACAuthorize(rbacService, "discipline", "delete"), handler.Delete)
	}
}
