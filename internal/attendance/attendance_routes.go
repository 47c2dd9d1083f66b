package attendance

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
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.ListByMonth)
		attendances.POST("", middleware.RBACAuthorize(rbacService, "attendance", "create"), handler.Mark)
		attendances.DELETE("", middleware.RBACAuthorize(rbacService, "attendance", "delete"), handler.Unmark)
	}
}
