package operation

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
	operations := r.Group("/operations")
	operations.Use(middleware.AuthMiddleware())
	{
		operations.GET("", middleware.RBACAuthorize(rbacService, "operation", "read"), handler.ListByPeriod)
		operations.GET("/summary", middleware.RBACAuthorize(rbacService, "operation", "read"), handler.PeriodSummary)
		operations.POST("", middleware.RBACAuthorize(rbacService, "operation", "create"), handler.Create)
		operations.DELETE("/:id", middleware.RBACAuthorize(rbacService, "operation", "delete"), handler.Delete)
	}
}
