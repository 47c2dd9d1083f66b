package payroll

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
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("/sheet", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.MonthlySheet)
		payrolls.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Calculate)
	}
}
