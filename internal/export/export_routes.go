package export

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
	exports := r.Group("/exports")
	exports.Use(middleware.AuthMiddleware())
	{
		exports.GET("/reports/:date/share-text", middleware.RBACAuthorize(rbacService, "export", "read"), handler.ReportShareText)
		exports.GET("/payrolls", middleware.RBACAuthorize(rbacService, "export", "read"), handler.PayrollWorkbook)
		exports.GET("/operations", middleware.RBACAuthorize(rbacService, "export", "read"), handler.OperationsWorkbook)
	}
}
