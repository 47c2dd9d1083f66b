package report

import (
	"cafedesk/internal/middleware"
	"cafedesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/:date", middleware.RBACAuthorize(rbacService, "report", "read"), handler.GetOrCreate)
		reports.PUT("/:date", middleware.RBACAuthorize(rbacService, "report", "update"), middleware.Idempotency(rdb), handler.Save)
		reports.POST("/:date/expenses", middleware.RBACAuthorize(rbacService, "report", "create"), middleware.Idempotency(rdb), handler.AddExpense)
		reports.POST("/:date/transfers", middleware.RBACAuthorize(rbacService, "report", "create"), middleware.Idempotency(rdb), handler.AddTransfer)
		reports.POST("/:date/exports", middleware.RBACAuthorize(rbacService, "report", "create"), middleware.Idempotency(rdb), handler.AddExport)
	}
}
