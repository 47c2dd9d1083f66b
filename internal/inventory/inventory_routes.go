package inventory

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
	products := r.Group("/inventory")
	products.Use(middleware.AuthMiddleware())
	{
		products.GET("", middleware.RBACAuthorize(rbacService, "inventory", "read"), handler.GetAll)
		products.GET("/low-stock", middleware.RBACAuthorize(rbacService, "inventory", "read"), handler.LowStock)
		products.GET("/:id", middleware.RBACAuthorize(rbacService, "inventory", "read"), handler.GetById)
		products.GET("/:id/history", middleware.RBACAuthorize(rbacService, "inventory", "read"), handler.History)
		products.POST("", middleware.RBACAuthorize(rbacService, "inventory", "create"), handler.Create)
		products.PUT("/:id", middleware.RBACAuthorize(rbacService, "inventory", "update"), handler.Update)
		products.POST("/:id/stock-in", middleware.RBACAuthorize(rbacService, "inventory", "update"), middleware.Idempotency(rdb), handler.StockIn)
		products.POST("/:id/stock-out", middleware.RBACAuthorize(rbacService, "inventory", "update"), middleware.Idempotency(rdb), handler.StockOut)
	}
}
