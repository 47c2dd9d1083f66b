package sync

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
	syncGroup := r.Group("/sync")
	syncGroup.Use(middleware.AuthMiddleware())
	{
		syncGroup.GET("/status", middleware.RBACAuthorize(rbacService, "sync", "read"), handler.Status)
		syncGroup.POST("/pull", middleware.RBACAuthorize(rbacService, "sync", "manage"), handler.TriggerPull)
		syncGroup.POST("/migrations/:collection", middleware.RBACAuthorize(rbacService, "sync", "manage"), handler.MigrateCollection)
	}
}
