package settings

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
	settingsGroup := r.Group("/settings")
	settingsGroup.Use(middleware.AuthMiddleware())
	{
		settingsGroup.GET("", middleware.RBACAuthorize(rbacService, "settings", "read"), handler.GetAll)
		settingsGroup.GET("/:key", middleware.RBACAuthorize(rbacService, "settings", "read"), handler.Get)
		settingsGroup.PUT("/:key", middleware.RBACAuthorize(rbacService, "settings", "update"), handler.Set)
		settingsGroup.DELETE("/:key", middleware.RBACAuthorize(rbacService, "settings", "update"), handler.Delete)
		settingsGroup.POST("/clear-data", middleware.RBACAuthorize(rbacService, "settings", "manage"), handler.ClearData)
	}
}
