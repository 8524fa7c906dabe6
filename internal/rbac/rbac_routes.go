package rbac

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	{
		// Enforce can probe any role, so only staff who manage approvals get it.
		group.POST("/enforce", middleware.RoleMiddleware(domain.RoleAdmin, domain.RoleManager), handler.Enforce)
		group.GET("/permissions", handler.Permissions)
	}
}
