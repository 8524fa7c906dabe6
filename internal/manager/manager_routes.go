package manager

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	managers := r.Group("/managers")
	{
		managers.GET("", middleware.RBACAuthorize(rbacService, "manager", "read"), handler.GetAll)
		managers.GET("/:id", middleware.RBACAuthorize(rbacService, "manager", "read"), handler.GetByID)
		managers.GET("/:id/team", middleware.RBACAuthorize(rbacService, "manager", "read"), handler.GetTeam)
		managers.POST("", middleware.RBACAuthorize(rbacService, "manager", "create"), handler.Create)
		managers.PUT("/:id", middleware.RBACAuthorize(rbacService, "manager", "update"), handler.Update)
		managers.DELETE("/:id", middleware.RBACAuthorize(rbacService, "manager", "delete"), handler.Delete)
	}
}
