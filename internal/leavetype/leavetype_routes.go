package leavetype

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	types := r.Group("/leave-types")
	{
		types.GET("", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetAll)
		types.GET("/:code", middleware.RBACAuthorize(rbacService, "leave_type", "read"), handler.GetByCode)
		types.POST("", middleware.RBACAuthorize(rbacService, "leave_type", "create"), handler.Create)
		types.PUT("/:code", middleware.RBACAuthorize(rbacService, "leave_type", "update"), handler.Update)
		types.DELETE("/:code", middleware.RBACAuthorize(rbacService, "leave_type", "delete"), handler.Delete)
	}
}
