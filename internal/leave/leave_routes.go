package leave

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	leaves := r.Group("/leave-requests")
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetById)
		leaves.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "leave_request", "create"),
			handler.Create,
		)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "update"), handler.Update)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "delete"), handler.Delete)
	}

	r.GET("/employees/:empId/leave-requests",
		middleware.RBACAuthorize(rbacService, "leave_request", "read"),
		handler.GetByEmployee,
	)
}
