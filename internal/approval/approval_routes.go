package approval

import (
	"time"

	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	idempotencyTTL time.Duration,
) {
	approvals := r.Group("/approvals")
	{
		approvals.GET("", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetAll)
		approvals.GET("/:id", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetByID)
		approvals.POST("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "approval", "create"),
			middleware.Idempotency(rdb, idempotencyTTL),
			handler.Create,
		)
	}
}
