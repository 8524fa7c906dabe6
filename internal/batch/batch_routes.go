package batch

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts POST /batch. Each item passes through the full
// middleware chain of its own route, so no RBAC is applied here.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	r.POST("/batch", middleware.RateLimitByUser(1, 3), handler.Submit)
}
