package report

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	reports := r.Group("/reports", middleware.RBACAuthorize(rbacService, "report", "read"))
	{
		reports.GET("", handler.Overview)
		reports.GET("/dashboard", handler.Dashboard)
		reports.GET("/status-summary", handler.StatusSummary)
		reports.GET("/leave-types", handler.LeaveTypes)
		reports.GET("/employee-balances", handler.EmployeeBalances)
		reports.GET("/managers", handler.Managers)
		reports.GET("/trend", handler.Trend)
		reports.GET("/audit-trail", handler.AuditTrail)
		reports.GET("/summary", handler.Summary)
		reports.GET("/export/:report", handler.Export)
		reports.POST("/refresh", middleware.RateLimitByUser(0.2, 2), handler.Refresh)
	}
}
