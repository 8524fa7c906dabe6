package report

import (
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("report request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// section serves one part of the overview.
func (h *Handler) section(pick func(Overview) any) gin.HandlerFunc {
	return func(c *gin.Context) {
		ov, err := h.service.Overview(c.Request.Context())
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		response.Success(c, http.StatusOK, pick(ov), nil)
	}
}

func (h *Handler) Overview(c *gin.Context) {
	h.section(func(ov Overview) any { return ov })(c)
}

func (h *Handler) Dashboard(c *gin.Context) {
	h.section(func(ov Overview) any { return ov.Dashboard })(c)
}

func (h *Handler) StatusSummary(c *gin.Context) {
	h.section(func(ov Overview) any { return ov.StatusSummary })(c)
}

func (h *Handler) LeaveTypes(c *gin.Context) {
	h.section(func(ov Overview) any { return ov.LeaveTypeUtilization })(c)
}

func (h *Handler) EmployeeBalances(c *gin.Context) {
	h.section(func(ov Overview) any { return ov.EmployeeBalances })(c)
}

func (h *Handler) Managers(c *gin.Context) {
	h.section(func(ov Overview) any { return ov.ManagerSummary })(c)
}

func (h *Handler) Trend(c *gin.Context) {
	h.section(func(ov Overview) any { return ov.MonthlyTrend })(c)
}

func (h *Handler) AuditTrail(c *gin.Context) {
	h.section(func(ov Overview) any { return ov.AuditTrail })(c)
}

func (h *Handler) Summary(c *gin.Context) {
	h.section(func(ov Overview) any { return ov.Summary })(c)
}

func (h *Handler) Export(c *gin.Context) {
	exp, err := h.service.Export(c.Request.Context(), c.Param("report"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exp.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", exp.Data)
}

func (h *Handler) Refresh(c *gin.Context) {
	if err := h.service.Invalidate(c.Request.Context()); err != nil {
		h.logger.Warn("invalidate report cache failed", zap.Error(err))
	}
	h.Overview(c)
}
