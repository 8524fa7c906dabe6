package leave

import (
	"net/http"
	"strings"

	"go-leave/internal/domain"
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
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

// callerScope reports whether the caller is limited to their own requests and,
// if so, which employee they are bound to.
func callerScope(c *gin.Context) (string, bool) {
	if c.GetString("role") != domain.RoleEmployee {
		return "", false
	}
	return c.GetString("employee_id"), true
}

// canActFor reports whether the caller may read or write requests owned by
// empID. A scoped caller with no bound employee may act for nobody.
func canActFor(c *gin.Context, empID string) bool {
	own, scoped := callerScope(c)
	if !scoped {
		return true
	}
	return own != "" && strings.TrimSpace(empID) == own
}

// authorizeExisting loads the request behind :id and checks the caller owns
// it. It writes the error response and returns false otherwise.
func (h *Handler) authorizeExisting(c *gin.Context) bool {
	if _, scoped := callerScope(c); !scoped {
		return true
	}
	existing, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return false
	}
	if !canActFor(c, existing.EmployeeID) {
		h.writeServiceError(c, apperror.ErrForbidden)
		return false
	}
	return true
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
		return
	}

	if !canActFor(c, req.EmployeeID) {
		h.writeServiceError(c, apperror.ErrForbidden)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	filter := listFilterFromQuery(c)
	if own, scoped := callerScope(c); scoped {
		if own == "" {
			h.writeServiceError(c, apperror.ErrForbidden)
			return
		}
		filter.EmployeeID = own
	}

	resp, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	empID := c.Param("empId")
	if !canActFor(c, empID) {
		h.writeServiceError(c, apperror.ErrForbidden)
		return
	}

	resp, err := h.service.GetByEmployee(c.Request.Context(), empID, listFilterFromQuery(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if !canActFor(c, resp.EmployeeID) {
		h.writeServiceError(c, apperror.ErrForbidden)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update leave validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
		return
	}

	if !canActFor(c, req.EmployeeID) {
		h.writeServiceError(c, apperror.ErrForbidden)
		return
	}
	if !h.authorizeExisting(c) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if !h.authorizeExisting(c) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func listFilterFromQuery(c *gin.Context) ListFilter {
	filter := ListFilter{
		Status:        c.Query("status"),
		EmployeeID:    strings.TrimSpace(c.Query("employee_id")),
		LeaveTypeCode: c.Query("leave_type"),
	}
	for _, part := range strings.Split(c.Query("expand"), ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "employee":
			filter.ExpandEmployee = true
		case "leave_type", "leavetype":
			filter.ExpandLeaveType = true
		}
	}
	return filter
}
