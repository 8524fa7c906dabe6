package leaveerrors

import (
	"fmt"
	"net/http"
	"strings"

	"go-leave/internal/shared/apperror"
)

var (
	ErrLeaveRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid leave request ID",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidDateRange,
		"Start date must be before end date",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"Not enough leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of Pending, Approved, Rejected",
		http.StatusBadRequest,
	)
)

func InvalidDate(field string) *apperror.AppError {
	return apperror.Validation(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field))
}

func EmployeeNotFound(empID string) *apperror.AppError {
	return apperror.NotFound(fmt.Sprintf("Employee %s not found", empID))
}

func LeaveTypeNotFound(code string) *apperror.AppError {
	return apperror.NotFound(fmt.Sprintf("Leave type %s not found", code))
}

func PolicyExceeded(maxDays int, typeName string) *apperror.AppError {
	return apperror.PolicyViolation(fmt.Sprintf("Cannot request more than %d days for %s", maxDays, typeName))
}

// AlreadyDecided reports a request that has left Pending.
func AlreadyDecided(status string) *apperror.AppError {
	return apperror.Conflict(fmt.Sprintf("This request has already been %s", strings.ToLower(status)))
}
