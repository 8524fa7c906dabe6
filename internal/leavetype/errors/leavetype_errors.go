package leavetypeerrors

import (
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)
	ErrLeaveTypeAlreadyExists = apperror.New(
		apperror.CodeDuplicate,
		"Leave type with this code already exists",
		http.StatusConflict,
	)
	ErrLeaveTypeInUse = apperror.New(
		apperror.CodeConflict,
		"Leave type is referenced by leave requests",
		http.StatusConflict,
	)
)

// NotFound names the missing code the way the leave request form reports it.
func NotFound(code string) *apperror.AppError {
	return apperror.NotFound(fmt.Sprintf("Leave type %s not found", code))
}
