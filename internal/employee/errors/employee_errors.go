package employeeerrors

import (
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeDuplicate,
		"Employee with this empId already exists",
		http.StatusConflict,
	)
	ErrEmployeeHasPendingRequests = apperror.New(
		apperror.CodeConflict,
		"Employee still has pending leave requests",
		http.StatusConflict,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"managerId is invalid",
		http.StatusBadRequest,
	)
	ErrEmployeeNumberExhausted = apperror.New(
		apperror.CodeInternalError,
		"Employee number sequence exhausted",
		http.StatusInternalServerError,
	)
)

func NotFound(empID string) *apperror.AppError {
	return apperror.NotFound(fmt.Sprintf("Employee %s not found", empID))
}

func ManagerNotFound(managerID string) *apperror.AppError {
	return apperror.NotFound(fmt.Sprintf("Manager %s not found", managerID))
}
