package managererrors

import (
	"fmt"
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrManagerNotFound = apperror.New(
		apperror.CodeNotFound,
		"Manager not found",
		http.StatusNotFound,
	)
	ErrManagerEmailExists = apperror.New(
		apperror.CodeDuplicate,
		"Manager with this email already exists",
		http.StatusConflict,
	)
	ErrManagerHasEmployees = apperror.New(
		apperror.CodeConflict,
		"Manager still has employees assigned",
		http.StatusConflict,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid manager ID",
		http.StatusBadRequest,
	)
)

func NotFoundByName(name string) *apperror.AppError {
	return apperror.NotFound(fmt.Sprintf("Manager %s not found", name))
}
