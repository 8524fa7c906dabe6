package apperror

import (
	"fmt"
	"net/http"
)

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)

	ErrInternal = New(
		CodeInternalError,
		"Internal server error",
		http.StatusInternalServerError,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)
)

func Validation(message string) *AppError {
	return New(CodeInvalidInput, message, http.StatusBadRequest)
}

func RequiredField(field string) *AppError {
	return Validation(fmt.Sprintf("%s is required", field))
}

func InvalidField(field string) *AppError {
	return Validation(fmt.Sprintf("%s is invalid", field))
}

func TooLong(field string, max int) *AppError {
	return Validation(fmt.Sprintf("%s must be at most %d characters", field, max))
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message, http.StatusNotFound)
}

func Duplicate(message string) *AppError {
	return New(CodeDuplicate, message, http.StatusConflict)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func DateRange(message string) *AppError {
	return New(CodeInvalidDateRange, message, http.StatusBadRequest)
}

func PolicyViolation(message string) *AppError {
	return New(CodePolicyViolation, message, http.StatusUnprocessableEntity)
}

func InsufficientBalance(message string) *AppError {
	return New(CodeInsufficientBalance, message, http.StatusUnprocessableEntity)
}
