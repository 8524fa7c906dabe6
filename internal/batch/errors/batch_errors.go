package batcherrors

import (
	"fmt"

	"go-leave/internal/shared/apperror"
)

var (
	ErrNestedBatch = apperror.Validation("A batch cannot contain another batch")
)

func TooManyItems(max int) *apperror.AppError {
	return apperror.Validation(fmt.Sprintf("A batch may contain at most %d requests", max))
}

func UnsupportedMethod(index int, method string) *apperror.AppError {
	return apperror.Validation(fmt.Sprintf("Request %d: method %s is not supported", index, method))
}

func InvalidPath(index int) *apperror.AppError {
	return apperror.Validation(fmt.Sprintf("Request %d: path must start with /", index))
}
